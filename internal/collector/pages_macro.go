package collector

import (
	"context"
	"strings"

	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

func (c *Collector) composite(h model.Header) *model.CompositeBoard {
	cets, ts := strategy.EvaluateAll(c.opts.Calibration)
	return &model.CompositeBoard{Header: h, Version: c.opts.Calibration.Version, CETS: cets, TS: ts}
}

// macro reads the labor statistic and the yield curve from FRED. PMI inputs
// have no free source and use the calibrated readings, as does any series
// FRED cannot serve.
func (c *Collector) macro(ctx context.Context, h model.Header) *model.MacroBoard {
	cal := c.opts.Calibration
	assumed := cal.GIRG.Assumed
	in := model.MacroInputs{
		Labor:       assumed.Labor,
		PMI:         assumed.PMI,
		YieldSpread: assumed.YieldSpread,
		GlobalPMI:   assumed.GlobalPMI,
	}
	var errs [2]error

	all(
		func() {
			v, err := c.opts.Sources.FRED.Latest(ctx, SeriesSahm)
			if err != nil {
				c.warn("fred", SeriesSahm, err)
				errs[0] = err
				return
			}
			in.Labor = v
		},
		func() {
			v, err := c.opts.Sources.FRED.Latest(ctx, SeriesCurve)
			if err != nil {
				c.warn("fred", SeriesCurve, err)
				errs[1] = err
				return
			}
			in.YieldSpread = v
		},
	)

	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return &model.MacroBoard{
		Header:  h,
		Version: cal.Version,
		Inputs:  in,
		GIRG:    strategy.EvaluateGIRG(cal, in),
		Err:     strings.Join(msgs, "; "),
	}
}
