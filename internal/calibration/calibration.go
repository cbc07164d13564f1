// Package calibration holds the hand-tuned coefficient tables behind the
// composite indices. Tables are versioned data, embedded as defaults and
// overridable from a file.
package calibration

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

const weightTolerance = 1e-6

// CETSInputs is the per-asset CETS tuple.
type CETSInputs struct {
	Liquidity float64   `yaml:"liquidity" json:"liquidity"`
	Sentiment float64   `yaml:"sentiment" json:"sentiment"`
	OnChain   float64   `yaml:"onchain" json:"onchain"`
	Weights   []float64 `yaml:"weights" json:"weights"`
}

// TSInputs is the per-asset TS tuple.
type TSInputs struct {
	Momentum  float64   `yaml:"momentum" json:"momentum"`
	Sentiment float64   `yaml:"sentiment" json:"sentiment"`
	OnChain   float64   `yaml:"onchain" json:"onchain"`
	Weights   []float64 `yaml:"weights" json:"weights"`
}

// GIRGTerms holds one value per GIRG input.
type GIRGTerms struct {
	Labor     float64 `yaml:"labor" json:"labor"`
	PMI       float64 `yaml:"pmi" json:"pmi"`
	Curve     float64 `yaml:"curve" json:"curve"`
	GlobalPMI float64 `yaml:"global_pmi" json:"global_pmi"`
}

// GIRGAssumed are the fallback macro readings.
type GIRGAssumed struct {
	Labor       float64 `yaml:"labor" json:"labor"`
	PMI         float64 `yaml:"pmi" json:"pmi"`
	YieldSpread float64 `yaml:"yield_spread" json:"yield_spread"`
	GlobalPMI   float64 `yaml:"global_pmi" json:"global_pmi"`
}

// GIRG is the recession gauge configuration.
type GIRG struct {
	Weights  GIRGTerms   `yaml:"weights" json:"weights"`
	Divisors GIRGTerms   `yaml:"divisors" json:"divisors"`
	Assumed  GIRGAssumed `yaml:"assumed" json:"assumed"`
}

// Calibration is one version of every coefficient table.
type Calibration struct {
	Version string                `yaml:"version" json:"version"`
	CETS    map[string]CETSInputs `yaml:"cets" json:"cets"`
	TS      map[string]TSInputs   `yaml:"ts" json:"ts"`
	GIRG    GIRG                  `yaml:"girg" json:"girg"`
}

// Default returns the embedded calibration.
func Default() (*Calibration, error) {
	return Parse(defaultsYAML)
}

// MustDefault is Default for callers that cannot handle an error. The
// embedded table is covered by tests.
func MustDefault() *Calibration {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a calibration file. An empty path returns the embedded defaults.
func Load(path string) (*Calibration, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a calibration document.
func Parse(data []byte) (*Calibration, error) {
	var c Calibration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse calibration: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Calibration) normalize() {
	cets := make(map[string]CETSInputs, len(c.CETS))
	for k, v := range c.CETS {
		cets[strings.ToLower(k)] = v
	}
	c.CETS = cets
	ts := make(map[string]TSInputs, len(c.TS))
	for k, v := range c.TS {
		ts[strings.ToLower(k)] = v
	}
	c.TS = ts
}

// Validate checks weight sums and divisors.
func (c *Calibration) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("calibration: version is required")
	}
	for asset, in := range c.CETS {
		if err := checkWeights(in.Weights); err != nil {
			return fmt.Errorf("calibration: cets %s: %w", asset, err)
		}
	}
	for asset, in := range c.TS {
		if err := checkWeights(in.Weights); err != nil {
			return fmt.Errorf("calibration: ts %s: %w", asset, err)
		}
	}
	w := c.GIRG.Weights
	if err := checkWeights([]float64{w.Labor, w.PMI, w.Curve, w.GlobalPMI}); err != nil {
		return fmt.Errorf("calibration: girg: %w", err)
	}
	d := c.GIRG.Divisors
	for name, v := range map[string]float64{"labor": d.Labor, "pmi": d.PMI, "curve": d.Curve, "global_pmi": d.GlobalPMI} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("calibration: girg divisor %s must be positive, got %v", name, v)
		}
	}
	return nil
}

func checkWeights(ws []float64) error {
	if len(ws) == 0 {
		return fmt.Errorf("no weights")
	}
	sum := 0.0
	for _, w := range ws {
		if math.IsNaN(w) || w < 0 {
			return fmt.Errorf("invalid weight %v", w)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights sum to %.6f, want 1", sum)
	}
	return nil
}

// CETSFor looks up an asset case-insensitively.
func (c *Calibration) CETSFor(asset string) (CETSInputs, bool) {
	in, ok := c.CETS[strings.ToLower(asset)]
	return in, ok
}

// TSFor looks up an asset case-insensitively.
func (c *Calibration) TSFor(asset string) (TSInputs, bool) {
	in, ok := c.TS[strings.ToLower(asset)]
	return in, ok
}

// Assets returns every asset present in either table, sorted.
func (c *Calibration) Assets() []string {
	seen := make(map[string]struct{})
	for k := range c.CETS {
		seen[k] = struct{}{}
	}
	for k := range c.TS {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
