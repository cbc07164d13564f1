package relay

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrTargetNotAllowed is returned for an unknown or missing target.
	ErrTargetNotAllowed = errors.New("target not allowed")
	// ErrPathNotAllowed is wrapped with the target name when the path is not
	// on the target's allow-list.
	ErrPathNotAllowed = errors.New("path not allowed")
)

// Target is one upstream host and the paths that may be relayed to it.
type Target struct {
	Name  string
	Base  string
	Paths []*regexp.Regexp
}

// DefaultTargets are the relayed upstreams.
func DefaultTargets() map[string]Target {
	return map[string]Target{
		"binance": {
			Name: "binance",
			Base: "https://fapi.binance.com",
			Paths: []*regexp.Regexp{
				regexp.MustCompile(`^/fapi/v1/openInterest$`),
				regexp.MustCompile(`^/futures/data/topLongShortAccountRatio$`),
				regexp.MustCompile(`^/futures/data/openInterestHist$`),
				regexp.MustCompile(`^/futures/data/topLongShortPositionRatio$`),
				regexp.MustCompile(`^/futures/data/globalLongShortAccountRatio$`),
				regexp.MustCompile(`^/fapi/v1/fundingRate$`),
			},
		},
		"okx": {
			Name: "okx",
			Base: "https://www.okx.com",
			Paths: []*regexp.Regexp{
				regexp.MustCompile(`^/api/v5/public/open-interest$`),
				regexp.MustCompile(`^/api/v5/public/funding-rate$`),
				regexp.MustCompile(`^/api/v5/rubik/stat/contracts/long-short-account-ratio$`),
			},
		},
	}
}

var defaultTargets = DefaultTargets()

// Check validates a target and path against the default allow-lists.
func Check(target, path string) error {
	return check(defaultTargets, target, path)
}

func check(targets map[string]Target, target, path string) error {
	t, ok := targets[target]
	if !ok || target == "" {
		return ErrTargetNotAllowed
	}
	for _, rx := range t.Paths {
		if rx.MatchString(path) {
			return nil
		}
	}
	return fmt.Errorf("%s %w", target, ErrPathNotAllowed)
}
