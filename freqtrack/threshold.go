/*
Copyright (c) FreeDV OFDM Core Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package freqtrack

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// AdaptiveUWThreshold evaluates a user-supplied expression over recent
// UW-error and SNR history to produce a bad_uw_errors ceiling that can
// loosen on a clean, high-SNR channel or tighten on a noisy one, instead
// of the fixed per-mode constant in ModeConfig.BadUWErrors. This is an
// operational knob layered on top of the mode's fixed threshold, not a
// replacement for it: callers that don't configure an expression get
// the mode's constant back unchanged.
type AdaptiveUWThreshold struct {
	base int
	expr *govaluate.EvaluableExpression
}

// supportedVars are the only identifiers an adaptive-threshold
// expression may reference.
var supportedVars = map[string]bool{
	"base":       true,
	"snr":        true,
	"uw_errors":  true,
}

// NewAdaptiveUWThreshold parses expr once at construct time; base is the
// mode's configured BadUWErrors, used both as the "base" variable and as
// the fallback when expr is empty.
func NewAdaptiveUWThreshold(base int, expr string) (*AdaptiveUWThreshold, error) {
	a := &AdaptiveUWThreshold{base: base}
	if expr == "" {
		return a, nil
	}
	parsed, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("freqtrack: parsing adaptive UW threshold expression: %w", err)
	}
	for _, v := range parsed.Vars() {
		if !supportedVars[v] {
			return nil, fmt.Errorf("freqtrack: unsupported variable %q in adaptive UW threshold expression", v)
		}
	}
	a.expr = parsed
	return a, nil
}

// Evaluate returns the current threshold given the last measured SNR (dB)
// and UW error history average.
func (a *AdaptiveUWThreshold) Evaluate(snrDB, uwErrorsAvg float64) (int, error) {
	if a.expr == nil {
		return a.base, nil
	}
	result, err := a.expr.Evaluate(map[string]interface{}{
		"base":      float64(a.base),
		"snr":       snrDB,
		"uw_errors": uwErrorsAvg,
	})
	if err != nil {
		return 0, fmt.Errorf("freqtrack: evaluating adaptive UW threshold: %w", err)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("freqtrack: adaptive UW threshold expression did not return a number")
	}
	if f < 0 {
		f = 0
	}
	return int(f), nil
}
