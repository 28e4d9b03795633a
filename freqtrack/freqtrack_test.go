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

package freqtrack_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/freqtrack"
)

func TestTrackerConvergesTowardTrueOffset(t *testing.T) {
	const trueOffsetHz = 3.0
	const frameDuration = 0.04
	n := 8
	pilot := []complex128{1, 1, 1, 1}

	tr := freqtrack.New(false)
	for i := 0; i < n; i++ {
		next := make([]complex128, len(pilot))
		rot := complex(math.Cos(2*math.Pi*trueOffsetHz*frameDuration), math.Sin(2*math.Pi*trueOffsetHz*frameDuration))
		for j, p := range pilot {
			next[j] = p * rot
		}
		tr.Update(pilot, next, frameDuration)
		pilot = next
	}
	require.Greater(t, tr.FoffHz(), 0.0)
}

func TestAdaptiveUWThresholdFallsBackToBaseWithoutExpression(t *testing.T) {
	a, err := freqtrack.NewAdaptiveUWThreshold(3, "")
	require.NoError(t, err)
	got, err := a.Evaluate(10, 0)
	require.NoError(t, err)
	require.Equal(t, 3, got)
}

func TestAdaptiveUWThresholdEvaluatesExpression(t *testing.T) {
	a, err := freqtrack.NewAdaptiveUWThreshold(3, "base + (snr > 10 ? 2 : -1)")
	require.NoError(t, err)
	got, err := a.Evaluate(15, 0)
	require.NoError(t, err)
	require.Equal(t, 5, got)
}

func TestAdaptiveUWThresholdRejectsUnknownVariable(t *testing.T) {
	_, err := freqtrack.NewAdaptiveUWThreshold(3, "base + bogus")
	require.Error(t, err)
}
