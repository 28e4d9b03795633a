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

package phaseest_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/phaseest"
	"github.com/freedv/ofdmcore/pilot"
)

// buildLattice fills a single-modem-frame lattice whose pilot and data
// rows have all been multiplied by a common channel gain, as a noiseless
// flat-fading channel would.
func buildLattice(nc int, gain complex128, dataOrig []complex128) *frame.Lattice {
	known := pilot.Row(nc, true)
	l := &frame.Lattice{Rows: 4, Cols: nc + 2, Nc: nc, Ns: 4, Np: 1}
	l.Sym = make([][]complex128, 4)
	l.Sym[0] = make([]complex128, nc+2)
	for i, k := range known {
		l.Sym[0][i] = k * gain
	}
	for row := 1; row < 4; row++ {
		l.Sym[row] = make([]complex128, nc+2)
		for c := 1; c <= nc; c++ {
			l.Sym[row][c] = dataOrig[c-1] * gain
		}
	}
	return l
}

func TestEstimateAndDerotateRemovesCommonPhaseRotation(t *testing.T) {
	nc := 4
	gain := cmplx.Rect(2, 1.0) // magnitude 2, arbitrary nonzero phase
	dataOrig := []complex128{complex(1, 0), complex(0, 1), complex(-1, 0), complex(0, -1)}
	l := buildLattice(nc, gain, dataOrig)

	tracker := phaseest.New()
	amp := tracker.EstimateAndDerotate(l, true, false)
	require.Greater(t, amp, 0.0)

	mag := cmplx.Abs(gain)
	for row := 1; row < 4; row++ {
		for c := 1; c <= nc; c++ {
			want := dataOrig[c-1] * complex(mag, 0)
			got := l.Sym[row][c]
			require.InDelta(t, real(want), real(got), 1e-6)
			require.InDelta(t, imag(want), imag(got), 1e-6)
		}
	}
}

func TestEstimateAndDerotateTracksMeanAmplitude(t *testing.T) {
	nc := 4
	gain := complex(2, 0)
	dataOrig := []complex128{complex(1, 0), complex(1, 0), complex(1, 0), complex(1, 0)}
	l := buildLattice(nc, gain, dataOrig)

	tracker := phaseest.New()
	require.Equal(t, 1.0, tracker.MeanAmp())
	tracker.EstimateAndDerotate(l, true, false)
	require.InDelta(t, 1.1, tracker.MeanAmp(), 1e-6)
}

func TestSetBandwidthModeLocksLowBandwidth(t *testing.T) {
	nc := 4
	gain := complex(1, 0)
	dataOrig := []complex128{complex(1, 0), complex(1, 0), complex(1, 0), complex(1, 0)}
	l := buildLattice(nc, gain, dataOrig)

	tracker := phaseest.New()
	tracker.SetBandwidthMode(true)
	amp := tracker.EstimateAndDerotate(l, true, false)
	require.Greater(t, amp, 0.0)
}
