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

package acquisition

import "github.com/freedv/ofdmcore/modetable"

// FineTimingResult is the per-frame timing refinement applied while
// synced.
type FineTimingResult struct {
	TimingEst   int
	SamplePoint int
	NinAdjust   int
}

// RefineTiming correlates the pilot waveform against the buffer slice
// centred on the prior timing estimate over a window of width
// ftWindowWidth, clamps sample_point into [timingEst+4, timingEst+Ncp-4],
// and signals a +/-Nss/4 nin adjustment when drift exceeds Nss/8.
func RefineTiming(r *modetable.Resolved, pilotTD []complex128, centred []complex128, priorTimingEst, ftWindowWidth int) FineTimingResult {
	nss := r.Derived.Nss
	ncp := r.Derived.Ncp

	best := priorTimingEst
	bestMx := -1.0
	half := ftWindowWidth / 2
	for d := -half; d <= half; d++ {
		off := half + d
		if off < 0 || off+nss > len(centred) {
			continue
		}
		c := dot(centred[off:off+nss], pilotTD)
		mx := cabs(c)
		if mx > bestMx {
			bestMx = mx
			best = priorTimingEst + d
		}
	}

	samplePoint := best
	lo, hi := best+4, best+ncp-4
	if samplePoint < lo {
		samplePoint = lo
	}
	if samplePoint > hi {
		samplePoint = hi
	}

	ninAdjust := 0
	if best > nss/8 {
		ninAdjust = -nss / 4
	} else if best < -nss/8 {
		ninAdjust = nss / 4
	}

	return FineTimingResult{TimingEst: best, SamplePoint: samplePoint, NinAdjust: ninAdjust}
}
