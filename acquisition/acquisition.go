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

// Package acquisition implements joint time/frequency search: the
// streaming pilot-correlation variant for voice and streaming-data
// modes, and the burst preamble/postamble matched-filter variant for
// burst data modes.
package acquisition

import (
	"math"

	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/modetable"
)

// Result is one acquisition pass's outcome.
type Result struct {
	TimingValid bool
	FoffHz      float64
	CtEst       int
	TimingMx    float64
}

// PilotWaveform returns the time-domain samples of one pilot symbol
// (length Nss), with its cyclic-prefix region zeroed, as used by the
// streaming correlator.
func PilotWaveform(p *frame.Plant) []complex128 {
	r := p.Resolved()
	l := frame.NewLattice(r)
	td := p.ModulateLattice(&frame.Lattice{Rows: 1, Cols: l.Cols, Nc: l.Nc, Ns: l.Ns, Np: l.Np, Sym: [][]complex128{l.Sym[0]}})
	ncp := r.Derived.Ncp
	for i := 0; i < ncp; i++ {
		td[i] = 0
	}
	return td
}

func freqShift(samples []complex128, hz, fs float64, startIdx int) []complex128 {
	out := make([]complex128, len(samples))
	w := 2 * math.Pi * hz / fs
	for i, s := range samples {
		n := float64(startIdx + i)
		osc := complex(math.Cos(-w*n), math.Sin(-w*n))
		out[i] = s * osc
	}
	return out
}

func dot(a, b []complex128) complex128 {
	var acc complex128
	for i := range a {
		if i >= len(b) {
			break
		}
		acc += a[i] * complexConj(b[i])
	}
	return acc
}

func complexConj(c complex128) complex128 { return complex(real(c), -imag(c)) }

func sumSqMag(s []complex128) float64 {
	var acc float64
	for _, v := range s {
		acc += real(v)*real(v) + imag(v)*imag(v)
	}
	return acc
}

// SearchStreaming implements the streaming variant: correlate the pilot
// waveform against a sliding window of rx at three coarse frequency
// hypotheses, then refine.
func SearchStreaming(r *modetable.Resolved, pilotTD []complex128, rx []complex128) Result {
	nss := r.Derived.Nss
	samplesPerFrame := r.Derived.Nss * r.Cfg.Ns
	pilotEnergy := sumSqMag(pilotTD)
	norm := float64(nss) * pilotEnergy

	best := Result{}
	coarseHz := []float64{-40, 0, 40}
	searchStart := samplesPerFrame
	if searchStart+2*nss > len(rx) {
		searchStart = 0
	}
	for _, hz := range coarseHz {
		off, mx := bestOffset(rx, pilotTD, hz, r.Cfg.Fs, norm, searchStart, samplesPerFrame, nss)
		if mx > best.TimingMx {
			best = Result{TimingMx: mx, FoffHz: hz, CtEst: off}
		}
	}

	// Refine +/-20 Hz in 1 Hz steps around the winning coarse hypothesis.
	centre := best.FoffHz
	for df := -20.0; df <= 20.0; df += 1.0 {
		hz := centre + df
		off, mx := bestOffset(rx, pilotTD, hz, r.Cfg.Fs, norm, searchStart, samplesPerFrame, nss)
		if mx > best.TimingMx {
			best = Result{TimingMx: mx, FoffHz: hz, CtEst: off}
		}
	}

	best.TimingValid = best.TimingMx > r.Cfg.TimingMxThresh
	return best
}

func bestOffset(rx, pilotTD []complex128, hz, fs, norm float64, start, samplesPerFrame, nss int) (int, float64) {
	bestOff := start
	bestMx := 0.0
	for off := start; off+2*nss < len(rx); off += 2 {
		win1 := freqShift(rx[off:off+nss], hz, fs, off)
		c1 := dot(win1, pilotTD)

		var c2 complex128
		if off+samplesPerFrame+nss < len(rx) {
			win2 := freqShift(rx[off+samplesPerFrame:off+samplesPerFrame+nss], hz, fs, off+samplesPerFrame)
			c2 = dot(win2, pilotTD)
		}

		num := cabs(c1) + cabs(c2)
		denom := 2 * math.Sqrt(norm*sumSqMag(rx[off:off+nss])/float64(nss))
		var mx float64
		if denom > 0 {
			mx = num / denom
		}
		if mx > bestMx {
			bestMx = mx
			bestOff = off
		}
	}
	return bestOff, bestMx
}

func cabs(c complex128) float64 { return math.Hypot(real(c), imag(c)) }
