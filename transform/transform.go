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

// Package transform provides the DFT/IDFT used to place OFDM carriers into
// an M-sample time-domain symbol and back. Carrier counts in every mode
// (Nc <= 31) and M (samples per symbol, a few hundred at most) are small
// enough that a direct summation transform is the appropriate tool here;
// see DESIGN.md for why no third-party FFT was pulled in for this piece.
package transform

import "math"

// Plan precomputes the twiddle factors for a length-M transform used to
// place Nc+2 occupied carrier bins starting at bin `lower`.
type Plan struct {
	m      int
	lower  int
	twReal [][]float64
	twImag [][]float64
}

// NewPlan builds a transform plan for an M-point IDFT/DFT where the
// occupied carrier bins run [lower, lower+numBins).
func NewPlan(m, lower, numBins int) *Plan {
	p := &Plan{m: m, lower: lower}
	p.twReal = make([][]float64, numBins)
	p.twImag = make([][]float64, numBins)
	for k := 0; k < numBins; k++ {
		bin := lower + k
		p.twReal[k] = make([]float64, m)
		p.twImag[k] = make([]float64, m)
		for n := 0; n < m; n++ {
			theta := 2 * math.Pi * float64(bin) * float64(n) / float64(m)
			p.twReal[k][n] = math.Cos(theta)
			p.twImag[k][n] = math.Sin(theta)
		}
	}
	return p
}

// IDFT places the given frequency-domain carrier values (length numBins,
// matching the plan's bins) into an M-sample time-domain symbol.
func (p *Plan) IDFT(carriers []complex128) []complex128 {
	out := make([]complex128, p.m)
	norm := 1.0 / float64(p.m)
	for n := 0; n < p.m; n++ {
		var accR, accI float64
		for k, c := range carriers {
			cr, ci := real(c), imag(c)
			tr, ti := p.twReal[k][n], p.twImag[k][n]
			// e^{+j theta} = cos+j sin ; multiply c * e^{+j theta}
			accR += cr*tr - ci*ti
			accI += cr*ti + ci*tr
		}
		out[n] = complex(accR*norm, accI*norm)
	}
	return out
}

// DFT extracts the plan's occupied carrier bins from an M-sample
// time-domain window.
func (p *Plan) DFT(samples []complex128) []complex128 {
	numBins := len(p.twReal)
	out := make([]complex128, numBins)
	for k := 0; k < numBins; k++ {
		var accR, accI float64
		for n := 0; n < p.m && n < len(samples); n++ {
			sr, si := real(samples[n]), imag(samples[n])
			tr, ti := p.twReal[k][n], -p.twImag[k][n] // conjugate for analysis transform
			accR += sr*tr - si*ti
			accI += sr*ti + si*tr
		}
		out[k] = complex(accR, accI)
	}
	return out
}
