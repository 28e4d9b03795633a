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

package txshape

import "math"

// bandpass is a complex FIR band-pass filter centred at the Tx centre
// frequency. Coefficients are a windowed-sinc low-pass prototype designed
// from one of four fixed passband/stopband pairs, which newBandpass picks
// by comparing each passband with the symbol rate.
type bandpass struct {
	coeffs []complex128
	centre float64
	rs     float64
}

// passbandWidths are the four selectable passband/stopband pairs, in Hz.
var passbandWidths = []struct{ pass, stop float64 }{
	{400, 600},
	{650, 900},
	{900, 1100},
	{1100, 1300},
}

func newBandpass(centre, rs float64) *bandpass {
	// Select the first pair whose passband (Hz) is at least the symbol
	// rate rs, or the widest pair when none is. Every mode in the table
	// has rs below 400 Hz, so every mode gets the 400/600 Hz pair; the
	// carrier count (occupied bandwidth) does not enter the choice.
	set := passbandWidths[0]
	for _, w := range passbandWidths {
		if w.pass >= rs {
			set = w
			break
		}
		set = w
	}
	return &bandpass{coeffs: designFIR(set.pass, set.stop, 8000), centre: centre, rs: rs}
}

// designFIR builds a windowed-sinc low-pass prototype of fixed length 31
// with cutoff midway between pass and stop, in Hz at sample rate fs.
func designFIR(pass, stop, fs float64) []complex128 {
	const n = 31
	cutoff := (pass + stop) / 2 / fs
	taps := make([]complex128, n)
	mid := (n - 1) / 2
	var sum float64
	for i := 0; i < n; i++ {
		k := i - mid
		var h float64
		if k == 0 {
			h = 2 * cutoff
		} else {
			h = math.Sin(2*math.Pi*cutoff*float64(k)) / (math.Pi * float64(k))
		}
		// Hamming window
		w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		h *= w
		taps[i] = complex(h, 0)
		sum += h
	}
	if sum != 0 {
		for i := range taps {
			taps[i] /= complex(sum, 0)
		}
	}
	return taps
}

// Filter runs the complex band-pass: modulate to baseband at -centre,
// apply the low-pass prototype, modulate back up.
func (b *bandpass) Filter(samples []complex128) []complex128 {
	n := len(samples)
	shifted := make([]complex128, n)
	w := 2 * math.Pi * b.centre / 8000 // same sample rate designFIR's prototype is built at
	for i, s := range samples {
		osc := complex(math.Cos(-w*float64(i)), math.Sin(-w*float64(i)))
		shifted[i] = s * osc
	}
	filtered := convolveSame(shifted, b.coeffs)
	out := make([]complex128, n)
	for i, s := range filtered {
		osc := complex(math.Cos(w*float64(i)), math.Sin(w*float64(i)))
		out[i] = s * osc
	}
	return out
}

func convolveSame(x, h []complex128) []complex128 {
	n, m := len(x), len(h)
	out := make([]complex128, n)
	half := m / 2
	for i := 0; i < n; i++ {
		var acc complex128
		for k := 0; k < m; k++ {
			j := i - k + half
			if j < 0 || j >= n {
				continue
			}
			acc += x[j] * h[k]
		}
		out[i] = acc
	}
	return out
}
