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

// Package txshape implements the nonlinear Tx shaping chain: amplitude
// scale, Hilbert (magnitude-only) clipper, complex band-pass filter, and
// the final peak re-clip.
package txshape

import (
	"math"

	"github.com/freedv/ofdmcore/modetable"
)

// Peak is the hard ceiling every clip stage limits magnitude to.
const Peak = 16384.0

// Chain bundles the mode-selected shaping parameters and its BPF state.
type Chain struct {
	ampScale  float64
	clipEn    bool
	clipGain1 float64
	clipGain2 float64
	bpfEn     bool
	bpf       *bandpass
	centre    float64
	rs        float64
}

// New builds a shaping chain for a resolved mode.
func New(r *modetable.Resolved) *Chain {
	c := &Chain{
		ampScale:  r.Cfg.AmpScale,
		clipEn:    r.Cfg.ClipEn,
		clipGain1: r.Cfg.ClipGain1,
		clipGain2: r.Cfg.ClipGain2,
		bpfEn:     r.Cfg.TxBPFEn,
		centre:    r.Cfg.TxCentre,
		rs:        r.Derived.Rs,
	}
	if c.bpfEn {
		c.bpf = newBandpass(c.centre, c.rs)
	}
	return c
}

// SetBPFEnabled implements set_tx_bpf, toggling the band-pass stage at
// runtime; the filter is (re)built lazily the first time it is enabled.
func (c *Chain) SetBPFEnabled(v bool) {
	c.bpfEn = v
	if v && c.bpf == nil {
		c.bpf = newBandpass(c.centre, c.rs)
	}
}

// Apply runs the full Tx shaping chain over a packet's samples in place
// and returns the same slice for convenience.
func (c *Chain) Apply(samples []complex128) []complex128 {
	for i := range samples {
		samples[i] *= complex(c.ampScale, 0)
	}
	if c.clipEn {
		for i := range samples {
			samples[i] = hilbertClip(samples[i]*complex(c.clipGain1, 0), Peak)
		}
	}
	if c.bpfEn {
		samples = c.bpf.Filter(samples)
	}
	if c.clipEn && c.bpfEn {
		for i := range samples {
			samples[i] *= complex(c.clipGain2, 0)
		}
	}
	for i := range samples {
		samples[i] = hilbertClip(samples[i], Peak)
	}
	return samples
}

// Clip is the magnitude-only limiter: x <- x*T/|x| when |x|>T. It is
// idempotent: Clip(Clip(x,T),T) == Clip(x,T), since the second pass
// always finds |x| <= T already.
func Clip(x complex128, t float64) complex128 {
	mag := cabs(x)
	if mag <= t || mag == 0 {
		return x
	}
	scale := t / mag
	return complex(real(x)*scale, imag(x)*scale)
}

func hilbertClip(x complex128, t float64) complex128 { return Clip(x, t) }

func cabs(x complex128) float64 {
	return math.Hypot(real(x), imag(x))
}
