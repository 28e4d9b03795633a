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

// Package phaseest estimates per-carrier pilot phase/amplitude and
// de-rotates a demodulated lattice's data symbols against it, tracking a
// smoothed amplitude estimate for LLR soft-demapping.
//
// The reference algorithm's low-bandwidth mode averages over the
// previous, this, next, and future pilot rows (spanning packet
// boundaries for modes with one modem frame per packet). This package
// only ever sees one packet's lattice at a time, so its low-bandwidth
// mode averages this-frame's and next-frame's pilot rows (falling back
// to this-frame alone for the last modem frame in a packet) rather than
// reaching outside the packet.
package phaseest

import (
	"math"

	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/pilot"
)

// Tracker holds the smoothed amplitude estimate carried across packets by
// one modem instance.
type Tracker struct {
	meanAmp float64
	lowBW   bool
}

// New builds a tracker with a unit initial amplitude estimate.
func New() *Tracker {
	return &Tracker{meanAmp: 1.0}
}

// SetBandwidthMode implements set_phase_est_bandwidth_mode(AUTO|LOCKED):
// LOCKED pins the estimator to low-bandwidth (neighbor-carrier-averaged)
// mode permanently; AUTO lets the caller pass synced, per call, to
// switch from high- to low-bandwidth once sync is achieved.
func (t *Tracker) SetBandwidthMode(locked bool) { t.lowBW = locked }

// MeanAmp returns the current smoothed amplitude estimate.
func (t *Tracker) MeanAmp() float64 { return t.meanAmp }

// EstimateAndDerotate estimates each modem frame's per-carrier channel
// phasor from its pilot row(s) and de-rotates that frame's data symbols
// against it, in place. synced selects low-bandwidth averaging when the
// tracker is in AUTO mode (LOCKED mode always averages low-bandwidth).
// It returns the updated smoothed amplitude estimate.
func (t *Tracker) EstimateAndDerotate(l *frame.Lattice, edgePilots bool, synced bool) float64 {
	known := pilot.Row(l.Nc, edgePilots)
	lowBW := t.lowBW || synced

	var ampSum float64
	var ampCount int
	for f := 0; f < l.Np; f++ {
		this := l.Sym[f*l.Ns]
		next := this
		if f+1 < l.Np {
			next = l.Sym[(f+1)*l.Ns]
		}
		est := channelEstimate(this, next, known, l.Nc, lowBW)
		for row := f*l.Ns + 1; row < (f+1)*l.Ns; row++ {
			for c := 1; c <= l.Nc; c++ {
				mag := cabs(est[c])
				if mag == 0 {
					continue
				}
				unit := est[c] / complex(mag, 0)
				l.Sym[row][c] *= conj(unit)
				ampSum += cabs(l.Sym[row][c])
				ampCount++
			}
		}
	}
	if ampCount > 0 {
		t.meanAmp = 0.9*t.meanAmp + 0.1*(ampSum/float64(ampCount))
	}
	return t.meanAmp
}

// channelEstimate builds the per-carrier channel phasor from this/next
// pilot rows against the known pilot pattern, averaging over the
// neighboring carrier too when lowBW is set.
func channelEstimate(this, next, known []complex128, nc int, lowBW bool) []complex128 {
	est := make([]complex128, nc+2)
	for c := 1; c <= nc; c++ {
		lo, hi := c, c
		if lowBW {
			lo, hi = max(1, c-1), min(nc, c+1)
		}
		var sum complex128
		var cnt int
		for cc := lo; cc <= hi; cc++ {
			if known[cc] == 0 {
				continue // silent edge column carries no pilot reference
			}
			sum += this[cc] * conj(known[cc])
			sum += next[cc] * conj(known[cc])
			cnt += 2
		}
		if cnt > 0 {
			est[c] = sum / complex(float64(cnt), 0)
		}
	}
	return est
}

func conj(c complex128) complex128 { return complex(real(c), -imag(c)) }
func cabs(c complex128) float64    { return math.Hypot(real(c), imag(c)) }
