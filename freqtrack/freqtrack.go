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

// Package freqtrack is the per-frame carrier frequency tracker run while
// synced, using the integral-servo shape used elsewhere in this codebase
// for frequency discipline: a single proportional correction per
// observation, optionally rate-limited, integrated into a running
// estimate.
package freqtrack

import "math"

// Gain is the fixed scaling applied to each frame's raw frequency error
// before it is integrated into the running estimate.
const Gain = 0.1

// Tracker integrates per-frame pilot-phasor frequency error observations
// into a running carrier offset estimate.
type Tracker struct {
	limiterEn bool
	foffHz    float64
}

// New builds a tracker. When limiterEn is set, each frame's raw error is
// clamped to +/-1 Hz before being scaled and integrated.
func New(limiterEn bool) *Tracker {
	return &Tracker{limiterEn: limiterEn}
}

// FoffHz returns the current integrated carrier frequency offset.
func (t *Tracker) FoffHz() float64 { return t.foffHz }

// SetFoffHz seeds the tracker's state, used after acquisition hands off
// its coarse+fine frequency estimate.
func (t *Tracker) SetFoffHz(f float64) { t.foffHz = f }

// Reset zeroes the tracker, used on a return to the search state.
func (t *Tracker) Reset() { t.foffHz = 0 }

// Update compares the aggregate pilot phasor of the current ("this") and
// next modem frame's pilot rows; the phase of their inner product is a
// frequency error across one modem-frame period. frameDuration is the
// time, in seconds, between the two pilot rows.
func (t *Tracker) Update(thisPilot, nextPilot []complex128, frameDuration float64) float64 {
	var accR, accI float64
	for i := range thisPilot {
		if i >= len(nextPilot) {
			break
		}
		p := complexConj(thisPilot[i]) * nextPilot[i]
		accR += real(p)
		accI += imag(p)
	}
	phase := math.Atan2(accI, accR)
	errHz := phase / (2 * math.Pi * frameDuration)
	if t.limiterEn {
		if errHz > 1 {
			errHz = 1
		} else if errHz < -1 {
			errHz = -1
		}
	}
	t.foffHz += Gain * errHz
	return t.foffHz
}

func complexConj(c complex128) complex128 { return complex(real(c), -imag(c)) }
