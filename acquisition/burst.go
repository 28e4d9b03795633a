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

// BurstResult is the outcome of a burst preamble/postamble search: which
// waveform won, and how the caller must adjust its ring buffer.
type BurstResult struct {
	Result
	PreambleWon bool
	// BackupSamples is how far rxbufst must be walked back when the
	// postamble wins (Np*samplesperframe - ct_est); zero when the
	// preamble wins.
	BackupSamples int
	NinAfter      int
}

// SearchBurst runs matched filters for both the known preamble and
// postamble waveforms over the current ring window and returns whichever
// produces the larger metric.
func SearchBurst(r *modetable.Resolved, preambleTD, postambleTD, rx []complex128) BurstResult {
	pre := matchedFilterSearch(rx, preambleTD, r.Cfg.Fs, r.Cfg.Fmin, r.Cfg.Fmax)
	post := matchedFilterSearch(rx, postambleTD, r.Cfg.Fs, r.Cfg.Fmin, r.Cfg.Fmax)

	samplesPerFrame := r.Derived.Nss * r.Cfg.Ns
	packetSamples := r.Cfg.Np * samplesPerFrame

	var out BurstResult
	if pre.TimingMx >= post.TimingMx {
		out = BurstResult{Result: pre, PreambleWon: true}
		if pre.TimingMx > r.Cfg.TimingMxThresh {
			out.NinAfter = samplesPerFrame
		}
	} else {
		out = BurstResult{Result: post, PreambleWon: false}
		if post.TimingMx > r.Cfg.TimingMxThresh {
			out.BackupSamples = packetSamples - post.CtEst
			out.NinAfter = 0
		}
	}
	out.TimingValid = out.TimingMx > r.Cfg.TimingMxThresh
	return out
}

// matchedFilterSearch is a coarse (t-step=4, f-step=5Hz) then fine
// (+/-1 sample, +/-1Hz) two-stage joint (t, f) search against a known
// waveform.
func matchedFilterSearch(rx, known []complex128, fs, fmin, fmax float64) Result {
	knownEnergy := sumSqMag(known)
	n := len(known)

	bestOff, bestHz, bestMetric := 0, 0.0, 0.0
	for off := 0; off+n < len(rx); off += 4 {
		for hz := fmin; hz <= fmax; hz += 5 {
			m := matchedMetric(rx, known, off, hz, fs, knownEnergy)
			if m > bestMetric {
				bestMetric, bestOff, bestHz = m, off, hz
			}
		}
	}

	for off := bestOff - 1; off <= bestOff+1; off++ {
		if off < 0 || off+n >= len(rx) {
			continue
		}
		for hz := bestHz - 1; hz <= bestHz+1; hz++ {
			m := matchedMetric(rx, known, off, hz, fs, knownEnergy)
			if m > bestMetric {
				bestMetric, bestOff, bestHz = m, off, hz
			}
		}
	}

	return Result{TimingMx: bestMetric, FoffHz: bestHz, CtEst: bestOff}
}

func matchedMetric(rx, known []complex128, off int, hz, fs, knownEnergy float64) float64 {
	n := len(known)
	win := freqShift(rx[off:off+n], hz, fs, off)
	c := dot(win, known)
	rxEnergy := sumSqMag(rx[off : off+n])
	denom := knownEnergy * rxEnergy
	if denom == 0 {
		return 0
	}
	mag := cabs(c)
	return (mag * mag) / denom
}
