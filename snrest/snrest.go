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

// Package snrest estimates Es/No and 3kHz-referred SNR from the power
// distribution of received payload symbols.
package snrest

import (
	"math"

	"github.com/eclesh/welford"

	"github.com/freedv/ofdmcore/modetable"
)

// Estimate is one packet's Es/No and SNR measurement.
type Estimate struct {
	EsNodB     float64
	SNRdB3kHz  float64
	SigPowerAvg float64
	NoisePowerAvg float64
}

// FromPayload computes an Es/No and 3kHz SNR estimate from a packet's
// payload symbols.
func FromPayload(r *modetable.Resolved, symbols []complex128) Estimate {
	sig := welford.New()
	for _, s := range symbols {
		p := real(s)*real(s) + imag(s)*imag(s)
		sig.Add(p)
	}
	sigPower := sig.Mean()
	rms := math.Sqrt(sigPower)

	noise := welford.New()
	for _, s := range symbols {
		mag := math.Hypot(real(s), imag(s))
		if mag <= rms {
			continue
		}
		re, im := math.Abs(real(s)), math.Abs(imag(s))
		sample := re
		if im < re {
			sample = im
		}
		noise.Add(sample)
	}
	noisePower := 2 * noise.Variance()

	var esno float64
	if noisePower > 0 {
		esno = 10 * math.Log10(sigPower/noisePower)
	}

	m := r.Derived.M
	snr := esno + 10*math.Log10(float64(r.Cfg.Nc)*r.Derived.Rs/3000) +
		10*math.Log10(float64(r.Derived.Ncp+m)/float64(m))

	return Estimate{EsNodB: esno, SNRdB3kHz: snr, SigPowerAvg: sigPower, NoisePowerAvg: noisePower}
}

// Smoother implements the voice-mode fast-attack/slow-decay SNR
// smoother. The first packet has no prior smoothed value, so it is
// taken as the raw estimate with no decay applied.
type Smoother struct {
	have bool
	snr  float64
}

// Update folds a new raw SNR reading into the smoother's state and
// returns the smoothed value.
func (s *Smoother) Update(snrNew float64) float64 {
	if !s.have {
		s.snr = snrNew
		s.have = true
		return s.snr
	}
	decayed := 0.9*s.snr + 0.1*snrNew
	if snrNew > decayed {
		s.snr = snrNew
	} else {
		s.snr = decayed
	}
	return s.snr
}

// Reset clears the smoother back to its "no prior value" state.
func (s *Smoother) Reset() { *s = Smoother{} }
