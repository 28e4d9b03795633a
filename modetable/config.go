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

// Package modetable holds the per-mode ModeConfig values and the
// derived quantities every other package builds on.
package modetable

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash"
)

// StateMachine names the sync state machine variant a mode selects.
type StateMachine string

const (
	Voice1 StateMachine = "voice1"
	Voice2 StateMachine = "voice2"
	Data   StateMachine = "data"
)

// DataMode distinguishes streaming (pilot-correlation) acquisition from
// burst (preamble/postamble matched filter) acquisition. Voice modes use
// the empty string, which behaves like "streaming".
type DataMode string

const (
	ModeVoice     DataMode = ""
	ModeStreaming DataMode = "streaming"
	ModeBurst     DataMode = "burst"
)

// ModeConfig is the immutable-after-construct configuration bound to a
// modem instance.
type ModeConfig struct {
	Name string

	Fs float64 // sample rate, Hz
	Ts float64 // symbol period, s
	Tcp float64 // cyclic prefix duration, s

	Nc  int // data carriers
	Ns  int // symbols per modem frame (1 pilot + Ns-1 data rows)
	Np  int // modem frames per packet
	Bps int // bits per symbol: 2 (QPSK) or 4 (16-QAM)

	TxCentre float64
	RxCentre float64

	Nuw  int
	TxUW []byte // Nuw bits, MSB-first per UW symbol

	Ntxt int

	TimingMxThresh float64
	EdgePilots     bool

	StateMachine StateMachine
	DataMode     DataMode
	FECCode      string

	AmpScale   float64
	ClipGain1  float64
	ClipGain2  float64
	ClipEn     bool
	TxBPFEn    bool
	FoffLimiter bool

	Fmin, Fmax    float64
	BadUWErrors   int
	FtWindowWidth int

	DPSKEnabled bool
}

// Derived holds the quantities computed from a ModeConfig at construct
// time; every other package consumes these instead of recomputing them.
type Derived struct {
	Rs              float64
	M               int
	Ncp             int
	Nss             int // samples per symbol (M+Ncp)
	BitsPerFrame    int
	BitsPerPacket   int
	SamplesPerFrame int
	TxNLower        int // lowest occupied IDFT bin
	UWIndBits       []int
	UWIndSym        []int
	NuwFrames       int
}

// Resolved bundles a ModeConfig with its Derived quantities; this is what
// downstream packages are constructed from.
type Resolved struct {
	Cfg     ModeConfig
	Derived Derived
}

// Resolve validates cfg and computes its derived invariants.
func Resolve(cfg ModeConfig) (*Resolved, error) {
	rs := 1.0 / cfg.Ts
	mf := cfg.Fs / rs
	m := int(math.Round(mf))
	if math.Abs(mf-float64(m)) > 1e-6 {
		return nil, fmt.Errorf("modetable: Fs/Rs=%.6f is not an integer for mode %q", mf, cfg.Name)
	}
	ncp := int(math.Floor(cfg.Tcp * cfg.Fs))
	nss := m + ncp
	bitsPerFrame := (cfg.Ns - 1) * cfg.Nc * cfg.Bps
	bitsPerPacket := cfg.Np * bitsPerFrame
	samplesPerFrame := cfg.Ns * nss

	if cfg.Nuw+cfg.Ntxt > bitsPerPacket {
		return nil, fmt.Errorf("modetable: Nuw+Ntxt (%d) exceeds bitsperpacket (%d) for mode %q", cfg.Nuw+cfg.Ntxt, bitsPerPacket, cfg.Name)
	}
	if len(cfg.TxUW) < cfg.Nuw {
		return nil, fmt.Errorf("modetable: TxUW has %d bits, need %d for mode %q", len(cfg.TxUW), cfg.Nuw, cfg.Name)
	}

	uwIndBits, uwIndSym, nuwFrames, err := computeUWIndices(cfg, bitsPerFrame, samplesPerFrame)
	if err != nil {
		return nil, err
	}

	lower := int(math.Round(cfg.TxCentre/rs-float64(cfg.Nc)/2)) - 1

	return &Resolved{
		Cfg: cfg,
		Derived: Derived{
			Rs:              rs,
			M:               m,
			Ncp:             ncp,
			Nss:             nss,
			BitsPerFrame:    bitsPerFrame,
			BitsPerPacket:   bitsPerPacket,
			SamplesPerFrame: samplesPerFrame,
			TxNLower:        lower,
			UWIndBits:       uwIndBits,
			UWIndSym:        uwIndSym,
			NuwFrames:       nuwFrames,
		},
	}, nil
}

// Fingerprint returns a stable hash of the resolved mode, used as a cache
// key for precomputed pilot/preamble waveforms, avoiding recomputing
// IDFTs for a repeatedly-constructed mode in a long-running process.
func (r *Resolved) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%f|%f|%f|%d|%d|%d|%d|%f|%f|%d|%d|%v|%s|%s|%s",
		r.Cfg.Name, r.Cfg.Fs, r.Cfg.Ts, r.Cfg.Tcp, r.Cfg.Nc, r.Cfg.Ns, r.Cfg.Np, r.Cfg.Bps,
		r.Cfg.TxCentre, r.Cfg.RxCentre, r.Cfg.Nuw, r.Cfg.Ntxt, r.Cfg.TxUW, r.Cfg.StateMachine,
		r.Cfg.DataMode, r.Cfg.FECCode)
	return h.Sum64()
}
