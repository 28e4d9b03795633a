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

package modetable

import "fmt"

// uwHeadTail16 is the 16-bit UW pattern shared by datac0/datac1's first
// 16 bits.
var uwHeadTail16 = []byte{1, 1, 0, 0, 1, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0}

// uw24 is datac3's 24-bit unique word, concatenated twice (with an 8-bit
// overlap in the middle) to fill its 40-bit UW field.
var uw24 = []byte{1, 1, 0, 0, 1, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0}

func datac3UW() []byte {
	full := make([]byte, 40)
	copy(full[0:24], uw24)
	copy(full[16:40], uw24)
	return full
}

func defaults() ModeConfig {
	return ModeConfig{
		Fs: 8000, Tcp: 0.002, TxCentre: 1500, RxCentre: 1500,
		Ntxt: 4, TimingMxThresh: 0.30, EdgePilots: true,
		StateMachine: Voice1, DataMode: ModeVoice, FECCode: "HRA_112_112",
		ClipGain1: 2.5, ClipGain2: 0.8, ClipEn: false, TxBPFEn: true,
		AmpScale: 245e3, FoffLimiter: false,
		Fmin: -50, Fmax: 50, BadUWErrors: 3, FtWindowWidth: 32,
		Nc: 17, Ns: 8, Np: 1, Bps: 2, Ts: 0.018,
		Nuw: 10, TxUW: make([]byte, 64),
	}
}

// Modes returns every named mode in the reference table,
// resolved and validated.
func Modes() (map[string]*Resolved, error) {
	out := make(map[string]*Resolved)
	for name, cfg := range rawConfigs() {
		cfg.Name = name
		r, err := Resolve(cfg)
		if err != nil {
			return nil, fmt.Errorf("modetable: resolving %q: %w", name, err)
		}
		out[name] = r
	}
	return out, nil
}

// Get resolves a single named mode.
func Get(name string) (*Resolved, error) {
	raw := rawConfigs()
	cfg, ok := raw[name]
	if !ok {
		return nil, fmt.Errorf("modetable: unsupported mode %q", name)
	}
	cfg.Name = name
	return Resolve(cfg)
}

func rawConfigs() map[string]ModeConfig {
	d700d := defaults()

	d700e := defaults()
	d700e.Ts, d700e.Tcp, d700e.Nc, d700e.Ns = 0.014, 0.006, 21, 4
	d700e.EdgePilots = false
	d700e.Nuw, d700e.BadUWErrors, d700e.Ntxt = 12, 3, 2
	d700e.StateMachine = Voice2
	d700e.FtWindowWidth = 80
	d700e.FECCode = "HRA_56_56"
	d700e.TxBPFEn = false
	d700e.FoffLimiter = true
	d700e.AmpScale, d700e.ClipGain1 = 155e3, 3

	d2020 := defaults()
	d2020.Ts, d2020.Nc = 0.0205, 31
	d2020.FECCode = "HRAb_396_504"
	d2020.TxBPFEn = false
	d2020.AmpScale = 167e3

	d2020b := defaults()
	d2020b.Ts, d2020b.Tcp, d2020b.Nc, d2020b.Ns = 0.014, 0.004, 29, 5
	d2020b.FECCode = "HRA_56_56"
	d2020b.Nuw, d2020b.BadUWErrors = 16, 5
	d2020b.TxBPFEn = false
	d2020b.AmpScale = 130e3
	d2020b.EdgePilots = false
	d2020b.StateMachine = Voice2
	d2020b.FtWindowWidth = 64
	d2020b.FoffLimiter = true

	datac0 := defaults()
	datac0.Ns, datac0.Np, datac0.Tcp, datac0.Nc = 5, 4, 0.006, 9
	datac0.EdgePilots = false
	datac0.Ntxt = 0
	datac0.Nuw, datac0.BadUWErrors = 32, 9
	datac0.StateMachine = Data
	datac0.FtWindowWidth = 80
	datac0.FECCode = "H_128_256_5"
	datac0.TxUW = append(append([]byte{}, uwHeadTail16...), make([]byte, 64-16)...)
	datac0.TimingMxThresh = 0.08
	datac0.DataMode = ModeStreaming
	datac0.AmpScale, datac0.ClipGain1, datac0.ClipGain2 = 300e3, 2.2, 0.8
	datac0.TxBPFEn, datac0.ClipEn = true, true

	datac1 := defaults()
	datac1.Ns, datac1.Np, datac1.Tcp, datac1.Nc = 5, 38, 0.006, 27
	datac1.EdgePilots = false
	datac1.Ntxt = 0
	datac1.Nuw, datac1.BadUWErrors = 16, 6
	datac1.StateMachine = Data
	datac1.FtWindowWidth = 80
	datac1.FECCode = "H_4096_8192_3d"
	datac1.TxUW = append(append([]byte{}, uwHeadTail16...), make([]byte, 64-16)...)
	datac1.TimingMxThresh = 0.10
	datac1.DataMode = ModeStreaming
	datac1.TxBPFEn, datac1.ClipEn = false, false

	datac3 := defaults()
	datac3.Ns, datac3.Np, datac3.Tcp, datac3.Nc = 5, 29, 0.006, 9
	datac3.EdgePilots = false
	datac3.Ntxt = 0
	datac3.StateMachine = Data
	datac3.FtWindowWidth = 80
	datac3.TimingMxThresh = 0.10
	datac3.FECCode = "H_1024_2048_4f"
	datac3.Nuw, datac3.BadUWErrors = 40, 10
	uw := datac3UW()
	datac3.TxUW = append(append([]byte{}, uw...), make([]byte, 64-len(uw))...)
	datac3.DataMode = ModeStreaming
	datac3.AmpScale, datac3.ClipGain1, datac3.ClipGain2 = 300e3, 2.2, 0.8
	datac3.TxBPFEn, datac3.ClipEn = true, true

	return map[string]ModeConfig{
		"700D":   d700d,
		"700E":   d700e,
		"2020":   d2020,
		"2020B":  d2020b,
		"datac0": datac0,
		"datac1": datac1,
		"datac3": datac3,
	}
}
