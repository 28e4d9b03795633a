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

package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/freedv/ofdmcore/acquisition"
	"github.com/freedv/ofdmcore/config"
	"github.com/freedv/ofdmcore/core"
	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/iosamples"
	"github.com/freedv/ofdmcore/metrics"
	"github.com/freedv/ofdmcore/ptt"
	"github.com/freedv/ofdmcore/syncfsm"
)

var (
	runConfigFlag string
	runPTTDevice  string
	runPTTBaud    int
)

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigFlag, "config", "c", "", "path to runtime config YAML (required)")
	runCmd.Flags().StringVar(&runPTTDevice, "ptt-device", "", "serial device to key PTT on; empty disables PTT keying")
	runCmd.Flags().IntVar(&runPTTBaud, "ptt-baud", 9600, "baud rate for --ptt-device")
	_ = runCmd.MarkFlagRequired("config")
}

// newModemFromConfig builds an OfdmCore for rc.Mode and applies every
// runtime knob the config carries: sync policy, the per-estimator
// enable toggles, Tx shaping/DPSK, and burst-mode selection.
func newModemFromConfig(rc *config.RuntimeConfig) (*core.OfdmCore, error) {
	c, err := core.New(rc.Mode)
	if err != nil {
		return nil, err
	}
	switch rc.SyncMode {
	case "unsync":
		c.SetSync(syncfsm.UnSync)
	case "manualsync":
		c.SetSync(syncfsm.ManualSync)
	default:
		c.SetSync(syncfsm.AutoSync)
	}
	c.SetTimingEnable(rc.TimingEnable)
	c.SetFoffEstEnable(rc.FoffEstEnable)
	c.SetPhaseEstEnable(rc.PhaseEstEnable)
	c.SetPhaseEstBandwidthMode(rc.PhaseEstBandwidth == "locked")
	c.SetVerbose(rc.VerboseLevel)
	c.SetTxBPF(rc.TxBPFEnable)
	c.SetDPSK(rc.DPSKEnable)
	if rc.PacketsPerBurst > 0 {
		c.SetPacketsPerBurst(rc.PacketsPerBurst)
	}
	if rc.FoffEstHz != 0 {
		c.SetOffEstHz(rc.FoffEstHz)
	}
	return c, nil
}

// runRx reads packet-sized windows of PCM audio from stdin, demodulates
// each against the configured mode, and reports sync/SNR/frequency
// state via the metrics recorder. It runs one acquisition search per
// window rather than the continuous ring-buffer search a live radio
// link would need; aligning a raw audio stream into packet windows is
// left to whatever feeds this tool's stdin.
func runRx(c *core.OfdmCore, rec *metrics.Recorder) error {
	r := c.Resolved()
	packetSamples := r.Derived.SamplesPerFrame * r.Cfg.Np

	real, err := iosamples.ReadReal(os.Stdin)
	if err != nil {
		return fmt.Errorf("freedv-modem: reading rx audio: %w", err)
	}
	rx := iosamples.ToComplex(real)

	for len(rx) >= packetSamples {
		window := rx[:packetSamples]
		rx = rx[packetSamples:]

		acq := acquisition.SearchStreaming(r, c.PilotWaveform(), window)
		if acq.TimingValid {
			c.SetOffEstHz(acq.FoffHz)
		}

		result, err := c.DemodulatePacket(window, acq.TimingValid)
		if err != nil {
			log.Errorf("demodulating packet: %v", err)
			continue
		}

		rec.SetSyncState(int(result.State))
		rec.SetSNR(result.SNR.SNRdB3kHz)
		rec.SetFoff(result.FoffHz)
		rec.SetUWErrors(result.UWErrors)
		rec.IncPacket()

		log.Infof("state=%s uw_errors=%d snr=%.1fdB foff=%.1fHz",
			result.State, result.UWErrors, result.SNR.SNRdB3kHz, result.FoffHz)
	}
	return nil
}

// runRxBurst is set_packets_per_burst's CLI-reachable receive path: it
// locates each burst by matched-filtering the known preamble/postamble
// reference waveforms (package acquisition) against the incoming audio
// instead of the streaming pilot correlator runRx uses, then demodulates
// the packet lying between whichever amble won and advances past it.
func runRxBurst(c *core.OfdmCore, rec *metrics.Recorder) error {
	r := c.Resolved()
	plant := frame.NewPlant(r)
	preambleTD := acquisition.BuildAmble(r, plant, acquisition.PreambleSeed)
	postambleTD := acquisition.BuildAmble(r, plant, acquisition.PostambleSeed)

	packetSamples := r.Derived.SamplesPerFrame * r.Cfg.Np
	frameSamples := r.Derived.SamplesPerFrame

	real, err := iosamples.ReadReal(os.Stdin)
	if err != nil {
		return fmt.Errorf("freedv-modem: reading rx audio: %w", err)
	}
	rx := iosamples.ToComplex(real)

	for len(rx) > frameSamples {
		searchLen := packetSamples + 2*frameSamples
		if searchLen > len(rx) {
			searchLen = len(rx)
		}

		res := acquisition.SearchBurst(r, preambleTD, postambleTD, rx[:searchLen])
		if !res.TimingValid {
			rx = rx[frameSamples:]
			continue
		}

		packetStart := res.CtEst + len(preambleTD)
		if !res.PreambleWon {
			packetStart = res.CtEst - packetSamples
		}
		if packetStart < 0 || packetStart+packetSamples > len(rx) {
			rx = rx[frameSamples:]
			continue
		}

		c.SetOffEstHz(res.FoffHz)
		result, err := c.DemodulatePacket(rx[packetStart:packetStart+packetSamples], true)
		if err != nil {
			log.Errorf("demodulating burst packet: %v", err)
		} else {
			rec.SetSyncState(int(result.State))
			rec.SetSNR(result.SNR.SNRdB3kHz)
			rec.SetFoff(result.FoffHz)
			rec.SetUWErrors(result.UWErrors)
			rec.IncPacket()
			log.Infof("burst state=%s uw_errors=%d snr=%.1fdB foff=%.1fHz crc_valid=%v",
				result.State, result.UWErrors, result.SNR.SNRdB3kHz, result.FoffHz, result.CRCValid)
		}

		advance := packetStart + packetSamples
		if res.BackupSamples > 0 {
			advance -= res.BackupSamples
		} else if res.NinAfter > 0 {
			advance = packetStart + packetSamples + res.NinAfter - frameSamples
		}
		if advance <= 0 || advance > len(rx) {
			advance = packetStart + packetSamples
		}
		rx = rx[advance:]
	}
	return nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a modem instance against PCM audio on stdin",
	Long:  "Reads 16-bit PCM audio from stdin, demodulates packets for the configured mode, and exposes sync/SNR state over Prometheus and the log.",
	RunE: func(_ *cobra.Command, _ []string) error {
		ConfigureVerbosity()

		rc, err := config.Load(runConfigFlag)
		if err != nil {
			return err
		}

		c, err := newModemFromConfig(rc)
		if err != nil {
			return err
		}

		var keyer ptt.Interface = ptt.NullKeyer{}
		if runPTTDevice != "" {
			k, err := ptt.Open(runPTTDevice, runPTTBaud)
			if err != nil {
				return err
			}
			keyer = k
		}
		defer keyer.Close()

		rec := metrics.NewRecorder(rc.Mode)
		if rc.MetricsListenAddr != "" {
			go func() {
				if err := rec.ListenAndServe(rc.MetricsListenAddr); err != nil {
					log.Errorf("metrics server: %v", err)
				}
			}()
		}

		if c.BurstMode() {
			return runRxBurst(c, rec)
		}
		return runRx(c, rec)
	},
}
