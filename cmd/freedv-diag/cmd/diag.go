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
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/freedv/ofdmcore/acquisition"
	"github.com/freedv/ofdmcore/core"
	"github.com/freedv/ofdmcore/hoststats"
	"github.com/freedv/ofdmcore/iosamples"
)

var (
	diagModeFlag string
	diagFileFlag string
)

type status int

const (
	ok status = iota
	warn
	fail
)

var okString = color.GreenString("[ OK ]")
var warnString = color.YellowString("[WARN]")
var failString = color.RedString("[FAIL]")

var statusToString = []string{okString, warnString, failString}

func init() {
	RootCmd.AddCommand(diagCmd)
	diagCmd.Flags().StringVarP(&diagModeFlag, "mode", "m", "700D", "mode to demodulate against")
	diagCmd.Flags().StringVarP(&diagFileFlag, "file", "f", "", "PCM file to demodulate (required)")
	_ = diagCmd.MarkFlagRequired("file")
}

func checkTiming(acq acquisition.Result) (status, string) {
	if !acq.TimingValid {
		return fail, "acquisition search did not find a valid timing estimate"
	}
	return ok, fmt.Sprintf("timing acquired, correlation metric %.3f", acq.TimingMx)
}

func checkUWErrors(n, badUWErrors int) (status, string) {
	if n > badUWErrors {
		return fail, fmt.Sprintf("unique-word errors (%d) exceed the mode's bad-frame threshold (%d)", n, badUWErrors)
	}
	if n > 0 {
		return warn, fmt.Sprintf("unique-word errors present but within threshold: %d/%d", n, badUWErrors)
	}
	return ok, "unique word matched exactly"
}

func checkSNR(db float64) (status, string) {
	const warnThreshold = 2.0
	const failThreshold = -2.0
	if db < failThreshold {
		return fail, fmt.Sprintf("SNR estimate %.1fdB is below the failure floor (%.1fdB)", db, failThreshold)
	}
	if db < warnThreshold {
		return warn, fmt.Sprintf("SNR estimate %.1fdB is marginal (warn below %.1fdB)", db, warnThreshold)
	}
	return ok, fmt.Sprintf("SNR estimate %.1fdB", db)
}

func checkRealTime(margin float64) (status, string) {
	if margin <= 1.0 {
		return fail, fmt.Sprintf("processing a packet took longer than its own duration (margin %.2fx)", margin)
	}
	if margin < 2.0 {
		return warn, fmt.Sprintf("real-time margin is thin: %.2fx", margin)
	}
	return ok, fmt.Sprintf("real-time margin %.2fx", margin)
}

func diagRun(mode, path string) int {
	c, err := core.New(mode)
	if err != nil {
		fmt.Printf("%s constructing modem for mode %s: %v\n", failString, mode, err)
		return 127
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("%s opening %s: %v\n", failString, path, err)
		return 127
	}
	defer f.Close()

	real, err := iosamples.ReadReal(f)
	if err != nil {
		fmt.Printf("%s reading %s: %v\n", failString, path, err)
		return 127
	}

	r := c.Resolved()
	packetSamples := r.Derived.SamplesPerFrame * r.Cfg.Np
	if len(real) < packetSamples {
		fmt.Printf("%s %s has %d samples, need at least %d for one %s packet\n", failString, path, len(real), packetSamples, mode)
		return 127
	}
	rx := iosamples.ToComplex(real[:packetSamples])

	start := time.Now()
	acq := acquisition.SearchStreaming(r, c.PilotWaveform(), rx)
	result, err := c.DemodulatePacket(rx, acq.TimingValid)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("%s demodulating packet: %v\n", failString, err)
		return 127
	}

	packetDuration := time.Duration(float64(time.Second) * float64(r.Cfg.Ns) * r.Cfg.Ts * float64(r.Cfg.Np))
	margin := hoststats.RealTimeMargin(packetDuration, elapsed)

	checks := []struct {
		status status
		msg    string
	}{}
	run := func(s status, m string) {
		checks = append(checks, struct {
			status status
			msg    string
		}{s, m})
	}

	s, m := checkTiming(acq)
	run(s, m)
	s, m = checkUWErrors(result.UWErrors, r.Cfg.BadUWErrors)
	run(s, m)
	s, m = checkSNR(result.SNR.SNRdB3kHz)
	run(s, m)
	s, m = checkRealTime(margin)
	run(s, m)

	failed := 0
	for _, chk := range checks {
		if chk.status != ok {
			failed++
		}
		fmt.Printf("%s %s\n", statusToString[chk.status], chk.msg)
	}
	return failed
}

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Demodulate one packet from a PCM file and report sync/SNR/timing health",
	Long: `Demodulate one packet from a PCM file and report sync/SNR/timing health.
Exit code is the number of checks that did not pass (WARN or FAIL), or 127 on a hard error.`,
	Run: func(_ *cobra.Command, _ []string) {
		os.Exit(diagRun(diagModeFlag, diagFileFlag))
	},
}
