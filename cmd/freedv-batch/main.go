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

// Command freedv-batch demodulates many PCM capture files concurrently,
// one OfdmCore instance per file since a core is not safe for concurrent
// or reentrant use on a single instance.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/freedv/ofdmcore/acquisition"
	"github.com/freedv/ofdmcore/core"
	"github.com/freedv/ofdmcore/iosamples"
)

var (
	modeFlag    string
	workersFlag int
)

var rootCmd = &cobra.Command{
	Use:   "freedv-batch [files...]",
	Short: "Demodulate the first packet of many PCM files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return run(args)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "700D", "mode to demodulate for")
	rootCmd.Flags().IntVarP(&workersFlag, "workers", "w", 4, "maximum files processed concurrently")
}

type fileResult struct {
	path     string
	uwErrors int
	snrdB    float64
	err      error
}

func demodulateFile(path string) (fileResult, error) {
	c, err := core.New(modeFlag)
	if err != nil {
		return fileResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	real, err := iosamples.ReadReal(f)
	if err != nil {
		return fileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	r := c.Resolved()
	packetSamples := r.Derived.SamplesPerFrame * r.Cfg.Np
	if len(real) < packetSamples {
		return fileResult{path: path, err: fmt.Errorf("%s has %d samples, need %d", path, len(real), packetSamples)}, nil
	}
	rx := iosamples.ToComplex(real[:packetSamples])

	acq := acquisition.SearchStreaming(r, c.PilotWaveform(), rx)
	result, err := c.DemodulatePacket(rx, acq.TimingValid)
	if err != nil {
		return fileResult{path: path, err: err}, nil
	}
	return fileResult{path: path, uwErrors: result.UWErrors, snrdB: result.SNR.SNRdB3kHz}, nil
}

// run fans the given files out across at most workersFlag goroutines,
// bounding concurrency with a buffered semaphore the way a worker pool
// would, and collects every result before reporting (a run-time error
// from one file does not cancel the others).
func run(paths []string) error {
	sem := make(chan struct{}, workersFlag)
	results := make([]fileResult, len(paths))
	var mu sync.Mutex

	eg, _ := errgroup.WithContext(context.Background())
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := demodulateFile(path)
			if err != nil {
				res = fileResult{path: path, err: err}
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].path < results[j].path })

	failures := 0
	for _, r := range results {
		if r.err != nil {
			failures++
			log.Errorf("%s: %v", r.path, r.err)
			continue
		}
		fmt.Printf("%s: uw_errors=%d snr=%.1fdB\n", r.path, r.uwErrors, r.snrdB)
	}
	if failures > 0 {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
