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

// Command freedv-tx encodes a payload bitstream into one packet's worth
// of OFDM samples and writes them as PCM, keying PTT around the
// transmission if a serial device is given.
package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/freedv/ofdmcore/core"
	"github.com/freedv/ofdmcore/iosamples"
	"github.com/freedv/ofdmcore/ptt"
)

var (
	modeFlag      string
	inputFlag     string
	outputFlag    string
	pttDeviceFlag string
	pttBaudFlag   int
)

var rootCmd = &cobra.Command{
	Use:   "freedv-tx",
	Short: "Modulate a payload bitstream into one OFDM packet of PCM samples",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "700D", "mode to modulate for")
	rootCmd.Flags().StringVarP(&inputFlag, "input", "i", "-", "payload bit file (one byte per bit, 0/1); - for stdin")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "-", "PCM output file; - for stdout")
	rootCmd.Flags().StringVar(&pttDeviceFlag, "ptt-device", "", "serial device to key PTT on; empty disables PTT keying")
	rootCmd.Flags().IntVar(&pttBaudFlag, "ptt-baud", 9600, "baud rate for --ptt-device")
}

func readPayloadBits(path string, n int) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("freedv-tx: opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	bits := make([]byte, n)
	if _, err := io.ReadFull(r, bits); err != nil {
		return nil, fmt.Errorf("freedv-tx: reading %d payload bits: %w", n, err)
	}
	for i, b := range bits {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("freedv-tx: byte %d is %d, expected 0 or 1", i, b)
		}
	}
	return bits, nil
}

func run() error {
	c, err := core.New(modeFlag)
	if err != nil {
		return err
	}

	payloadBits, err := readPayloadBits(inputFlag, c.PayloadBits())
	if err != nil {
		return err
	}

	txt := make([]byte, c.Resolved().Cfg.Ntxt)

	var keyer ptt.Interface = ptt.NullKeyer{}
	if pttDeviceFlag != "" {
		k, err := ptt.Open(pttDeviceFlag, pttBaudFlag)
		if err != nil {
			return err
		}
		keyer = k
	}
	defer keyer.Close()

	if err := keyer.Key(); err != nil {
		return err
	}

	samples, err := c.ModulatePacket(payloadBits, txt)
	if err != nil {
		if uerr := keyer.Unkey(); uerr != nil {
			log.Errorf("unkeying after modulation error: %v", uerr)
		}
		return err
	}

	var w io.Writer
	if outputFlag == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("freedv-tx: creating %s: %w", outputFlag, err)
		}
		defer f.Close()
		w = f
	}
	if err := iosamples.WriteComplexReal(w, samples); err != nil {
		return err
	}

	return keyer.Unkey()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
