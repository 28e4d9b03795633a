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

// Package iosamples reads and writes the 16-bit signed PCM sample
// streams the modem CLIs pass to and from sound cards or files, the
// format FreeDV's own command-line tools use on stdin/stdout.
package iosamples

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadReal reads little-endian int16 PCM samples from r until EOF,
// returning them widened to float64 for the frame plant.
func ReadReal(r io.Reader) ([]float64, error) {
	var out []float64
	buf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("iosamples: reading pcm sample: %w", err)
		}
		out = append(out, float64(int16(binary.LittleEndian.Uint16(buf))))
	}
	return out, nil
}

// WriteReal writes real-valued samples as little-endian int16 PCM,
// clamping to the int16 range.
func WriteReal(w io.Writer, samples []float64) error {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		v := clampInt16(s)
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	_, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("iosamples: writing pcm samples: %w", err)
	}
	return nil
}

// WriteComplexReal writes the real part of each complex sample as PCM,
// the convention the modem's Tx chain uses for the single-sideband
// signal it hands to a radio.
func WriteComplexReal(w io.Writer, samples []complex128) error {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = real(s)
	}
	return WriteReal(w, out)
}

// ToComplex lifts real PCM samples to complex128 with zero imaginary
// part. The frame plant's DFT stage is its own analytic filter; rx
// code feeds it real-valued radio audio, not a pre-computed Hilbert
// transform.
func ToComplex(samples []float64) []complex128 {
	out := make([]complex128, len(samples))
	for i, s := range samples {
		out[i] = complex(s, 0)
	}
	return out
}

func clampInt16(s float64) int16 {
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
