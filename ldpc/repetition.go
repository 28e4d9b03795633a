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

package ldpc

import (
	"fmt"

	"github.com/freedv/ofdmcore/collab"
)

// RepetitionCodec is a trivial collab.LdpcCodec stand-in: it repeats
// every data bit rate=N/K times and decodes by majority vote on the sign
// of the summed LLRs. It stands in for the real belief-propagation
// decoder, which is out of scope for this repository: core uses it for
// every block-coded mode, so the rest of the pipeline (packet assembly,
// interleaving, frame plant, acquisition) runs end to end.
type RepetitionCodec struct {
	name string
	k, n int
	rate int
}

var _ collab.LdpcCodec = (*RepetitionCodec)(nil)

// NewRepetitionCodec builds a repetition stand-in matching the named
// code's (K, N) dimensions from the catalog.
func NewRepetitionCodec(codeName string) (*RepetitionCodec, error) {
	p, err := Lookup(codeName)
	if err != nil {
		return nil, err
	}
	if p.K == 0 {
		return nil, fmt.Errorf("ldpc: code %q has zero K", codeName)
	}
	rate := p.N / p.K
	if rate < 1 {
		rate = 1
	}
	return &RepetitionCodec{name: p.Name, k: p.K, n: p.K * rate, rate: rate}, nil
}

func (c *RepetitionCodec) Name() string { return c.name }
func (c *RepetitionCodec) K() int       { return c.k }
func (c *RepetitionCodec) N() int       { return c.n }

// Encode returns N-K parity bits: rate-1 extra repeats of each data bit.
func (c *RepetitionCodec) Encode(data []byte) ([]byte, error) {
	if len(data) != c.k {
		return nil, fmt.Errorf("ldpc: %s.Encode wants %d bits, got %d", c.name, c.k, len(data))
	}
	parity := make([]byte, 0, c.n-c.k)
	for rep := 1; rep < c.rate; rep++ {
		parity = append(parity, data...)
	}
	return parity, nil
}

// Decode sums the LLRs of every repeat of a bit and takes the sign as
// the hard decision. Iterations is always 1 (there is no message
// passing in a repetition code); parityChecks counts how many repeat
// groups disagree internally.
func (c *RepetitionCodec) Decode(llr []float64) ([]byte, int, int, error) {
	if len(llr) != c.n {
		return nil, 0, 0, fmt.Errorf("ldpc: %s.Decode wants %d LLRs, got %d", c.name, c.n, len(llr))
	}
	bits := make([]byte, c.k)
	failedChecks := 0
	for i := 0; i < c.k; i++ {
		sum := 0.0
		signs := make([]bool, 0, c.rate)
		for rep := 0; rep < c.rate; rep++ {
			v := llr[rep*c.k+i]
			sum += v
			signs = append(signs, v < 0)
		}
		if sum < 0 {
			bits[i] = 1
		}
		for _, s := range signs {
			if s != (bits[i] == 1) {
				failedChecks++
			}
		}
	}
	return bits, 1, failedChecks, nil
}
