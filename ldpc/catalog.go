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

// Package ldpc names the LDPC codes the mode table selects by name and
// provides the collab.LdpcCodec seam the real belief-propagation decoder
// plugs into. The decoder itself is explicitly out of scope;
// this package carries only code parameters (K, N) and a toy code usable
// for end-to-end testing of everything around it.
package ldpc

import "fmt"

// Params describes one named LDPC code's dimensions. The parity-check
// matrices themselves are not reproduced here — they belong to the real
// decoder this package's contract plugs into.
type Params struct {
	Name string
	K    int // data bits per codeword
	N    int // codeword length (K + parity bits)
}

// Catalog is the set of codes the mode table in package modetable
// references by name.
var Catalog = map[string]Params{
	"HRA_112_112":    {Name: "HRA_112_112", K: 112, N: 224},
	"HRA_56_56":      {Name: "HRA_56_56", K: 56, N: 112},
	"HRAb_396_504":   {Name: "HRAb_396_504", K: 396, N: 504},
	"H_128_256_5":    {Name: "H_128_256_5", K: 128, N: 256},
	"H_4096_8192_3d": {Name: "H_4096_8192_3d", K: 4096, N: 8192},
	"H_1024_2048_4f": {Name: "H_1024_2048_4f", K: 1024, N: 2048},

	// LDPC_PROT_2020B protects only the UnequalProtectionBits most
	// significant bits of every codec frame under mode 2020B (see
	// EncodeUnequalGroup/DecodeUnequalGroup); its K/N are sized for that
	// sub-codeword, not a full codec frame.
	"LDPC_PROT_2020B": {Name: "LDPC_PROT_2020B", K: 33, N: 66},
}

// Lookup returns a named code's parameters, erroring for an unknown
// code name. Construction fails fast rather than defer the error to
// first use.
func Lookup(name string) (Params, error) {
	p, ok := Catalog[name]
	if !ok {
		return Params{}, fmt.Errorf("ldpc: unsupported code name %q", name)
	}
	return p, nil
}

// UnequalProtectionBits is the count of protected data bits at the front
// of every codec frame under LDPC_PROT_2020B: only the first
// 11 bits of each 52-bit codec frame are LDPC-protected.
const UnequalProtectionBits = 11

// UnusedLLR is the LLR value patched into unprotected codeword positions
// before decode.
const UnusedLLR = -100.0
