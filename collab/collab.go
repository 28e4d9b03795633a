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

// Package collab declares the external collaborator contracts the OFDM
// core depends on: the LDPC codec, the speech codec (Codec2/LPCNet), the
// symbol interleaver, and the CRC16 check. Package core wires concrete
// implementations of the first, third, and fourth (ldpc.RepetitionCodec,
// interleave.GoldenPrime, crc16.Codec) against these interfaces. A real
// speech codec remains out of scope; this package is the seam it would
// plug into.
package collab

// LdpcCodec is the contract for a named LDPC code. Encode computes the
// parity bits for a block of data bits; Decode runs belief propagation on a
// per-bit LLR vector and reports how many iterations it took and how
// many parity checks still failed.
type LdpcCodec interface {
	// Name returns the code's name (e.g. "HRA_112_112").
	Name() string
	// K is the number of data bits per codeword; N is the codeword
	// length. N-K is the parity length Encode returns.
	K() int
	N() int
	// Encode returns N-K parity bits for a K-bit data block.
	Encode(data []byte) (parity []byte, err error)
	// Decode runs the decoder over an N-entry LLR vector and returns the
	// K decoded data bits, the iteration count, and how many of the
	// code's parity checks are still unsatisfied.
	Decode(llr []float64) (bits []byte, iterations int, parityChecks int, err error)
}

// SpeechCodec is the opaque speech codec contract (Codec2 or the LPCNet
// neural vocoder, depending on mode). The core never inspects the bit
// contents it produces or consumes.
type SpeechCodec interface {
	BitsPerFrame() int
	SamplesPerFrame() int
	Encode(speech []int16) (bits []byte, err error)
	Decode(bits []byte) (speech []int16, err error)
}

// Interleaver is the bit-exact Galois-field golden-prime permutation
// contract (gp_interleave in the reference).
type Interleaver interface {
	Interleave(symbols []complex128) []complex128
	Deinterleave(symbols []complex128) []complex128
}

// CRC16 appends/validates a CCITT CRC (poly 0x1021, init 0xFFFF,
// MSB-first per byte), used to gate burst data-mode packet validity.
type CRC16 interface {
	Compute(data []byte) uint16
	Append(data []byte) []byte
	Validate(dataWithCRC []byte) bool
}
