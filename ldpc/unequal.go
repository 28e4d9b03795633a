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

import "fmt"

// Mode 2020B groups three 52-bit codec frames and LDPC-protects only the
// leading UnequalProtectionBits of each; the rest ride as hard bits. These
// constants size that grouping.
const (
	CodecFrameBits  = 52
	FramesPerGroup  = 3
	RawGroupBits    = FramesPerGroup * CodecFrameBits // 156
	protectedBits   = FramesPerGroup * UnequalProtectionBits // 33
	unprotectedBits = RawGroupBits - protectedBits           // 123
	// padBit rounds the unprotected tail out to an even bit count so it
	// packs into whole QPSK symbols; the bit carries no information.
	padBit = 1
)

// TransmitGroupBits is the number of coded bits EncodeUnequalGroup emits
// for one 156-bit raw group: the 66-bit LDPC_PROT_2020B codeword over the
// 33 protected bits, plus the 123 unprotected bits and one pad bit.
const TransmitGroupBits = 66 + unprotectedBits + padBit

// EncodeUnequalGroup implements mode 2020B's unequal LDPC protection: it
// splits raw (one 156-bit group: three 52-bit codec frames) into the
// UnequalProtectionBits leading bits of each frame (LDPC-protected via
// LDPC_PROT_2020B) and the remaining bits (sent as hard bits), and
// concatenates protected-codeword + unprotected + one pad bit.
func EncodeUnequalGroup(raw []byte) ([]byte, error) {
	if len(raw) != RawGroupBits {
		return nil, fmt.Errorf("ldpc: EncodeUnequalGroup wants %d bits, got %d", RawGroupBits, len(raw))
	}
	codec, err := NewRepetitionCodec("LDPC_PROT_2020B")
	if err != nil {
		return nil, err
	}
	protected := make([]byte, 0, protectedBits)
	unprotected := make([]byte, 0, unprotectedBits)
	for f := 0; f < FramesPerGroup; f++ {
		frame := raw[f*CodecFrameBits : (f+1)*CodecFrameBits]
		protected = append(protected, frame[:UnequalProtectionBits]...)
		unprotected = append(unprotected, frame[UnequalProtectionBits:]...)
	}
	parity, err := codec.Encode(protected)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, TransmitGroupBits)
	out = append(out, protected...)
	out = append(out, parity...)
	out = append(out, unprotected...)
	out = append(out, 0) // pad bit
	return out, nil
}

// PatchUnusedLLR forces the trailing pad bit's LLR to UnusedLLR before the
// unprotected tail's hard decision, so a noisy channel estimate on a bit
// that carries no transmitted information can never influence decode.
func PatchUnusedLLR(llr []float64) []float64 {
	out := append([]float64{}, llr...)
	out[len(out)-1] = UnusedLLR
	return out
}

// DecodeUnequalGroup is EncodeUnequalGroup's inverse: it LDPC-decodes the
// 66-bit protected codeword and hard-decides the unprotected tail
// (patching the pad bit's LLR first), reassembling the 156-bit raw group.
func DecodeUnequalGroup(llr []float64) ([]byte, error) {
	if len(llr) != TransmitGroupBits {
		return nil, fmt.Errorf("ldpc: DecodeUnequalGroup wants %d LLRs, got %d", TransmitGroupBits, len(llr))
	}
	codec, err := NewRepetitionCodec("LDPC_PROT_2020B")
	if err != nil {
		return nil, err
	}
	protected, _, _, err := codec.Decode(llr[:66])
	if err != nil {
		return nil, err
	}
	patched := PatchUnusedLLR(llr[66:])
	unprotected := make([]byte, unprotectedBits)
	for i := 0; i < unprotectedBits; i++ {
		if patched[i] < 0 {
			unprotected[i] = 1
		}
	}

	out := make([]byte, RawGroupBits)
	for f := 0; f < FramesPerGroup; f++ {
		copy(out[f*CodecFrameBits:], protected[f*UnequalProtectionBits:(f+1)*UnequalProtectionBits])
		copy(out[f*CodecFrameBits+UnequalProtectionBits:], unprotected[f*(CodecFrameBits-UnequalProtectionBits):(f+1)*(CodecFrameBits-UnequalProtectionBits)])
	}
	return out, nil
}
