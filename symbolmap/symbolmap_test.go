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

package symbolmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/symbolmap"
)

func TestQPSKDemapInvertsMapForEveryBitPair(t *testing.T) {
	for b0 := byte(0); b0 <= 1; b0++ {
		for b1 := byte(0); b1 <= 1; b1++ {
			s := symbolmap.MapQPSK(b0, b1)
			got := symbolmap.DemapQPSK(s)
			require.Equal(t, [2]byte{b0, b1}, got, "bits (%d,%d)", b0, b1)
		}
	}
}

func TestQAM16DemapInvertsMapForEveryNibble(t *testing.T) {
	for n := 0; n < 16; n++ {
		bits := []byte{byte((n >> 3) & 1), byte((n >> 2) & 1), byte((n >> 1) & 1), byte(n & 1)}
		s := symbolmap.MapQAM16(bits)
		got := symbolmap.DemapQAM16(s)
		require.Equal(t, bits, got[:], "nibble %04b", n)
	}
}

func TestMapDemapRoundTripsThroughGenericEntry(t *testing.T) {
	require.Equal(t, []byte{1, 0}, symbolmap.Demap(symbolmap.BPSKQPSK, symbolmap.Map(symbolmap.BPSKQPSK, []byte{1, 0})))

	nibble := []byte{1, 1, 0, 1}
	require.Equal(t, nibble, symbolmap.Demap(symbolmap.BPSK16QAM, symbolmap.Map(symbolmap.BPSK16QAM, nibble)))
}

func TestMapPanicsOnUnsupportedBps(t *testing.T) {
	require.Panics(t, func() { symbolmap.Map(3, []byte{0, 1, 0}) })
}

func TestSoftDemapSignAgreesWithHardDemapForEveryQPSKSymbol(t *testing.T) {
	for b0 := byte(0); b0 <= 1; b0++ {
		for b1 := byte(0); b1 <= 1; b1++ {
			s := symbolmap.MapQPSK(b0, b1)
			llr := symbolmap.SoftDemap(symbolmap.BPSKQPSK, s, 1.0)
			require.Len(t, llr, 2)
			require.Equal(t, b0 == 1, llr[0] < 0)
			require.Equal(t, b1 == 1, llr[1] < 0)
		}
	}
}

func TestSoftDemapMagnitudeScalesWithAmp(t *testing.T) {
	s := symbolmap.MapQPSK(0, 0)
	low := symbolmap.SoftDemap(symbolmap.BPSKQPSK, s, 1.0)
	high := symbolmap.SoftDemap(symbolmap.BPSKQPSK, s, 2.0)
	require.InDelta(t, low[0]*2, high[0], 1e-9)
	require.InDelta(t, low[1]*2, high[1], 1e-9)
}
