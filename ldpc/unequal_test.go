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

package ldpc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/ldpc"
)

func TestEncodeUnequalGroupRejectsWrongLength(t *testing.T) {
	_, err := ldpc.EncodeUnequalGroup(make([]byte, ldpc.RawGroupBits-1))
	require.Error(t, err)
}

func TestEncodeDecodeUnequalGroupRoundTrip(t *testing.T) {
	raw := make([]byte, ldpc.RawGroupBits)
	for i := range raw {
		raw[i] = byte(i % 2)
	}

	coded, err := ldpc.EncodeUnequalGroup(raw)
	require.NoError(t, err)
	require.Len(t, coded, ldpc.TransmitGroupBits)

	llr := make([]float64, len(coded))
	for i, b := range coded {
		if b == 1 {
			llr[i] = -5
		} else {
			llr[i] = 5
		}
	}

	decoded, err := ldpc.DecodeUnequalGroup(llr)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestPatchUnusedLLRForcesTrailingValue(t *testing.T) {
	llr := []float64{5, -5, 3}
	patched := ldpc.PatchUnusedLLR(llr)
	require.Equal(t, ldpc.UnusedLLR, patched[len(patched)-1])
	require.Equal(t, []float64{5, -5, 3}, llr, "PatchUnusedLLR must not mutate its input")
}

func TestDecodeUnequalGroupRejectsWrongLength(t *testing.T) {
	_, err := ldpc.DecodeUnequalGroup(make([]float64, ldpc.TransmitGroupBits-1))
	require.Error(t, err)
}
