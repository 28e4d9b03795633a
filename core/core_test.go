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

package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/core"
)

// ofdmRand reproduces the Octave-compatible LCG used to seed the
// deterministic payload-bit fixtures below.
func ofdmRand(n, seed int) []byte {
	out := make([]byte, n)
	s := seed
	for i := range out {
		s = (1103515245*s + 12345) % 32768
		if s < 0 {
			s += 32768
		}
		if s > 16384 {
			out[i] = 1
		}
	}
	return out
}

func TestRoundTripNoChannel700D(t *testing.T) {
	c, err := core.New("700D")
	require.NoError(t, err)

	payload := ofdmRand(c.PayloadBits(), 1)
	txt := make([]byte, c.Resolved().Cfg.Ntxt)

	tx, err := c.ModulatePacket(payload, txt)
	require.NoError(t, err)
	require.NotEmpty(t, tx)

	// Undo Tx shaping's amplitude scale so the DFT-side demod sees the
	// same symbol-amplitude signal the frame plant emitted; this test
	// exercises the full encode/decode pipeline (LDPC, interleaving,
	// packet assembly/disassembly, UW extraction), not AGC.
	unscaled := make([]complex128, len(tx))
	scale := complex(1/c.Resolved().Cfg.AmpScale, 0)
	for i, s := range tx {
		unscaled[i] = s * scale
	}

	result, err := c.DemodulatePacket(unscaled, true)
	require.NoError(t, err)
	require.Equal(t, 0, result.UWErrors)
	require.Equal(t, payload, result.Payload)
}

func TestPilotWaveformIsSharedAcrossInstancesOfSameMode(t *testing.T) {
	a, err := core.New("700D")
	require.NoError(t, err)
	b, err := core.New("700D")
	require.NoError(t, err)

	wa, wb := a.PilotWaveform(), b.PilotWaveform()
	require.Equal(t, wa, wb)
	require.Same(t, &wa[0], &wb[0])
}
