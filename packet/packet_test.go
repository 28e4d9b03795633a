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

package packet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/packet"
)

func randBits(n int, seed int) []byte {
	out := make([]byte, n)
	s := seed
	for i := range out {
		s = (1103515245*s + 12345) % 32768
		if s < 0 {
			s += 32768
		}
		out[i] = 0
		if s > 16384 {
			out[i] = 1
		}
	}
	return out
}

func TestAssembleDisassembleBitsIsBijective(t *testing.T) {
	for _, mode := range []string{"700D", "700E", "2020", "2020B", "datac0", "datac1", "datac3"} {
		r, err := modetable.Get(mode)
		require.NoError(t, err, mode)
		l := packet.NewLayout(r)

		payload := randBits(l.PayloadBits(), 1)
		txt := randBits(r.Cfg.Ntxt, 7)

		bits, err := l.AssembleBits(payload, txt)
		require.NoError(t, err, mode)

		gotPayload, gotTxt, uw, err := l.DisassembleBits(bits)
		require.NoError(t, err, mode)
		require.Equal(t, payload, gotPayload, mode)
		require.Equal(t, txt, gotTxt, mode)
		require.Equal(t, r.Cfg.TxUW[:r.Cfg.Nuw], uw, mode)
	}
}

func TestUWPlacementMatchesConfiguredUW(t *testing.T) {
	for _, mode := range []string{"700D", "700E", "2020", "2020B", "datac0", "datac1", "datac3"} {
		r, err := modetable.Get(mode)
		require.NoError(t, err, mode)
		l := packet.NewLayout(r)

		payloadSymCount := r.Cfg.Np*(r.Cfg.Ns-1)*r.Cfg.Nc - len(r.Derived.UWIndSym) - r.Cfg.Ntxt/r.Cfg.Bps
		payload := make([]complex128, payloadSymCount)
		txt := make([]byte, r.Cfg.Ntxt)

		symbols, err := l.AssembleSymbols(payload, txt)
		require.NoError(t, err, mode)

		errs, err := l.ExtractUWErrors(symbols)
		require.NoError(t, err, mode)
		require.Equal(t, 0, errs, mode)
	}
}
