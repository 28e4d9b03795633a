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

package modetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModesResolveAndValidate(t *testing.T) {
	modes, err := Modes()
	require.NoError(t, err)
	require.Len(t, modes, 7)

	for name, r := range modes {
		t.Run(name, func(t *testing.T) {
			require.Greater(t, r.Derived.M, 0, "M must be positive")
			require.Equal(t, r.Derived.M+r.Derived.Ncp, r.Derived.Nss)
			require.GreaterOrEqual(t, r.Derived.BitsPerPacket, r.Cfg.Nuw+r.Cfg.Ntxt, "P1")

			for i := 1; i < len(r.Derived.UWIndSym); i++ {
				require.Less(t, r.Derived.UWIndSym[i-1], r.Derived.UWIndSym[i])
			}
			maxSymIdx := r.Cfg.Np * (r.Cfg.Ns - 1) * r.Cfg.Nc / r.Cfg.Bps
			for _, idx := range r.Derived.UWIndSym {
				require.Less(t, idx, maxSymIdx*r.Cfg.Bps)
			}
		})
	}
}

func TestFingerprintStableAndDistinct(t *testing.T) {
	a, err := Get("700D")
	require.NoError(t, err)
	b, err := Get("700D")
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	c, err := Get("700E")
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestDatac3UWIsTwoCopiesOf24Bits(t *testing.T) {
	r, err := Get("datac3")
	require.NoError(t, err)
	require.Equal(t, 40, r.Cfg.Nuw)
}

func TestUnsupportedModeIsFatal(t *testing.T) {
	_, err := Get("not-a-mode")
	require.Error(t, err)
}
