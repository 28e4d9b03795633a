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

package frame_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/symbolmap"
)

func TestModulateDemodulateRoundTrip(t *testing.T) {
	r, err := modetable.Get("datac1")
	require.NoError(t, err)

	p := frame.NewPlant(r)

	nData := r.Cfg.Np * (r.Cfg.Ns - 1) * r.Cfg.Nc
	bits := make([]byte, nData*r.Cfg.Bps)
	for i := range bits {
		bits[i] = byte(i % 2)
	}
	symbols := make([]complex128, nData)
	for i := 0; i < nData; i++ {
		symbols[i] = symbolmap.Map(r.Cfg.Bps, bits[i*r.Cfg.Bps:(i+1)*r.Cfg.Bps])
	}

	tx, err := p.ModulatePacket(symbols)
	require.NoError(t, err)
	require.Equal(t, r.Cfg.Np*r.Cfg.Ns*p.SamplesPerSymbol(), len(tx))

	lattice, err := p.DemodulatePacket(tx)
	require.NoError(t, err)

	got := lattice.ExtractData()
	require.Equal(t, len(symbols), len(got))
	for i := range symbols {
		require.InDelta(t, real(symbols[i]), real(got[i]), 1e-6, "symbol %d real", i)
		require.InDelta(t, imag(symbols[i]), imag(got[i]), 1e-6, "symbol %d imag", i)
	}
}

func TestDPSKRoundTrip(t *testing.T) {
	base, err := modetable.Get("700D")
	require.NoError(t, err)
	base.Cfg.DPSKEnabled = true
	r, err := modetable.Resolve(base.Cfg)
	require.NoError(t, err)

	p := frame.NewPlant(r)
	nData := r.Cfg.Np * (r.Cfg.Ns - 1) * r.Cfg.Nc
	symbols := make([]complex128, nData)
	for i := range symbols {
		bits := []byte{byte((i / 2) % 2), byte(i % 2)}
		symbols[i] = symbolmap.Map(2, bits)
	}

	tx, err := p.ModulatePacket(symbols)
	require.NoError(t, err)

	lattice, err := p.DemodulatePacket(tx)
	require.NoError(t, err)
	got := lattice.ExtractData()
	for i := range symbols {
		require.InDelta(t, 0.0, math.Hypot(real(got[i])-real(symbols[i]), imag(got[i])-imag(symbols[i])), 1e-6,
			"symbol %d should recover after DPSK round trip", i)
	}
}
