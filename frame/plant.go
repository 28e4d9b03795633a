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

package frame

import (
	"fmt"

	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/transform"
)

// Plant is the IDFT/DFT and cyclic-prefix engine bound to one resolved
// mode. It has no notion of bits, UWs, or LDPC codewords —
// those live in package packet; Plant only moves complex symbols in and
// out of time-domain samples.
type Plant struct {
	r    *modetable.Resolved
	plan *transform.Plan
}

// NewPlant builds a Plant for a resolved mode's carrier geometry.
func NewPlant(r *modetable.Resolved) *Plant {
	return &Plant{
		r:    r,
		plan: transform.NewPlan(r.Derived.M, r.Derived.TxNLower, r.Cfg.Nc+2),
	}
}

// ModulateLattice runs every row of an already-filled lattice through the
// IDFT and prepends each row's cyclic prefix, returning the concatenated
// packet-length sample stream, before Tx shaping is applied.
func (p *Plant) ModulateLattice(l *Lattice) []complex128 {
	ncp := p.r.Derived.Ncp
	m := p.r.Derived.M
	nss := p.r.Derived.Nss
	out := make([]complex128, 0, l.Rows*nss)
	for row := 0; row < l.Rows; row++ {
		td := p.plan.IDFT(l.Sym[row])
		out = append(out, td[m-ncp:m]...)
		out = append(out, td...)
	}
	return out
}

// ModulatePacket is the convenience path from a flat data-symbol stream
// to Tx samples: build the lattice, scatter data, optionally
// differentially encode, then run the frame plant. Tx shaping (package
// txshape) is applied by the caller over the full packet.
func (p *Plant) ModulatePacket(dataSymbols []complex128) ([]complex128, error) {
	want := p.r.Cfg.Np * (p.r.Cfg.Ns - 1) * p.r.Cfg.Nc
	if len(dataSymbols) != want {
		return nil, fmt.Errorf("frame: ModulatePacket wants %d data symbols, got %d", want, len(dataSymbols))
	}
	l := NewLattice(p.r)
	l.FillData(dataSymbols)
	if p.r.Cfg.DPSKEnabled {
		l.ApplyDPSK()
	}
	return p.ModulateLattice(l), nil
}

// DemodulateWindow runs the receive-side DFT over one M-sample window
// (the cyclic prefix already stripped by the caller's timing estimate),
// returning the Nc+2 occupied carrier values.
func (p *Plant) DemodulateWindow(samples []complex128) []complex128 {
	return p.plan.DFT(samples)
}

// DemodulatePacket walks a packet-length sample stream nss samples at a
// time, stripping each row's cyclic prefix and running the analysis DFT,
// producing a fully-populated lattice ready for pilot-based equalisation
// and (if enabled) differential decoding.
func (p *Plant) DemodulatePacket(samples []complex128) (*Lattice, error) {
	nss := p.r.Derived.Nss
	ncp := p.r.Derived.Ncp
	m := p.r.Derived.M
	rows := p.r.Cfg.Np * p.r.Cfg.Ns
	if len(samples) < rows*nss {
		return nil, fmt.Errorf("frame: DemodulatePacket wants at least %d samples, got %d", rows*nss, len(samples))
	}
	l := NewLattice(p.r)
	for row := 0; row < rows; row++ {
		start := row*nss + ncp
		l.Sym[row] = p.plan.DFT(samples[start : start+m])
	}
	if p.r.Cfg.DPSKEnabled {
		l.RemoveDPSK()
	}
	return l, nil
}

// SamplesPerSymbol is the row stride (M+Ncp) of the modem this plant was
// built for.
func (p *Plant) SamplesPerSymbol() int { return p.r.Derived.Nss }

// Resolved exposes the mode this plant was constructed from.
func (p *Plant) Resolved() *modetable.Resolved { return p.r }
