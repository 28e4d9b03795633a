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

// Package frame builds and tears down the OFDM frame lattice: the
// Np*Ns-row by Nc+2-column grid of pilot and data symbols, and drives
// the IDFT/DFT + cyclic-prefix plant built on top of it.
package frame

import (
	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/pilot"
)

// Lattice is one packet's worth of symbols: Np*Ns rows by Nc+2 columns.
// Row 0 of every Ns-row modem-frame slab is a pilot row; the rest carry
// data.
type Lattice struct {
	Rows, Cols int
	Nc, Ns, Np int
	Sym        [][]complex128
}

// NewLattice allocates a lattice with every pilot row pre-filled from the
// fixed pilot sequence.
func NewLattice(r *modetable.Resolved) *Lattice {
	nc, ns, np := r.Cfg.Nc, r.Cfg.Ns, r.Cfg.Np
	rows := np * ns
	cols := nc + 2
	l := &Lattice{Rows: rows, Cols: cols, Nc: nc, Ns: ns, Np: np}
	l.Sym = make([][]complex128, rows)
	pilotRow := pilot.Row(nc, r.Cfg.EdgePilots)
	for row := 0; row < rows; row++ {
		l.Sym[row] = make([]complex128, cols)
		if row%ns == 0 {
			copy(l.Sym[row], pilotRow)
		}
	}
	return l
}

// dataRowIndices returns the lattice row index of each of the Np*(Ns-1)
// data rows, in packet order (frame 0's data rows, then frame 1's, ...).
func (l *Lattice) dataRowIndices() []int {
	out := make([]int, 0, l.Np*(l.Ns-1))
	for row := 0; row < l.Rows; row++ {
		if row%l.Ns != 0 {
			out = append(out, row)
		}
	}
	return out
}

// FillData scatters a flat symbol stream into the lattice's data
// positions column-major: for carrier c ascending, walk every data row
// in packet order assigning the next symbol. symbols
// must have exactly Np*(Ns-1)*Nc entries.
func (l *Lattice) FillData(symbols []complex128) {
	rows := l.dataRowIndices()
	idx := 0
	for c := 1; c <= l.Nc; c++ {
		for _, row := range rows {
			l.Sym[row][c] = symbols[idx]
			idx++
		}
	}
}

// ExtractData is FillData's inverse: reads the lattice's data positions
// back out in the same column-major order.
func (l *Lattice) ExtractData() []complex128 {
	rows := l.dataRowIndices()
	out := make([]complex128, 0, len(rows)*l.Nc)
	for c := 1; c <= l.Nc; c++ {
		for _, row := range rows {
			out = append(out, l.Sym[row][c])
		}
	}
	return out
}

// ApplyDPSK differentially encodes every data row against the row
// directly above it in the same column (pilot or data), in increasing
// row order, as required when dpsk_en is set.
func (l *Lattice) ApplyDPSK() {
	for row := 1; row < l.Rows; row++ {
		if row%l.Ns == 0 {
			continue // pilot rows are never differentially encoded
		}
		for c := 0; c < l.Cols; c++ {
			l.Sym[row][c] *= l.Sym[row-1][c]
		}
	}
}

// RemoveDPSK is ApplyDPSK's inverse, used on the receive side: each data
// row's symbols are divided by (for unit-magnitude constellations,
// multiplied by the conjugate of) the row above.
func (l *Lattice) RemoveDPSK() {
	// Process from the bottom up so the row above is still the encoded
	// (not yet decoded) value, matching the encode-time dependency chain
	// run in reverse.
	for row := l.Rows - 1; row >= 1; row-- {
		if row%l.Ns == 0 {
			continue
		}
		for c := 0; c < l.Cols; c++ {
			above := l.Sym[row-1][c]
			if above == 0 {
				continue
			}
			l.Sym[row][c] *= complexConjUnit(above)
		}
	}
}

func complexConjUnit(c complex128) complex128 {
	m := real(c)*real(c) + imag(c)*imag(c)
	if m == 0 {
		return 0
	}
	return complex(real(c)/m, -imag(c)/m)
}
