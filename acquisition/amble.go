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

package acquisition

import (
	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/ofdmrand"
	"github.com/freedv/ofdmcore/pilot"
	"github.com/freedv/ofdmcore/symbolmap"
)

// PreambleSeed and PostambleSeed are the fixed LCG seeds burst mode uses
// to build its known preamble/postamble reference waveforms.
const (
	PreambleSeed  = 2
	PostambleSeed = 3
)

// BuildAmble constructs one modem-frame's worth of pseudo-random-bit
// reference waveform for burst preamble/postamble matched filtering: an
// unshaped (amp_scale=1.0, tx_bpf=false) IDFT+CP pass over a single
// pilot-plus-data modem frame filled from the LCG seeded by seed.
func BuildAmble(r *modetable.Resolved, p *frame.Plant, seed int) []complex128 {
	nc, ns, bps := r.Cfg.Nc, r.Cfg.Ns, r.Cfg.Bps
	nBits := (ns - 1) * nc * bps
	bits := ofdmrand.Bits(nBits, seed)

	symbols := make([]complex128, (ns-1)*nc)
	for i := range symbols {
		off := i * bps
		symbols[i] = symbolmap.Map(bps, bits[off:off+bps])
	}

	l := &frame.Lattice{Rows: ns, Cols: nc + 2, Nc: nc, Ns: ns, Np: 1}
	l.Sym = make([][]complex128, ns)
	l.Sym[0] = pilot.Row(nc, r.Cfg.EdgePilots)
	for row := 1; row < ns; row++ {
		l.Sym[row] = make([]complex128, nc+2)
	}
	l.FillData(symbols)

	return p.ModulateLattice(l)
}
