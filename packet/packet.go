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

// Package packet weaves the unique word, text bits, and LDPC-protected
// payload into (and back out of) one packet's worth of modem frames.
package packet

import (
	"fmt"

	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/symbolmap"
)

// Layout describes where UW, text, and payload bits/symbols land within
// one packet's flat bit/symbol streams, computed once per resolved mode.
type Layout struct {
	r              *modetable.Resolved
	uwBitSet       map[int]bool
	txtBitStart    int
	uwSymSet       map[int]bool
	txtSymStart    int
	totalDataSyms  int
	totalDataBits  int
	uwSymsOrdered  []int
}

// NewLayout builds the fixed UW/text placement for a resolved mode.
func NewLayout(r *modetable.Resolved) *Layout {
	l := &Layout{
		r:             r,
		uwBitSet:      make(map[int]bool, len(r.Derived.UWIndBits)),
		uwSymSet:      make(map[int]bool, len(r.Derived.UWIndSym)),
		totalDataSyms: r.Cfg.Np * (r.Cfg.Ns - 1) * r.Cfg.Nc,
	}
	l.totalDataBits = l.totalDataSyms * r.Cfg.Bps
	l.txtBitStart = l.totalDataBits - r.Cfg.Ntxt
	l.txtSymStart = l.totalDataSyms - r.Cfg.Ntxt/r.Cfg.Bps
	for _, b := range r.Derived.UWIndBits {
		l.uwBitSet[b] = true
	}
	l.uwSymsOrdered = append([]int{}, r.Derived.UWIndSym...)
	for _, s := range r.Derived.UWIndSym {
		l.uwSymSet[s] = true
	}
	return l
}

// PayloadBits is the number of payload bits a packet carries once the
// UW and text fields are subtracted.
func (l *Layout) PayloadBits() int { return l.totalDataBits - l.r.Cfg.Nuw - l.r.Cfg.Ntxt }

// AssembleBits weaves payload bits, the mode's fixed UW pattern, and
// caller-supplied text bits into one bitsperpacket-length stream in
// lattice-traversal (flat symbol) order.
func (l *Layout) AssembleBits(payload, txt []byte) ([]byte, error) {
	if len(payload) != l.PayloadBits() {
		return nil, fmt.Errorf("packet: AssembleBits wants %d payload bits, got %d", l.PayloadBits(), len(payload))
	}
	if len(txt) != l.r.Cfg.Ntxt {
		return nil, fmt.Errorf("packet: AssembleBits wants %d text bits, got %d", l.r.Cfg.Ntxt, len(txt))
	}
	out := make([]byte, l.totalDataBits)
	payloadIdx := 0
	for i := 0; i < l.totalDataBits; i++ {
		switch {
		case l.uwBitSet[i]:
			// filled below, in UW index order
		case i >= l.txtBitStart:
			out[i] = txt[i-l.txtBitStart]
		default:
			out[i] = payload[payloadIdx]
			payloadIdx++
		}
	}
	for i, b := range l.r.Derived.UWIndBits {
		out[b] = l.r.Cfg.TxUW[i]
	}
	return out, nil
}

// DisassembleBits mirrors AssembleBits: it splits a received flat bit
// stream back into payload bits, text bits, and the UW bits actually
// observed (for comparison against the configured tx_uw).
func (l *Layout) DisassembleBits(bits []byte) (payload, txt, uw []byte, err error) {
	if len(bits) != l.totalDataBits {
		return nil, nil, nil, fmt.Errorf("packet: DisassembleBits wants %d bits, got %d", l.totalDataBits, len(bits))
	}
	payload = make([]byte, 0, l.PayloadBits())
	txt = make([]byte, l.r.Cfg.Ntxt)
	uw = make([]byte, len(l.r.Derived.UWIndBits))
	for i := 0; i < l.totalDataBits; i++ {
		switch {
		case l.uwBitSet[i]:
		case i >= l.txtBitStart:
			txt[i-l.txtBitStart] = bits[i]
		default:
			payload = append(payload, bits[i])
		}
	}
	for i, b := range l.r.Derived.UWIndBits {
		uw[i] = bits[b]
	}
	return payload, txt, uw, nil
}

// AssembleSymbols is the modulator-side path: it scatters UW symbols
// (mapped from tx_uw bits on every call), complex payload symbols, and
// QPSK-modulated text bits
// into the flat Np*(Ns-1)*Nc data-symbol stream that frame.Lattice.FillData
// consumes. UW symbols are produced by MapUW, which Gray-maps the same
// tx_uw bits AssembleBits places — the two traversals are intentionally
// equivalent so either path yields the same transmitted waveform.
func (l *Layout) AssembleSymbols(payload []complex128, txtBits []byte) ([]complex128, error) {
	payloadSymCount := l.totalDataSyms - len(l.uwSymSet) - l.r.Cfg.Ntxt/l.r.Cfg.Bps
	if len(payload) != payloadSymCount {
		return nil, fmt.Errorf("packet: AssembleSymbols wants %d payload symbols, got %d", payloadSymCount, len(payload))
	}
	if len(txtBits) != l.r.Cfg.Ntxt {
		return nil, fmt.Errorf("packet: AssembleSymbols wants %d text bits, got %d", l.r.Cfg.Ntxt, len(txtBits))
	}
	out := make([]complex128, l.totalDataSyms)
	payloadIdx := 0
	for i := 0; i < l.totalDataSyms; i++ {
		switch {
		case l.uwSymSet[i]:
		case i >= l.txtSymStart:
			bitOff := (i - l.txtSymStart) * l.r.Cfg.Bps
			out[i] = symbolmap.Map(l.r.Cfg.Bps, txtBits[bitOff:bitOff+l.r.Cfg.Bps])
		default:
			out[i] = payload[payloadIdx]
			payloadIdx++
		}
	}
	uwSyms := l.MapUW()
	for i, s := range l.uwSymsOrdered {
		out[s] = uwSyms[i]
	}
	return out, nil
}

// MapUW Gray-maps the mode's fixed tx_uw bits into constellation symbols,
// one per UW symbol slot.
func (l *Layout) MapUW() []complex128 {
	n := len(l.r.Derived.UWIndSym)
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		bitOff := i * l.r.Cfg.Bps
		out[i] = symbolmap.Map(l.r.Cfg.Bps, l.r.Cfg.TxUW[bitOff:bitOff+l.r.Cfg.Bps])
	}
	return out
}

// DisassembleSymbols mirrors AssembleSymbols, returning recovered payload
// symbols and hard-demapped text bits from a flat received data-symbol
// stream (as returned by frame.Lattice.ExtractData).
func (l *Layout) DisassembleSymbols(symbols []complex128) (payload []complex128, txt []byte, err error) {
	if len(symbols) != l.totalDataSyms {
		return nil, nil, fmt.Errorf("packet: DisassembleSymbols wants %d symbols, got %d", l.totalDataSyms, len(symbols))
	}
	payload = make([]complex128, 0, l.totalDataSyms-len(l.uwSymSet)-l.r.Cfg.Ntxt/l.r.Cfg.Bps)
	txt = make([]byte, l.r.Cfg.Ntxt)
	for i := 0; i < l.totalDataSyms; i++ {
		switch {
		case l.uwSymSet[i]:
		case i >= l.txtSymStart:
			bits := symbolmap.Demap(l.r.Cfg.Bps, symbols[i])
			copy(txt[(i-l.txtSymStart)*l.r.Cfg.Bps:], bits)
		default:
			payload = append(payload, symbols[i])
		}
	}
	return payload, txt, nil
}

// ExtractUWErrors demaps the flat received symbols at the configured UW
// positions and counts bit mismatches against tx_uw, feeding the sync
// state machine.
func (l *Layout) ExtractUWErrors(symbols []complex128) (errors int, err error) {
	if len(symbols) != l.totalDataSyms {
		return 0, fmt.Errorf("packet: ExtractUWErrors wants %d symbols, got %d", l.totalDataSyms, len(symbols))
	}
	for i, s := range l.uwSymsOrdered {
		bits := symbolmap.Demap(l.r.Cfg.Bps, symbols[s])
		bitOff := i * l.r.Cfg.Bps
		for b := 0; b < l.r.Cfg.Bps; b++ {
			if bits[b] != l.r.Cfg.TxUW[bitOff+b] {
				errors++
			}
		}
	}
	return errors, nil
}
