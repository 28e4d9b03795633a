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

// Package core wires the frame plant, packet assembler, sync state
// machine, frequency tracker, and SNR estimator into one OfdmCore: a
// common struct carrying only mode-agnostic state (IDFT plan, pilot
// table; the receive ring buffer is left to the caller) wrapping a
// mode-selected sum of behaviour (voice1,
// voice2, data-streaming, data-burst).
package core

import (
	"fmt"
	"sync"

	"github.com/freedv/ofdmcore/acquisition"
	"github.com/freedv/ofdmcore/collab"
	"github.com/freedv/ofdmcore/crc16"
	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/freqtrack"
	"github.com/freedv/ofdmcore/interleave"
	"github.com/freedv/ofdmcore/ldpc"
	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/packet"
	"github.com/freedv/ofdmcore/phaseest"
	"github.com/freedv/ofdmcore/snrest"
	"github.com/freedv/ofdmcore/symbolmap"
	"github.com/freedv/ofdmcore/syncfsm"
	"github.com/freedv/ofdmcore/txshape"
)

// pilotWaveformCache memoizes the time-domain pilot waveform per resolved
// mode fingerprint, so a process constructing many OfdmCore instances of
// the same mode (freedv-batch, one core per input file) pays the IDFT
// cost once rather than once per instance.
var pilotWaveformCache sync.Map // map[uint64][]complex128

func cachedPilotWaveform(r *modetable.Resolved, plant *frame.Plant) []complex128 {
	key := r.Fingerprint()
	if v, ok := pilotWaveformCache.Load(key); ok {
		return v.([]complex128)
	}
	w := acquisition.PilotWaveform(plant)
	actual, _ := pilotWaveformCache.LoadOrStore(key, w)
	return actual.([]complex128)
}

// DemodResult is one packet's worth of receive-side output.
type DemodResult struct {
	Payload     []byte
	CRCValid    bool
	Text        []byte
	UWErrors    int
	State       syncfsm.State
	TimingValid bool
	FoffHz      float64
	SNR         snrest.Estimate
}

// OfdmCore is one modem instance, bound to a single resolved mode at
// construct time. It is created from a mode string or an already
// resolved config, and mutated only through ModulatePacket,
// DemodulatePacket, the sync state machine, and the explicit setters
// below.
type OfdmCore struct {
	resolved *modetable.Resolved
	plant    *frame.Plant
	layout   *packet.Layout
	shaper   *txshape.Chain
	sync     *syncfsm.Machine
	tracker  *freqtrack.Tracker
	phase    *phaseest.Tracker

	pilotTD []complex128

	timingEnable   bool
	foffEstEnable  bool
	phaseEstEnable bool
	verboseLevel   int
	snrSmoother    snrest.Smoother
	smoothSNR      bool // voice modes smooth; data modes report raw

	// FEC/CRC/interleave plan, fixed at construct time by each mode's
	// payload capacity against its catalog code (see planFEC).
	fecCodec          collab.LdpcCodec
	fecBlocks         int
	fecInterleaver    collab.Interleaver
	unequalProtection bool
	crcEnabled        bool
	crc               crc16.Codec
	dataBits          int // raw caller-supplied data bits per packet

	burstMode       bool
	packetsPerBurst int
}

// New constructs a modem for the named mode; an unsupported mode name
// is fatal at construct time.
func New(modeName string) (*OfdmCore, error) {
	r, err := modetable.Get(modeName)
	if err != nil {
		return nil, err
	}
	return NewFromResolved(r)
}

// NewFromResolved builds a modem from an already-resolved mode, letting
// callers tweak ModeConfig (e.g. DPSKEnabled) before constructing.
func NewFromResolved(r *modetable.Resolved) (*OfdmCore, error) {
	plant := frame.NewPlant(r)
	variant := syncfsm.VariantFor(r.Cfg)
	packetsPerBurst := 0
	if r.Cfg.DataMode == modetable.ModeBurst {
		packetsPerBurst = 1
	}

	layout := packet.NewLayout(r)

	fecCodec, fecBlocks, unequal, dataBits, err := planFEC(r.Cfg, layout.PayloadBits())
	if err != nil {
		return nil, err
	}
	crcEnabled := !unequal && fecCodec != nil && r.Cfg.StateMachine == modetable.Data
	if crcEnabled {
		dataBits -= 16
	}

	var fecInterleaver collab.Interleaver
	if fecCodec != nil {
		fecInterleaver = interleave.New(fecCodec.N() / r.Cfg.Bps)
	}

	c := &OfdmCore{
		resolved:          r,
		plant:             plant,
		layout:            layout,
		shaper:            txshape.New(r),
		sync:              syncfsm.New(variant, r.Cfg.BadUWErrors, r.Derived.NuwFrames, packetsPerBurst),
		tracker:           freqtrack.New(r.Cfg.FoffLimiter),
		phase:             phaseest.New(),
		pilotTD:           cachedPilotWaveform(r, plant),
		timingEnable:      true,
		foffEstEnable:     true,
		phaseEstEnable:    true,
		smoothSNR:         r.Cfg.StateMachine != modetable.Data,
		fecCodec:          fecCodec,
		fecBlocks:         fecBlocks,
		fecInterleaver:    fecInterleaver,
		unequalProtection: unequal,
		crcEnabled:        crcEnabled,
		dataBits:          dataBits,
		packetsPerBurst:   packetsPerBurst,
		burstMode:         r.Cfg.DataMode == modetable.ModeBurst,
	}
	return c, nil
}

// planFEC decides a mode's FEC strategy from its catalog code against
// its raw payload capacity (in bits): the five modes whose payload
// exactly fits a whole number of catalog codewords run ordinary
// block-coded LDPC; mode 2020 (HRAb_396_504 needs more coded bits than
// the mode's 420-bit payload carries) falls back to an unprotected
// passthrough; mode 2020B is handled by the caller-known unequal
// protection path (see ldpc.EncodeUnequalGroup) regardless of what its
// catalog FECCode names, since that code applies only to the
// sub-codeword ldpc.UnequalProtectionBits selects per codec frame.
func planFEC(cfg modetable.ModeConfig, capacityBits int) (codec collab.LdpcCodec, blocks int, unequal bool, dataBits int, err error) {
	if cfg.Name == "2020B" {
		return nil, 0, true, ldpc.RawGroupBits, nil
	}
	p, err := ldpc.Lookup(cfg.FECCode)
	if err != nil {
		return nil, 0, false, 0, err
	}
	if p.N > capacityBits {
		return nil, 0, false, capacityBits, nil
	}
	rc, err := ldpc.NewRepetitionCodec(cfg.FECCode)
	if err != nil {
		return nil, 0, false, 0, err
	}
	blocks = capacityBits / p.N
	return rc, blocks, false, rc.K() * blocks, nil
}

// Resolved exposes the mode this core was constructed from.
func (c *OfdmCore) Resolved() *modetable.Resolved { return c.resolved }

// PayloadBits is the number of caller-supplied raw data bits one packet
// carries: bitsperpacket minus UW and text fields, minus whatever FEC
// parity/unequal-protection overhead and CRC16 this mode's plan
// consumes.
func (c *OfdmCore) PayloadBits() int { return c.dataBits }

// ModulatePacket runs the full Tx pipeline: CRC16 append (data modes
// only), LDPC encode (block-coded or unequal-protection, per mode),
// bit-to-symbol mapping, per-block golden-prime interleaving, then
// symbol-level packet assembly, the frame plant's IDFT+CP, and Tx
// shaping applied over the entire packet.
func (c *OfdmCore) ModulatePacket(dataBits []byte, txt []byte) ([]complex128, error) {
	if len(dataBits) != c.dataBits {
		return nil, fmt.Errorf("core: ModulatePacket wants %d data bits, got %d", c.dataBits, len(dataBits))
	}
	payloadSyms, err := c.encodePayload(dataBits)
	if err != nil {
		return nil, err
	}
	symbols, err := c.layout.AssembleSymbols(payloadSyms, txt)
	if err != nil {
		return nil, err
	}
	samples, err := c.plant.ModulatePacket(symbols)
	if err != nil {
		return nil, err
	}
	return c.shaper.Apply(samples), nil
}

// encodePayload turns raw caller data bits into the packet's payload
// symbol stream, per this mode's FEC plan.
func (c *OfdmCore) encodePayload(dataBits []byte) ([]complex128, error) {
	bits := dataBits
	if c.crcEnabled {
		packed := crc16.PackBits(dataBits)
		withCRC := c.crc.Append(packed)
		bits = crc16.UnpackBits(withCRC, len(dataBits)+16)
	}

	bps := c.resolved.Cfg.Bps
	want := c.layout.PayloadBits() / bps

	var out []complex128
	switch {
	case c.unequalProtection:
		coded, err := ldpc.EncodeUnequalGroup(bits)
		if err != nil {
			return nil, err
		}
		out = bitsToSymbols(coded, bps)
	case c.fecCodec == nil:
		out = bitsToSymbols(bits, bps)
	default:
		k, n := c.fecCodec.K(), c.fecCodec.N()
		out = make([]complex128, 0, want)
		for b := 0; b < c.fecBlocks; b++ {
			block := bits[b*k : (b+1)*k]
			parity, err := c.fecCodec.Encode(block)
			if err != nil {
				return nil, err
			}
			codeword := make([]byte, 0, n)
			codeword = append(codeword, block...)
			codeword = append(codeword, parity...)
			out = append(out, c.fecInterleaver.Interleave(bitsToSymbols(codeword, bps))...)
		}
	}
	return padSymbols(out, want), nil
}

// decodePayload is encodePayload's inverse, soft-demapping each received
// payload symbol against amp (the pilot amplitude estimate) before LDPC
// decode. crcOK is always true for modes that never carry a CRC16.
func (c *OfdmCore) decodePayload(symbols []complex128, amp float64) (bits []byte, crcOK bool, err error) {
	bps := c.resolved.Cfg.Bps

	switch {
	case c.unequalProtection:
		need := ldpc.TransmitGroupBits / bps
		llr := symbolsToLLR(symbols[:need], bps, amp)
		out, err := ldpc.DecodeUnequalGroup(llr)
		return out, true, err
	case c.fecCodec == nil:
		need := c.dataBits / bps
		return symbolsToBits(symbols[:need], bps), true, nil
	default:
		k, n := c.fecCodec.K(), c.fecCodec.N()
		symsPerBlock := n / bps
		out := make([]byte, 0, k*c.fecBlocks)
		for b := 0; b < c.fecBlocks; b++ {
			blockSyms := symbols[b*symsPerBlock : (b+1)*symsPerBlock]
			deint := c.fecInterleaver.Deinterleave(blockSyms)
			llr := symbolsToLLR(deint, bps, amp)
			decoded, _, _, err := c.fecCodec.Decode(llr)
			if err != nil {
				return nil, false, err
			}
			out = append(out, decoded...)
		}
		crcOK = true
		if c.crcEnabled {
			packed := crc16.PackBits(out)
			crcOK = c.crc.Validate(packed)
			out = out[:len(out)-16]
		}
		return out, crcOK, nil
	}
}

func bitsToSymbols(bits []byte, bps int) []complex128 {
	out := make([]complex128, len(bits)/bps)
	for i := range out {
		out[i] = symbolmap.Map(bps, bits[i*bps:(i+1)*bps])
	}
	return out
}

func symbolsToBits(symbols []complex128, bps int) []byte {
	out := make([]byte, 0, len(symbols)*bps)
	for _, s := range symbols {
		out = append(out, symbolmap.Demap(bps, s)...)
	}
	return out
}

func symbolsToLLR(symbols []complex128, bps int, amp float64) []float64 {
	out := make([]float64, 0, len(symbols)*bps)
	for _, s := range symbols {
		out = append(out, symbolmap.SoftDemap(bps, s, amp)...)
	}
	return out
}

// padSymbols zero-fills syms out to want entries (never truncates below
// what a mode's FEC plan produced); modes with spare payload capacity
// beyond their coded bits (e.g. 2020B) transmit the remainder as fixed
// filler symbols.
func padSymbols(syms []complex128, want int) []complex128 {
	if len(syms) >= want {
		return syms
	}
	out := make([]complex128, want)
	copy(out, syms)
	return out
}

// DemodulatePacket demodulates one already-timing-aligned packet-length
// window: DFT+CP-strip, pilot phase/amplitude estimation and
// de-rotation, frequency tracking, UW error counting (feeding the sync
// state machine), payload/text disassembly, LDPC decode and CRC16
// validation, and SNR estimation. Acquisition (package acquisition) and
// ring-buffer management are the caller's responsibility, matching the
// modem's single-threaded, caller-paced resource model.
func (c *OfdmCore) DemodulatePacket(samples []complex128, timingValid bool) (*DemodResult, error) {
	lattice, err := c.plant.DemodulatePacket(samples)
	if err != nil {
		return nil, err
	}

	amp := 1.0
	if c.phaseEstEnable && !c.resolved.Cfg.DPSKEnabled {
		amp = c.phase.EstimateAndDerotate(lattice, c.resolved.Cfg.EdgePilots, c.sync.State() == syncfsm.Synced)
	}

	if c.foffEstEnable {
		thisPilot := lattice.Sym[0]
		nextPilot := thisPilot
		if c.resolved.Cfg.Np > 1 {
			nextPilot = lattice.Sym[c.resolved.Cfg.Ns]
		}
		c.TrackFrequency(thisPilot, nextPilot)
	}

	dataSymbols := lattice.ExtractData()

	uwErrors, err := c.layout.ExtractUWErrors(dataSymbols)
	if err != nil {
		return nil, err
	}

	state, _ := c.sync.Step(timingValid, uwErrors)

	payloadSyms, txt, err := c.layout.DisassembleSymbols(dataSymbols)
	if err != nil {
		return nil, err
	}

	est := snrest.FromPayload(c.resolved, payloadSyms)
	reportedSNR := est
	if c.smoothSNR {
		reportedSNR.SNRdB3kHz = c.snrSmoother.Update(est.SNRdB3kHz)
	}

	dataBits, crcOK, err := c.decodePayload(payloadSyms, amp)
	if err != nil {
		return nil, err
	}

	return &DemodResult{
		Payload:     dataBits,
		CRCValid:    crcOK,
		Text:        txt,
		UWErrors:    uwErrors,
		State:       state,
		TimingValid: timingValid,
		FoffHz:      c.tracker.FoffHz(),
		SNR:         reportedSNR,
	}, nil
}

// SetSync implements the set_sync(UN_SYNC|AUTO_SYNC|MANUAL_SYNC)
// configuration surface. Switching to UnSync immediately
// forces a return to search; the caller must wipe its ring buffer when
// this returns true.
func (c *OfdmCore) SetSync(mode syncfsm.Mode) (wipeRing bool) {
	return c.sync.SetMode(mode)
}

// SyncState returns the current sync state machine state.
func (c *OfdmCore) SyncState() syncfsm.State { return c.sync.State() }

// SetTimingEnable toggles whether acquisition timing search runs.
func (c *OfdmCore) SetTimingEnable(v bool) { c.timingEnable = v }

// SetFoffEstEnable toggles the frequency tracker.
func (c *OfdmCore) SetFoffEstEnable(v bool) { c.foffEstEnable = v }

// SetPhaseEstEnable toggles pilot-based phase estimation.
func (c *OfdmCore) SetPhaseEstEnable(v bool) { c.phaseEstEnable = v }

// SetOffEstHz seeds the frequency tracker's running estimate, used after
// acquisition hands off its coarse+fine estimate.
func (c *OfdmCore) SetOffEstHz(hz float64) { c.tracker.SetFoffHz(hz) }

// PilotWaveform exposes the precomputed time-domain pilot symbol used by
// the streaming acquisition search.
func (c *OfdmCore) PilotWaveform() []complex128 { return c.pilotTD }

// TrackFrequency feeds one frame's "this"/"next" pilot rows into the
// frequency tracker.
func (c *OfdmCore) TrackFrequency(thisPilot, nextPilot []complex128) float64 {
	if !c.foffEstEnable {
		return c.tracker.FoffHz()
	}
	frameDuration := float64(c.resolved.Cfg.Ns) * c.resolved.Cfg.Ts
	return c.tracker.Update(thisPilot, nextPilot, frameDuration)
}

// SetVerbose implements the set_verbose configuration surface: 0 is
// silent, higher levels are reserved for callers that want to log more
// about each packet's demodulation (UW errors, SNR, CRC validity).
func (c *OfdmCore) SetVerbose(level int) { c.verboseLevel = level }

// Verbose returns the current set_verbose level.
func (c *OfdmCore) Verbose() int { return c.verboseLevel }

// SetPhaseEstBandwidthMode implements
// set_phase_est_bandwidth_mode(AUTO|LOCKED): locked pins the pilot
// estimator to neighbor-carrier-averaged low-bandwidth mode
// permanently; unlocked (AUTO) lets it switch from high- to
// low-bandwidth once sync is achieved.
func (c *OfdmCore) SetPhaseEstBandwidthMode(locked bool) { c.phase.SetBandwidthMode(locked) }

// SetTxBPF implements set_tx_bpf, toggling the transmit band-pass
// filter stage at runtime.
func (c *OfdmCore) SetTxBPF(v bool) { c.shaper.SetBPFEnabled(v) }

// SetDPSK implements set_dpsk: it mutates the shared resolved mode
// config in place, which frame.Plant and packet.Layout both already
// read through the same *modetable.Resolved pointer, so no other
// component needs rebuilding.
func (c *OfdmCore) SetDPSK(v bool) { c.resolved.Cfg.DPSKEnabled = v }

// SetPacketsPerBurst implements set_packets_per_burst, which also
// selects burst mode: a positive count switches the sync state machine
// to its burst variant and bounds how many packets the caller should
// expect before the state machine returns to search on its own; zero
// restores streaming (unbounded) operation.
func (c *OfdmCore) SetPacketsPerBurst(n int) {
	c.packetsPerBurst = n
	c.burstMode = n > 0
	if c.burstMode {
		c.sync.SetVariant(syncfsm.DataBurst)
	} else {
		c.sync.SetVariant(syncfsm.VariantFor(c.resolved.Cfg))
	}
	c.sync.SetPacketsPerBurst(n)
}

// BurstMode reports whether set_packets_per_burst has put this core
// into burst acquisition mode.
func (c *OfdmCore) BurstMode() bool { return c.burstMode }

// PacketsPerBurst returns the configured burst length (0 = streaming).
func (c *OfdmCore) PacketsPerBurst() int { return c.packetsPerBurst }

func (c *OfdmCore) String() string {
	return fmt.Sprintf("OfdmCore(mode=%s, state=%s)", c.resolved.Cfg.Name, c.sync.State())
}
