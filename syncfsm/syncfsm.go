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

// Package syncfsm implements the four sync state machine variants that
// gate demodulation on a unique-word check.
package syncfsm

import "github.com/freedv/ofdmcore/modetable"

// State is one of the three states every variant shares.
type State int

const (
	Search State = iota
	Trial
	Synced
)

func (s State) String() string {
	switch s {
	case Search:
		return "search"
	case Trial:
		return "trial"
	case Synced:
		return "synced"
	default:
		return "unknown"
	}
}

// Mode is the caller-controlled sync policy.
type Mode int

const (
	AutoSync Mode = iota
	ManualSync
	UnSync
)

// Variant selects which of the four state machines Step implements.
type Variant int

const (
	Voice1 Variant = iota
	Voice2
	DataStreaming
	DataBurst
)

// VariantFor resolves a mode's (StateMachine, DataMode) pair into the
// concrete variant it drives.
func VariantFor(cfg modetable.ModeConfig) Variant {
	switch cfg.StateMachine {
	case modetable.Voice1:
		return Voice1
	case modetable.Voice2:
		return Voice2
	default:
		if cfg.DataMode == modetable.ModeBurst {
			return DataBurst
		}
		return DataStreaming
	}
}

// Machine tracks one instance's sync state across frames.
type Machine struct {
	variant        Variant
	state          State
	mode           Mode
	badUWErrors    int
	nuwFrames      int
	packetsPerBurst int // 0 = unlimited

	trialGoodRun int // voice1: consecutive good frames in trial
	trialBadSeen bool // voice1: has seen one bad frame in trial yet
	trialFrames  int // data: frames elapsed since entering trial
	badRun       int // synced: consecutive bad frames
	syncCounter  int // data-streaming: trial->search counter
	packetCount  int // frames-since-synced in packet units, for packetsperburst
}

// New builds a state machine for the given variant and thresholds.
func New(variant Variant, badUWErrors, nuwFrames, packetsPerBurst int) *Machine {
	return &Machine{
		variant:         variant,
		state:           Search,
		badUWErrors:     badUWErrors,
		nuwFrames:       nuwFrames,
		packetsPerBurst: packetsPerBurst,
	}
}

// State returns the machine's current state.
func (m *Machine) State() State { return m.state }

// SetVariant switches which of the four state machines Step implements,
// used when set_packets_per_burst toggles a data mode between streaming
// and burst acquisition at runtime.
func (m *Machine) SetVariant(v Variant) { m.variant = v }

// SetPacketsPerBurst implements the set_packets_per_burst configuration
// surface: how many packets the sync state machine expects per burst (0
// = unlimited/streaming).
func (m *Machine) SetPacketsPerBurst(n int) { m.packetsPerBurst = n }

// SetMode changes the sync policy. Switching to UnSync immediately
// forces a return to search.
func (m *Machine) SetMode(mode Mode) (wipeRing bool) {
	m.mode = mode
	if mode == UnSync {
		m.reset()
		return true
	}
	return false
}

func (m *Machine) reset() {
	m.state = Search
	m.trialGoodRun = 0
	m.trialBadSeen = false
	m.trialFrames = 0
	m.badRun = 0
	m.syncCounter = 0
	m.packetCount = 0
}

// voice1Threshold is the fixed per-frame tolerance voice1 checks trial
// transitions against, independent of the mode's configured
// bad_uw_errors: uw_errors<=2 stays in trial, uw_errors>2 drops back
// to search.
const voice1Threshold = 2

// Step advances the machine by one frame. timingValid is the
// acquisition result for this frame; uwErrors is the UW mismatch count
// extracted from it. It returns the resulting state and whether the
// caller must wipe its receive ring buffer.
func (m *Machine) Step(timingValid bool, uwErrors int) (State, bool) {
	if m.mode == UnSync {
		return m.state, false
	}
	if !timingValid {
		if m.state != Search {
			m.reset()
			return m.state, true
		}
		return m.state, false
	}

	switch m.state {
	case Search:
		m.state = Trial
		m.trialGoodRun = 0
		m.trialBadSeen = false
		m.trialFrames = 0
		m.syncCounter = 0
		return m.trialStep(uwErrors)
	case Trial:
		return m.trialStep(uwErrors)
	case Synced:
		return m.syncedStep(uwErrors)
	}
	return m.state, false
}

func (m *Machine) trialStep(uwErrors int) (State, bool) {
	m.trialFrames++
	switch m.variant {
	case Voice1:
		if uwErrors > voice1Threshold {
			if m.trialBadSeen {
				m.reset()
				return m.state, true
			}
			m.trialBadSeen = true
			m.trialGoodRun = 0
			return m.state, false
		}
		m.trialGoodRun++
		if m.trialGoodRun >= 3 {
			m.state = Synced
			m.badRun = 0
			m.packetCount = 0
		}
		return m.state, false
	case Voice2:
		if uwErrors <= m.badUWErrors {
			m.state = Synced
			m.badRun = 0
			m.packetCount = 0
		} else {
			m.reset()
			return m.state, true
		}
		return m.state, false
	case DataStreaming:
		if uwErrors >= m.badUWErrors {
			m.syncCounter++
		}
		if m.syncCounter > m.packetCountLimit() {
			m.reset()
			return m.state, true
		}
		if m.trialFrames >= m.nuwFrames {
			if uwErrors < m.badUWErrors {
				m.state = Synced
				m.packetCount = 0
			} else {
				m.reset()
				return m.state, true
			}
		}
		return m.state, false
	case DataBurst:
		if m.trialFrames >= m.nuwFrames {
			if uwErrors < m.badUWErrors {
				m.state = Synced
				m.packetCount = 0
			} else {
				m.reset()
				return m.state, true
			}
		}
		return m.state, false
	}
	return m.state, false
}

// packetCountLimit is the trial->search ceiling for data-streaming's
// syncCounter: once syncCounter exceeds it without a clean UW match,
// the machine drops back to search.
func (m *Machine) packetCountLimit() int {
	if m.nuwFrames > 0 {
		return m.nuwFrames
	}
	return 1
}

func (m *Machine) syncedStep(uwErrors int) (State, bool) {
	m.packetCount++
	switch m.variant {
	case Voice1, Voice2:
		if uwErrors > m.badUWErrors {
			m.badRun++
		} else {
			m.badRun = 0
		}
		if m.mode != ManualSync && m.badRun >= 6 {
			m.reset()
			return m.state, true
		}
		return m.state, false
	case DataStreaming:
		if m.packetsPerBurst > 0 && m.mode != ManualSync && m.packetCount >= m.packetsPerBurst {
			m.reset()
			return m.state, true
		}
		return m.state, false
	case DataBurst:
		if m.packetsPerBurst > 0 && m.mode != ManualSync && m.packetCount >= m.packetsPerBurst {
			m.reset()
			return m.state, true
		}
		if uwErrors >= m.badUWErrors {
			m.reset()
			return m.state, true
		}
		return m.state, false
	}
	return m.state, false
}
