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

// Package ptt keys a radio's push-to-talk line over a serial port's RTS
// signal, for freedv-modem's Tx side. This is ambient radio-control
// plumbing the modem core itself has no opinion on; the core only
// produces samples and the caller decides when to key the transmitter.
package ptt

import (
	"fmt"

	"go.bug.st/serial"
)

// Interface is what freedv-modem's Tx loop needs from a PTT controller,
// satisfied by both Keyer and NullKeyer.
type Interface interface {
	Key() error
	Unkey() error
	Close() error
}

// Keyer keys and unkeys a radio's PTT line via a serial port's RTS pin.
type Keyer struct {
	device string
	port   serial.Port
}

// Open opens the named serial device for PTT control.
func Open(device string, baud int) (*Keyer, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("ptt: opening %s: %w", device, err)
	}
	return &Keyer{device: device, port: port}, nil
}

// Close releases the serial port, leaving the line unkeyed.
func (k *Keyer) Close() error {
	if err := k.port.SetRTS(false); err != nil {
		k.port.Close()
		return fmt.Errorf("ptt: unkeying %s on close: %w", k.device, err)
	}
	return k.port.Close()
}

// Key asserts RTS, keying the transmitter.
func (k *Keyer) Key() error {
	if err := k.port.SetRTS(true); err != nil {
		return fmt.Errorf("ptt: keying %s: %w", k.device, err)
	}
	return nil
}

// Unkey deasserts RTS, returning the radio to receive.
func (k *Keyer) Unkey() error {
	if err := k.port.SetRTS(false); err != nil {
		return fmt.Errorf("ptt: unkeying %s: %w", k.device, err)
	}
	return nil
}

// NullKeyer is a no-op Keyer for VOX or software-loopback operation
// where no serial PTT line is wired.
type NullKeyer struct{}

// Key is a no-op.
func (NullKeyer) Key() error { return nil }

// Unkey is a no-op.
func (NullKeyer) Unkey() error { return nil }

// Close is a no-op.
func (NullKeyer) Close() error { return nil }
