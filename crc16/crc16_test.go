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

package crc16_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/crc16"
)

func TestComputeKnownVector(t *testing.T) {
	var c crc16.Codec
	// CCITT CRC16 (poly 0x1021, init 0xFFFF) of "123456789" is 0x29B1,
	// the standard check value for this polynomial/init pair.
	require.Equal(t, uint16(0x29B1), c.Compute([]byte("123456789")))
}

func TestAppendThenValidateRoundTrips(t *testing.T) {
	var c crc16.Codec
	data := []byte{0x01, 0x02, 0x03, 0xAB, 0xCD}
	withCRC := c.Append(data)
	require.Len(t, withCRC, len(data)+2)
	require.True(t, c.Validate(withCRC))
}

func TestValidateRejectsCorruptedData(t *testing.T) {
	var c crc16.Codec
	withCRC := c.Append([]byte{0x01, 0x02, 0x03})
	withCRC[0] ^= 0xFF
	require.False(t, c.Validate(withCRC))
}

func TestValidateRejectsShortInput(t *testing.T) {
	var c crc16.Codec
	require.False(t, c.Validate([]byte{0x01}))
}

func TestComputeEmptyInputIsInitValue(t *testing.T) {
	var c crc16.Codec
	require.Equal(t, uint16(0xFFFF), c.Compute(nil))
}

func TestPackBitsUnpackBitsRoundTrip(t *testing.T) {
	bits := []byte{0, 1, 1, 0, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0}
	packed := crc16.PackBits(bits)
	require.Equal(t, []byte{0x69, 0xF0}, packed)
	require.Equal(t, bits, crc16.UnpackBits(packed, len(bits)))
}

func TestPackBitsThenCRCValidatesAfterUnpack(t *testing.T) {
	var c crc16.Codec
	bits := make([]byte, 32)
	for i := range bits {
		bits[i] = byte(i % 2)
	}
	packed := crc16.PackBits(bits)
	withCRC := c.Append(packed)
	unpacked := crc16.UnpackBits(withCRC, len(bits)+16)
	require.True(t, c.Validate(crc16.PackBits(unpacked)))
}
