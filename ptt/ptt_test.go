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

package ptt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/ptt"
)

func TestNullKeyerSatisfiesInterface(t *testing.T) {
	var k ptt.Interface = ptt.NullKeyer{}
	require.NoError(t, k.Key())
	require.NoError(t, k.Unkey())
	require.NoError(t, k.Close())
}

func TestOpenRejectsNonexistentDevice(t *testing.T) {
	_, err := ptt.Open("/dev/nonexistent-ofdmcore-ptt", 9600)
	require.Error(t, err)
}
