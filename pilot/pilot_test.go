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

package pilot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/pilot"
)

func TestRowWithEdgePilotsMatchesTablePrefix(t *testing.T) {
	row := pilot.Row(16, true)
	require.Len(t, row, 18)
	for i, v := range row {
		require.Equal(t, complex(float64(pilot.Values[i]), 0), v)
	}
}

func TestRowWithoutEdgePilotsSilencesEdges(t *testing.T) {
	row := pilot.Row(16, false)
	require.Equal(t, complex(0.0, 0.0), row[0])
	require.Equal(t, complex(0.0, 0.0), row[len(row)-1])
	require.Equal(t, complex(float64(pilot.Values[1]), 0), row[1])
}

func TestRowPanicsWhenTooWide(t *testing.T) {
	require.Panics(t, func() { pilot.Row(len(pilot.Values), true) })
}

func TestEnergySumsSquaredValues(t *testing.T) {
	require.Equal(t, float64(16), pilot.Energy(16))
	require.Equal(t, float64(len(pilot.Values)), pilot.Energy(len(pilot.Values)))
}
