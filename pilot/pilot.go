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

// Package pilot holds the fixed BPSK pilot sequence shared by every OFDM
// mode and the helpers that slice a mode's carrier-count worth of it into
// a frequency-domain symbol row.
package pilot

// Values is the 64-entry signed BPSK pilot pattern. Every mode draws its
// Nc+2 pilot values from a prefix of this table; it is never regenerated
// or parameterized per mode.
var Values = [64]int8{
	-1, -1, 1, 1, -1, -1, -1, 1,
	-1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, -1, -1, 1, -1, 1,
	-1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, 1, 1,
	1, -1, -1, -1, -1, -1, -1, 1,
	-1, 1, -1, 1, -1, -1, 1, -1,
	1, 1, 1, 1, -1, 1, -1, 1,
}

// Row returns the pilot symbol row for a config with nc data carriers plus
// two edge columns. When edgePilots is false the two edge columns (index 0
// and nc+1) are forced to silence (0) instead of carrying a BPSK pilot.
func Row(nc int, edgePilots bool) []complex128 {
	n := nc + 2
	if n > len(Values) {
		panic("pilot: nc+2 exceeds pilot table length")
	}
	row := make([]complex128, n)
	for i := 0; i < n; i++ {
		row[i] = complex(float64(Values[i]), 0)
	}
	if !edgePilots {
		row[0] = 0
		row[n-1] = 0
	}
	return row
}

// Energy returns sum |pilot[i]|^2 over the first n entries of Values,
// used by the acquisition correlator's normalization term.
func Energy(n int) float64 {
	var e float64
	for i := 0; i < n; i++ {
		v := float64(Values[i])
		e += v * v
	}
	return e
}
