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

package acquisition_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/acquisition"
	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/modetable"
)

func shiftFreq(samples []complex128, hz, fs float64) []complex128 {
	out := make([]complex128, len(samples))
	w := 2 * math.Pi * hz / fs
	for i, s := range samples {
		osc := complex(math.Cos(w*float64(i)), math.Sin(w*float64(i)))
		out[i] = s * osc
	}
	return out
}

func TestSearchStreamingFindsZeroOffsetOnCleanSignal(t *testing.T) {
	r, err := modetable.Get("700D")
	require.NoError(t, err)
	p := frame.NewPlant(r)
	pilotTD := acquisition.PilotWaveform(p)

	// Build a short receive window: two full modem frames of pilot-only
	// content (data rows zeroed), which is enough for the streaming
	// correlator's two-pilot search.
	samplesPerFrame := r.Derived.Nss * r.Cfg.Ns
	rx := make([]complex128, 2*samplesPerFrame+2*r.Derived.Nss)
	copy(rx[samplesPerFrame:], pilotTD)
	copy(rx[2*samplesPerFrame:], pilotTD)

	res := acquisition.SearchStreaming(r, pilotTD, rx)
	require.InDelta(t, 0, res.FoffHz, 5)
}
