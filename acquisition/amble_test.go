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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/acquisition"
	"github.com/freedv/ofdmcore/frame"
	"github.com/freedv/ofdmcore/modetable"
)

func TestBuildAmbleIsDeterministicPerSeed(t *testing.T) {
	r, err := modetable.Get("700D")
	require.NoError(t, err)
	p := frame.NewPlant(r)

	a := acquisition.BuildAmble(r, p, acquisition.PreambleSeed)
	b := acquisition.BuildAmble(r, p, acquisition.PreambleSeed)
	require.Equal(t, a, b)

	post := acquisition.BuildAmble(r, p, acquisition.PostambleSeed)
	require.NotEqual(t, a, post)
}

func TestSearchBurstFindsPreambleInCleanSignal(t *testing.T) {
	r, err := modetable.Get("700D")
	require.NoError(t, err)
	p := frame.NewPlant(r)

	preambleTD := acquisition.BuildAmble(r, p, acquisition.PreambleSeed)
	postambleTD := acquisition.BuildAmble(r, p, acquisition.PostambleSeed)

	samplesPerFrame := r.Derived.Nss * r.Cfg.Ns
	rx := make([]complex128, len(preambleTD)+2*samplesPerFrame)
	copy(rx[samplesPerFrame:], preambleTD)

	res := acquisition.SearchBurst(r, preambleTD, postambleTD, rx)
	require.True(t, res.PreambleWon)
	require.True(t, res.TimingValid)
}
