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

package syncfsm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/syncfsm"
)

func TestVoice1ReachesSyncedAfterThreeGoodFrames(t *testing.T) {
	m := syncfsm.New(syncfsm.Voice1, 3, 4, 0)
	m.Step(true, 0)
	require.Equal(t, syncfsm.Trial, m.State())
	m.Step(true, 0)
	require.Equal(t, syncfsm.Trial, m.State())
	state, _ := m.Step(true, 0)
	require.Equal(t, syncfsm.Synced, state)
}

func TestVoice1ToleratesOneBadFrameInTrial(t *testing.T) {
	m := syncfsm.New(syncfsm.Voice1, 3, 4, 0)
	m.Step(true, 0)
	m.Step(true, 5) // one bad frame tolerated
	require.Equal(t, syncfsm.Trial, m.State())
}

func TestVoice1DropsOnSecondBadFrame(t *testing.T) {
	m := syncfsm.New(syncfsm.Voice1, 3, 4, 0)
	m.Step(true, 0)
	m.Step(true, 5)
	state, wipe := m.Step(true, 5)
	require.Equal(t, syncfsm.Search, state)
	require.True(t, wipe)
}

func TestVoice1SyncedDropsAfterSixBadFrames(t *testing.T) {
	m := syncfsm.New(syncfsm.Voice1, 3, 4, 0)
	m.Step(true, 0)
	m.Step(true, 0)
	m.Step(true, 0) // now synced
	require.Equal(t, syncfsm.Synced, m.State())
	var state syncfsm.State
	for i := 0; i < 6; i++ {
		state, _ = m.Step(true, 10)
	}
	require.Equal(t, syncfsm.Search, state)
}

func TestDataStreamingSyncsAfterNuwFrames(t *testing.T) {
	m := syncfsm.New(syncfsm.DataStreaming, 6, 3, 0)
	m.Step(true, 0)
	m.Step(true, 0)
	state, _ := m.Step(true, 0)
	require.Equal(t, syncfsm.Synced, state)
}

func TestUnSyncForcesImmediateSearch(t *testing.T) {
	m := syncfsm.New(syncfsm.Voice2, 3, 4, 0)
	m.Step(true, 0)
	require.Equal(t, syncfsm.Synced, m.State())
	wipe := m.SetMode(syncfsm.UnSync)
	require.True(t, wipe)
	require.Equal(t, syncfsm.Search, m.State())
}
