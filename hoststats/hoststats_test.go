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

package hoststats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/hoststats"
)

func TestRealTimeMarginComfortableWhenFast(t *testing.T) {
	margin := hoststats.RealTimeMargin(100*time.Millisecond, 10*time.Millisecond)
	require.Greater(t, margin, 1.0)
}

func TestRealTimeMarginZeroWhenProcessingTimeIsZero(t *testing.T) {
	require.Equal(t, 0.0, hoststats.RealTimeMargin(100*time.Millisecond, 0))
}

func TestCollectReturnsSnapshot(t *testing.T) {
	snap, err := hoststats.Collect(10 * time.Millisecond)
	require.NoError(t, err)
	require.GreaterOrEqual(t, snap.NumThreads, int32(1))
}
