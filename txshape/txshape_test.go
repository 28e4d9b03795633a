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

package txshape_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/modetable"
	"github.com/freedv/ofdmcore/txshape"
)

func TestHilbertClipperIsIdempotent(t *testing.T) {
	samples := []complex128{complex(40000, 10000), complex(100, 200), complex(-50000, 0), complex(16384, 0)}
	for _, s := range samples {
		once := txshape.Clip(s, txshape.Peak)
		twice := txshape.Clip(once, txshape.Peak)
		require.InDelta(t, real(once), real(twice), 1e-9)
		require.InDelta(t, imag(once), imag(twice), 1e-9)
	}
}

func TestShapedPeakWithinBound(t *testing.T) {
	r, err := modetable.Get("700D")
	require.NoError(t, err)
	c := txshape.New(r)

	samples := make([]complex128, 64)
	for i := range samples {
		samples[i] = complex(1, 0)
	}
	out := c.Apply(samples)
	for _, s := range out {
		mag := real(s)*real(s) + imag(s)*imag(s)
		require.LessOrEqual(t, mag, (txshape.Peak+1)*(txshape.Peak+1))
	}
}
