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

package modetable

import (
	"fmt"
)

// computeUWIndices scatters the unique-word bits across fixed symbol
// positions so they spread through the packet rather than clump at the
// front. It mirrors the reference placement algorithm: try a
// stride of Nc+1 symbols between UW symbols, and fall back to Nc-1 if
// that overruns the packet's data-symbol budget.
func computeUWIndices(cfg ModeConfig, bitsPerFrame, samplesPerFrame int) (indBits []int, indSym []int, nuwFrames int, err error) {
	if cfg.Bps <= 0 {
		return nil, nil, 0, fmt.Errorf("modetable: bps must be positive for mode %q", cfg.Name)
	}
	nuwsyms := cfg.Nuw / cfg.Bps
	if nuwsyms == 0 {
		return nil, nil, 0, nil
	}
	dataSymsPerFrame := (cfg.Ns - 1) * cfg.Nc
	totalDataSyms := cfg.Np * dataSymsPerFrame

	step := cfg.Nc + 1
	lastSym := (nuwsyms * step) / cfg.Bps
	if lastSym >= totalDataSyms {
		step = cfg.Nc - 1
	}
	lastSym = (nuwsyms * step) / cfg.Bps
	if lastSym >= totalDataSyms {
		return nil, nil, 0, fmt.Errorf("modetable: UW symbols do not fit in packet for mode %q (last=%d total=%d)", cfg.Name, lastSym, totalDataSyms)
	}

	indSym = make([]int, nuwsyms)
	indBits = make([]int, 0, nuwsyms*cfg.Bps)
	for i := 0; i < nuwsyms; i++ {
		val := ((i + 1) * step) / cfg.Bps
		indSym[i] = val
		for b := 0; b < cfg.Bps; b++ {
			indBits = append(indBits, val*cfg.Bps+b)
		}
	}

	for i := 1; i < len(indSym); i++ {
		if indSym[i] <= indSym[i-1] {
			return nil, nil, 0, fmt.Errorf("modetable: UW symbol indices not strictly increasing for mode %q", cfg.Name)
		}
	}

	symsPerFrame := bitsPerFrame / cfg.Bps
	last := indSym[len(indSym)-1]
	nuwFrames = (last + symsPerFrame - 1) / symsPerFrame
	if nuwFrames < 1 {
		nuwFrames = 1
	}

	return indBits, indSym, nuwFrames, nil
}
