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

// Package hoststats reports the host process's own resource usage, for
// freedv-diag's "is this machine keeping up with real time" check. A
// modem instance that cannot demodulate a packet's worth of samples
// faster than the packet's own duration will fall behind the radio.
package hoststats

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Snapshot is one point-in-time read of the running process's load.
type Snapshot struct {
	CPUPercent float64
	RSSBytes   uint64
	NumThreads int32
}

// Collect samples the current process over the given interval. The
// interval blocks (gopsutil's CPU percent needs a window to sample
// over), so callers on a tight loop should keep it short.
func Collect(interval time.Duration) (Snapshot, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Snapshot{}, fmt.Errorf("hoststats: opening self process: %w", err)
	}
	cpu, err := p.Percent(interval)
	if err != nil {
		return Snapshot{}, fmt.Errorf("hoststats: reading cpu percent: %w", err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return Snapshot{}, fmt.Errorf("hoststats: reading memory info: %w", err)
	}
	threads, err := p.NumThreads()
	if err != nil {
		return Snapshot{}, fmt.Errorf("hoststats: reading thread count: %w", err)
	}
	return Snapshot{CPUPercent: cpu, RSSBytes: mem.RSS, NumThreads: threads}, nil
}

// RealTimeMargin reports how much headroom a packet's processing time
// leaves before the next packet's samples would arrive, as a ratio
// (>1 means comfortably real-time, <1 means falling behind). It returns
// 0 when processingTime is not positive.
func RealTimeMargin(packetDuration, processingTime time.Duration) float64 {
	if processingTime <= 0 {
		return 0
	}
	return float64(packetDuration) / float64(processingTime)
}
