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

// Package metrics exposes a running modem's sync state, SNR, and
// frequency offset as Prometheus gauges, for long-running daemon use
// (freedv-modem).
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the gauges one modem instance reports.
type Recorder struct {
	registry    *prometheus.Registry
	syncState   prometheus.Gauge
	snrDB       prometheus.Gauge
	foffHz      prometheus.Gauge
	uwErrors    prometheus.Gauge
	packetCount prometheus.Counter
	crcFailures prometheus.Counter
}

// NewRecorder builds a Recorder for a modem instance identified by mode
// name, registered against its own fresh registry so multiple instances
// in one process don't collide.
func NewRecorder(mode string) *Recorder {
	return NewRecorderForRegistry(mode, prometheus.NewRegistry())
}

// NewRecorderForRegistry is NewRecorder against a caller-supplied
// registry, letting tests inspect the exposed gauges directly instead
// of scraping the registry ListenAndServe would otherwise own.
func NewRecorderForRegistry(mode string, reg *prometheus.Registry) *Recorder {
	labels := prometheus.Labels{"mode": mode}
	r := &Recorder{
		registry: reg,
		syncState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ofdmcore_sync_state",
			Help:        "Current sync state: 0=search, 1=trial, 2=synced.",
			ConstLabels: labels,
		}),
		snrDB: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ofdmcore_snr_db",
			Help:        "Most recent 3kHz-referred SNR estimate, in dB.",
			ConstLabels: labels,
		}),
		foffHz: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ofdmcore_foff_hz",
			Help:        "Current tracked carrier frequency offset, in Hz.",
			ConstLabels: labels,
		}),
		uwErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ofdmcore_uw_errors",
			Help:        "Unique-word bit mismatch count for the most recent frame.",
			ConstLabels: labels,
		}),
		packetCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ofdmcore_packets_total",
			Help:        "Total packets demodulated.",
			ConstLabels: labels,
		}),
		crcFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ofdmcore_crc_failures_total",
			Help:        "Total packets whose CRC check failed (burst data modes).",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(r.syncState, r.snrDB, r.foffHz, r.uwErrors, r.packetCount, r.crcFailures)
	return r
}

// SetSyncState records the sync state machine's current state as 0/1/2.
func (r *Recorder) SetSyncState(state int) { r.syncState.Set(float64(state)) }

// SetSNR records the latest SNR estimate.
func (r *Recorder) SetSNR(db float64) { r.snrDB.Set(db) }

// SetFoff records the latest tracked carrier offset.
func (r *Recorder) SetFoff(hz float64) { r.foffHz.Set(hz) }

// SetUWErrors records the latest frame's UW mismatch count.
func (r *Recorder) SetUWErrors(n int) { r.uwErrors.Set(float64(n)) }

// IncPacket increments the demodulated-packet counter.
func (r *Recorder) IncPacket() { r.packetCount.Inc() }

// IncCRCFailure increments the CRC-failure counter.
func (r *Recorder) IncCRCFailure() { r.crcFailures.Inc() }

// ListenAndServe starts a blocking /metrics HTTP server for this
// recorder's registry.
func (r *Recorder) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("metrics: serving %s: %w", addr, err)
	}
	return nil
}
