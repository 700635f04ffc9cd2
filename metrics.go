package atatrim

import "sync/atomic"

// Observer receives a callback per command round trip. The prober and the
// batch dispatcher report through it; implementations must be cheap and must
// not block.
type Observer interface {
	// ObserveIdentify is called after each IDENTIFY DEVICE round trip.
	ObserveIdentify(err error)

	// ObserveTrim is called after each DATA SET MANAGEMENT round trip with
	// the number of 512-byte range-payload blocks the command carried.
	ObserveTrim(blocks int, err error)
}

// NoopObserver discards all observations.
type NoopObserver struct{}

func (NoopObserver) ObserveIdentify(error)  {}
func (NoopObserver) ObserveTrim(int, error) {}

// Metrics tracks operational counters for the trim pipeline. It implements
// Observer so it can be handed directly to a backend.
type Metrics struct {
	IdentifyOps    atomic.Uint64 // IDENTIFY DEVICE commands issued
	IdentifyErrors atomic.Uint64 // IDENTIFY DEVICE round-trip failures

	TrimCmds      atomic.Uint64 // DATA SET MANAGEMENT commands issued
	TrimCmdErrors atomic.Uint64 // DATA SET MANAGEMENT round-trip failures
	TrimBlocks    atomic.Uint64 // range-payload blocks successfully dispatched
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveIdentify implements Observer
func (m *Metrics) ObserveIdentify(err error) {
	m.IdentifyOps.Add(1)
	if err != nil {
		m.IdentifyErrors.Add(1)
	}
}

// ObserveTrim implements Observer
func (m *Metrics) ObserveTrim(blocks int, err error) {
	m.TrimCmds.Add(1)
	if err != nil {
		m.TrimCmdErrors.Add(1)
		return
	}
	m.TrimBlocks.Add(uint64(blocks))
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	IdentifyOps    uint64 `json:"identify_ops"`
	IdentifyErrors uint64 `json:"identify_errors"`
	TrimCmds       uint64 `json:"trim_cmds"`
	TrimCmdErrors  uint64 `json:"trim_cmd_errors"`
	TrimBlocks     uint64 `json:"trim_blocks"`
}

// Snapshot returns a consistent-enough copy for reporting
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		IdentifyOps:    m.IdentifyOps.Load(),
		IdentifyErrors: m.IdentifyErrors.Load(),
		TrimCmds:       m.TrimCmds.Load(),
		TrimCmdErrors:  m.TrimCmdErrors.Load(),
		TrimBlocks:     m.TrimBlocks.Load(),
	}
}

var _ Observer = (*Metrics)(nil)
