// Package stats aggregates probe history into a rolling-window snapshot.
package stats

import (
	"time"

	"github.com/doridoridoriand/pingclock/internal/probe"
)

const (
	// HistoryCapacity bounds the retained probe results.
	HistoryCapacity = 60
	// Window is the wall-clock span the snapshot aggregates over,
	// independent of the capacity bound.
	Window = 60 * time.Second
)

// History is a fixed-capacity FIFO of probe results. The oldest entry is
// evicted when a 61st result is appended.
type History struct {
	entries [HistoryCapacity]probe.Result
	start   int
	count   int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a result, evicting the oldest when at capacity.
func (h *History) Append(result probe.Result) {
	if h.count < HistoryCapacity {
		h.entries[(h.start+h.count)%HistoryCapacity] = result
		h.count++
		return
	}
	h.entries[h.start] = result
	h.start = (h.start + 1) % HistoryCapacity
}

// Len returns the number of retained results.
func (h *History) Len() int {
	return h.count
}

// At returns the i-th result, oldest first.
func (h *History) At(i int) probe.Result {
	return h.entries[(h.start+i)%HistoryCapacity]
}

// Snapshot summarizes the rolling window. Rates default to zero when the
// window is empty.
type Snapshot struct {
	Total              uint64  `json:"total"`
	Successful         uint64  `json:"successful"`
	Failed             uint64  `json:"failed"`
	LossRate           float64 `json:"loss_rate"`
	MeanResponseMillis float64 `json:"mean_response_ms"`
}

// Recompute builds a snapshot from scratch over the results whose issuance
// time falls inside the window ending at now. A full pass is cheap at this
// capacity and immune to clock skew or reordering drift.
func Recompute(history *History, now time.Time) Snapshot {
	cutoff := now.Add(-Window)

	var snapshot Snapshot
	var totalResponseMillis float64
	for i := 0; i < history.Len(); i++ {
		result := history.At(i)
		if result.Timestamp.Before(cutoff) {
			continue
		}
		snapshot.Total++
		if result.Success {
			snapshot.Successful++
			totalResponseMillis += result.ResponseMillis()
		}
	}
	snapshot.Failed = snapshot.Total - snapshot.Successful

	if snapshot.Total > 0 {
		snapshot.LossRate = float64(snapshot.Failed) / float64(snapshot.Total) * 100.0
	}
	if snapshot.Successful > 0 {
		snapshot.MeanResponseMillis = totalResponseMillis / float64(snapshot.Successful)
	}
	return snapshot
}
