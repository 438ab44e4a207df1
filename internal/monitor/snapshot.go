package monitor

import (
	"time"

	"github.com/doridoridoriand/pingclock/internal/stats"
	"github.com/doridoridoriand/pingclock/internal/timeline"
)

// SlotView is one clock-face position as the rendering collaborators see
// it: the age-faded display color plus the in-flight marker for stroke
// highlighting.
type SlotView struct {
	Color     timeline.Color `json:"-"`
	Name      string         `json:"color"`
	RGB       timeline.RGB   `json:"rgb"`
	Pending   bool           `json:"pending"`
	UpdatedAt time.Time      `json:"updated_at,omitzero"`
}

// Snapshot is a read-only copy of the monitor state.
type Snapshot struct {
	GeneratedAt        time.Time                     `json:"generated_at"`
	Target             string                        `json:"target"`
	Monitoring         bool                          `json:"monitoring"`
	GreenThresholdMs   int64                         `json:"green_threshold_ms"`
	YellowThresholdMs  int64                         `json:"yellow_threshold_ms"`
	Slots              [timeline.NumSlots]SlotView   `json:"slots"`
	Stats              stats.Snapshot                `json:"stats"`
	LastResponseMillis *float64                      `json:"last_response_ms,omitempty"`
	MillisInMinute     int64                         `json:"millis_in_minute"`
}

// Snapshot copies the current state. Display colors are aged at snapshot
// time, so repeated calls on a quiet monitor still fade toward gray.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	snapshot := Snapshot{
		GeneratedAt:       now,
		Target:            m.target,
		Monitoring:        m.monitoring,
		GreenThresholdMs:  m.greenThreshold.Milliseconds(),
		YellowThresholdMs: m.yellowThreshold.Milliseconds(),
		Stats:             m.window,
		MillisInMinute:    millisInMinute(now),
	}

	for i, slot := range m.tl.Slots() {
		view := SlotView{
			Color:     slot.Color,
			Name:      slot.Color.String(),
			RGB:       slot.Color.RGB(),
			UpdatedAt: slot.UpdatedAt,
		}
		if !slot.UpdatedAt.IsZero() {
			view.RGB = slot.Color.AgedRGB(now.Sub(slot.UpdatedAt).Seconds())
		}
		_, view.Pending = m.pending[i]
		snapshot.Slots[i] = view
	}

	if m.lastResponse != nil {
		millis := *m.lastResponse
		snapshot.LastResponseMillis = &millis
	}
	return snapshot
}

// millisInMinute positions the second hand: milliseconds elapsed in the
// current minute.
func millisInMinute(now time.Time) int64 {
	millis := now.UnixMilli() % 60000
	if millis < 0 {
		millis = 0
	}
	return millis
}
