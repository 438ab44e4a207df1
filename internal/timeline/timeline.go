package timeline

import "time"

const (
	// NumSlots is the number of positions on the 60 second clock face.
	NumSlots = 12
	// SlotSeconds is the wall-clock span covered by one slot.
	SlotSeconds = 5
)

// Slot is one clock-face position: the color of the last result written to
// it and when that write happened.
type Slot struct {
	Color     Color
	UpdatedAt time.Time
}

// Timeline is the fixed ring of 12 slots. Writes always target an explicit
// index; there is no cursor.
type Timeline struct {
	slots [NumSlots]Slot
}

// New returns a timeline with every slot gray and unaged.
func New() *Timeline {
	return &Timeline{}
}

// SlotFor maps a point in time onto its clock-face index: slot i covers
// seconds [5i, 5i+5) of the current minute.
func SlotFor(t time.Time) int {
	secs := t.Unix()
	if secs < 0 {
		secs = 0
	}
	return int((secs % 60) / SlotSeconds)
}

// Write overwrites a slot. Last write wins; out-of-order results across a
// minute boundary leave the most recently processed one visible.
func (tl *Timeline) Write(index int, color Color, at time.Time) {
	if index < 0 || index >= NumSlots {
		return
	}
	tl.slots[index] = Slot{Color: color, UpdatedAt: at}
}

// Slot returns a copy of a single slot. Out-of-range indexes yield the zero
// slot.
func (tl *Timeline) Slot(index int) Slot {
	if index < 0 || index >= NumSlots {
		return Slot{}
	}
	return tl.slots[index]
}

// Slots returns a copy of all 12 slots.
func (tl *Timeline) Slots() [NumSlots]Slot {
	return tl.slots
}

// Classify maps one probe outcome to a slot color. Failures are red
// regardless of thresholds; successes grade green/yellow/orange against the
// configured latency thresholds. Threshold ordering is the caller's
// responsibility.
func Classify(success bool, rtt, green, yellow time.Duration) Color {
	if !success {
		return ColorRed
	}
	switch {
	case rtt < green:
		return ColorGreen
	case rtt < yellow:
		return ColorYellow
	default:
		return ColorOrange
	}
}
