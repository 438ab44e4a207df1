// Package probe turns a target string into asynchronous probe results.
package probe

import (
	"net"
	"time"
)

// Result is the immutable outcome of one probe attempt. Timestamp is the
// issuance time, not the completion time; the clock-face slot is derived
// from it.
type Result struct {
	Timestamp time.Time
	RTT       time.Duration
	Success   bool

	// Hostname and Resolved are set together, and only when this probe
	// performed a hostname resolution. The monitor uses the pair to
	// populate its DNS cache.
	Hostname string
	Resolved net.IP
}

// Failure returns a failed result for the given issuance time. Failed
// results carry no RTT and no resolution.
func Failure(issued time.Time) Result {
	return Result{Timestamp: issued}
}

// HasResolution reports whether the result carries a hostname/address pair.
func (r Result) HasResolution() bool {
	return r.Hostname != "" && r.Resolved != nil
}

// ResponseMillis returns the RTT in milliseconds, or 0 for failures.
func (r Result) ResponseMillis() float64 {
	if !r.Success {
		return 0
	}
	return float64(r.RTT) / float64(time.Millisecond)
}
