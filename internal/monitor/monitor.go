// Package monitor coordinates probe scheduling against the wall clock and
// folds asynchronous results into the clock-face timeline and statistics.
package monitor

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/doridoridoriand/pingclock/internal/dnscache"
	"github.com/doridoridoriand/pingclock/internal/log"
	"github.com/doridoridoriand/pingclock/internal/metrics"
	"github.com/doridoridoriand/pingclock/internal/probe"
	"github.com/doridoridoriand/pingclock/internal/stats"
	"github.com/doridoridoriand/pingclock/internal/timeline"
)

const (
	// ProbeInterval is the wall-clock cadence of probes: one per 5 second
	// boundary, matching the 12-slot minute.
	ProbeInterval = 5 * time.Second
	// TickInterval drives the coordinator loop. Ticks are cheap: a
	// non-blocking drain plus bookkeeping.
	TickInterval = 100 * time.Millisecond
	// PendingTimeout abandons in-flight bookkeeping for probes that never
	// answered. The probe itself is not cancelled; a late result is still
	// applied when it eventually lands.
	PendingTimeout = 10 * time.Second
	// DNSCacheTTL bounds how long a resolution is reused.
	DNSCacheTTL = 300 * time.Second

	// resultBuffer comfortably exceeds the 12 probes that can ever be in
	// flight at once, so executor goroutines never block on delivery.
	resultBuffer = 64
)

// Dispatcher issues asynchronous probes. *probe.Executor satisfies it.
type Dispatcher interface {
	ResolveAndProbe(target string, results chan<- probe.Result)
	ProbeAddr(ip net.IP, results chan<- probe.Result)
}

// Monitor owns the timeline, history, statistics, DNS cache and pending set.
// All mutation happens under its lock during tick processing; readers get
// copies.
type Monitor struct {
	mu       sync.RWMutex
	executor Dispatcher
	cache    *dnscache.Cache
	logger   *log.Logger
	now      func() time.Time

	target          string
	greenThreshold  time.Duration
	yellowThreshold time.Duration

	monitoring   bool
	tl           *timeline.Timeline
	history      *stats.History
	window       stats.Snapshot
	pending      map[int]time.Time
	lastBoundary int64
	hasBoundary  bool
	lastResponse *float64

	results chan probe.Result
}

// New constructs an idle monitor for the given target and thresholds.
func New(executor Dispatcher, target string, green, yellow time.Duration) *Monitor {
	m := &Monitor{
		executor:        executor,
		now:             time.Now,
		target:          target,
		greenThreshold:  green,
		yellowThreshold: yellow,
		tl:              timeline.New(),
		history:         stats.NewHistory(),
		pending:         make(map[int]time.Time),
		results:         make(chan probe.Result, resultBuffer),
	}
	m.cache = dnscache.NewWithClock(func() time.Time { return m.now() })
	return m
}

// SetLogger enables structured logging of probe outcomes.
func (m *Monitor) SetLogger(logger *log.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetTarget replaces the probed target. In-flight probes for the previous
// target still deliver and are applied.
func (m *Monitor) SetTarget(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.target = target
}

// Target returns the current target.
func (m *Monitor) Target() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.target
}

// SetThresholds replaces the latency classification thresholds. Ordering is
// not enforced here; callers fronting user input validate it.
func (m *Monitor) SetThresholds(green, yellow time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.greenThreshold = green
	m.yellowThreshold = yellow
}

// Thresholds returns the green and yellow thresholds.
func (m *Monitor) Thresholds() (green, yellow time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.greenThreshold, m.yellowThreshold
}

// StartMonitoring enters the probing state. The boundary marker resets so
// the next eligible tick fires immediately instead of waiting out the
// current 5 second window.
func (m *Monitor) StartMonitoring() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitoring = true
	m.hasBoundary = false
}

// StopMonitoring leaves the probing state. Results already in flight still
// drain on subsequent ticks.
func (m *Monitor) StopMonitoring() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitoring = false
}

// Monitoring reports whether probes are being scheduled.
func (m *Monitor) Monitoring() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.monitoring
}

// Run drives the tick loop until context cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick performs one coordinator pass: drain completed results, expire stale
// pending entries, then issue a probe if a new 5 second boundary arrived.
func (m *Monitor) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.drainResults(now)
	m.purgePending(now)
	if m.monitoring {
		m.schedule(now)
	}
	metrics.SetPendingProbes(len(m.pending))
}

// drainResults empties the channel without blocking. An empty channel is the
// common case, not an error.
func (m *Monitor) drainResults(now time.Time) {
	for {
		select {
		case result := <-m.results:
			m.apply(result, now)
		default:
			return
		}
	}
}

// apply folds one completed result into timeline, history and statistics.
// The slot index derives from the issuance timestamp, so a slow reply still
// lands on the slot it was launched for.
func (m *Monitor) apply(result probe.Result, now time.Time) {
	index := timeline.SlotFor(result.Timestamp)
	color := timeline.Classify(result.Success, result.RTT, m.greenThreshold, m.yellowThreshold)
	m.tl.Write(index, color, result.Timestamp)

	if result.Success {
		millis := result.ResponseMillis()
		m.lastResponse = &millis
	} else {
		m.lastResponse = nil
	}

	if result.HasResolution() && result.Hostname != result.Resolved.String() {
		m.cache.Store(result.Hostname, result.Resolved, DNSCacheTTL)
	}

	m.history.Append(result)
	m.window = stats.Recompute(m.history, now)
	delete(m.pending, index)

	metrics.RecordProbe(m.target, result.Success, result.RTT)
	metrics.RecordWindow(m.window.LossRate, m.window.MeanResponseMillis)
	if m.logger != nil {
		m.logger.LogProbeResult(m.target, result.Success, result.RTT)
	}
}

// purgePending abandons entries older than the timeout. The abandoned slot
// is not retried and no failure is synthesized; it stays stale until a
// future result overwrites it.
func (m *Monitor) purgePending(now time.Time) {
	for index, issued := range m.pending {
		if now.Sub(issued) >= PendingTimeout {
			delete(m.pending, index)
		}
	}
}

// schedule issues a probe when a 5 second boundary beyond the last-issued
// one has been reached. Right after StartMonitoring the marker is unset and
// an exact boundary hit fires immediately.
func (m *Monitor) schedule(now time.Time) {
	secs := now.Unix()
	boundary := (secs / int64(ProbeInterval.Seconds())) * int64(ProbeInterval.Seconds())

	var due bool
	if m.hasBoundary {
		due = boundary > m.lastBoundary
	} else {
		due = secs%int64(ProbeInterval.Seconds()) == 0
	}
	if !due {
		return
	}
	m.issueProbe(now, boundary)
}

// issueProbe dispatches one probe for the current slot unless one is already
// in flight for it. A blocked slot leaves the boundary unrecorded so the
// next tick retries.
func (m *Monitor) issueProbe(now time.Time, boundary int64) {
	index := timeline.SlotFor(now)
	if _, inFlight := m.pending[index]; inFlight {
		return
	}

	if ip, ok := m.cache.Lookup(m.target); ok {
		m.executor.ProbeAddr(ip, m.results)
	} else {
		m.cache.EvictIfExpired(m.target)
		m.executor.ResolveAndProbe(m.target, m.results)
	}

	m.pending[index] = now
	m.lastBoundary = boundary
	m.hasBoundary = true
}
