package probe

import (
	"context"
	"net"
	"strings"
	"time"
	"unicode"

	"github.com/doridoridoriand/pingclock/internal/ping"
)

// DefaultTimeout bounds one echo round trip, resolution included.
const DefaultTimeout = 5 * time.Second

// Resolver looks up a hostname. *net.Resolver satisfies it.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Executor dispatches probes off the caller's goroutine. Every invocation
// delivers exactly one Result on the channel, failures included, so the
// monitor's pending accounting never leaks a slot.
type Executor struct {
	pinger   ping.Pinger
	resolver Resolver
	timeout  time.Duration
	now      func() time.Time
}

// NewExecutor returns an executor using the system resolver, the default
// timeout and the wall clock.
func NewExecutor(pinger ping.Pinger) *Executor {
	return &Executor{
		pinger:   pinger,
		resolver: net.DefaultResolver,
		timeout:  DefaultTimeout,
		now:      time.Now,
	}
}

// ResolveAndProbe parses target as a literal address, resolving it as a
// hostname otherwise, and probes the first address. Resolution failures of
// any kind become a failed Result stamped with the issuance time. On a
// resolved success the Result carries the (hostname, address) pair so the
// caller can populate its DNS cache.
func (e *Executor) ResolveAndProbe(target string, results chan<- Result) {
	issued := e.now()
	go func() {
		ip, resolved := e.resolveTarget(target)
		if ip == nil {
			results <- Failure(issued)
			return
		}

		result := e.ping(ip, issued)
		if result.Success && resolved {
			result.Hostname = target
			result.Resolved = ip
		}
		results <- result
	}()
}

// ProbeAddr probes an already-resolved address, typically from the DNS
// cache. The Result never carries a resolution pair.
func (e *Executor) ProbeAddr(ip net.IP, results chan<- Result) {
	issued := e.now()
	go func() {
		results <- e.ping(ip, issued)
	}()
}

// resolveTarget returns the address to probe and whether a hostname
// resolution took place.
func (e *Executor) resolveTarget(target string) (net.IP, bool) {
	if ip := net.ParseIP(target); ip != nil {
		return ip, false
	}

	hostname, ok := sanitizeHostname(target)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	ips, err := e.resolver.LookupIP(ctx, "ip", hostname)
	if err != nil || len(ips) == 0 {
		return nil, false
	}
	return ips[0], true
}

func (e *Executor) ping(ip net.IP, issued time.Time) Result {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	echo := e.pinger.Ping(ctx, ip, e.timeout)
	if !echo.Success {
		return Failure(issued)
	}
	return Result{Timestamp: issued, RTT: echo.RTT, Success: true}
}

// sanitizeHostname strips a trailing :port and keeps only alphanumeric
// runes, dots and hyphens. An empty remainder is a resolution failure.
func sanitizeHostname(target string) (string, bool) {
	host, _, _ := strings.Cut(target, ":")

	var b strings.Builder
	for _, r := range host {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		return "", false
	}
	return sanitized, true
}
