package ping

import (
	"context"
	"net"
	"time"
)

// Result captures one echo round trip.
type Result struct {
	RTT     time.Duration
	Success bool
	Error   error
}

// Pinger sends a single echo request to an already-resolved address.
// Implementations never panic on transport failure; errors come back in the
// Result.
type Pinger interface {
	Ping(ctx context.Context, ip net.IP, timeout time.Duration) Result
}
