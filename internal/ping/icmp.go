package ping

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const echoData = "pingclock"

// ICMPPinger sends ICMP echo requests using raw sockets.
type ICMPPinger struct {
	id  int
	seq uint32
}

// NewICMPPinger initializes a pinger with a process-scoped identifier.
func NewICMPPinger() *ICMPPinger {
	return &ICMPPinger{id: os.Getpid() & 0xffff}
}

// Ping sends one echo request to ip and waits for the matching reply. The
// identifier and sequence number are fixed for the lifetime of the probe.
func (p *ICMPPinger) Ping(ctx context.Context, ip net.IP, timeout time.Duration) Result {
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Error: err}
	}
	if ip == nil {
		return Result{Success: false, Error: fmt.Errorf("nil target address")}
	}

	network, protocol, requestType, replyType := icmpSettings(ip)
	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return Result{Success: false, Error: err}
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&p.seq, 1)) & 0xffff
	msg := icmp.Message{
		Type: requestType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: []byte(echoData),
		},
	}

	payload, err := msg.Marshal(nil)
	if err != nil {
		return Result{Success: false, Error: err}
	}

	deadline := effectiveDeadline(ctx, timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return Result{Success: false, Error: err}
	}

	start := time.Now()
	if _, err := conn.WriteTo(payload, &net.IPAddr{IP: ip}); err != nil {
		return Result{Success: false, Error: err}
	}

	buf := make([]byte, 1500)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Success: false, Error: err}
		}

		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			// timeoutエラーを適切に処理
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return Result{Success: false, Error: fmt.Errorf("ping timeout: %w", err)}
			}
			return Result{Success: false, Error: err}
		}
		if peer == nil {
			continue
		}

		reply, err := icmp.ParseMessage(protocol, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type != replyType {
			continue
		}
		body, ok := reply.Body.(*icmp.Echo)
		if !ok {
			continue
		}
		if body.ID != p.id || body.Seq != seq {
			continue
		}

		return Result{Success: true, RTT: time.Since(start)}
	}
}

func icmpSettings(ip net.IP) (network string, protocol int, requestType icmp.Type, replyType icmp.Type) {
	if ip.To4() != nil {
		return "ip4:icmp", ipv4.ICMPTypeEcho.Protocol(), ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	}
	return "ip6:ipv6-icmp", ipv6.ICMPTypeEchoRequest.Protocol(), ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
}

func effectiveDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}
