package sink

import (
	"context"

	"github.com/brutella/dnssd"

	"github.com/rs1729go/sondedecode/internal/logx"
)

// DNSSDServiceType is the mDNS/DNS-SD service type the decoder
// announces when `--dns-sd` is set, per SPEC_FULL.md §4.12, grounded
// directly in the teacher's src/dns_sd.go KISS-over-TCP announcer.
const DNSSDServiceType = "_sondedecode._udp"

// DNSSDAnnouncer wraps a brutella/dnssd responder announcing the
// decoder's JSON-over-TCP output (when configured) on the local
// network, the same pure-Go approach the teacher uses for its KISS
// TCP service.
type DNSSDAnnouncer struct {
	responder dnssd.Responder
}

// NewDNSSDAnnouncer creates and registers the service, starting the
// responder goroutine. name defaults to a generated hostname-based
// name if empty.
func NewDNSSDAnnouncer(name string, port int) (*DNSSDAnnouncer, error) {
	cfg := dnssd.Config{
		Name: name,
		Type: DNSSDServiceType,
		Port: port,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, err
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, err
	}

	if _, err := rp.Add(sv); err != nil {
		return nil, err
	}

	a := &DNSSDAnnouncer{responder: rp}

	go func() {
		if err := rp.Respond(context.Background()); err != nil {
			logx.Stage(logx.ClassError, "dns-sd", "responder error", "err", err)
		}
	}()

	logx.Stage(logx.ClassInfo, "dns-sd", "announcing sondedecode output", "port", port, "name", name)
	return a, nil
}
