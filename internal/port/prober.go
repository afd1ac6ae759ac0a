package port

import (
	"context"
	"fmt"
	"net"

	gnet "github.com/shirou/gopsutil/v4/net"
)

// Prober reports whether something is listening on a local TCP port.
type Prober interface {
	InUse(ctx context.Context, port int) (bool, error)
}

// snapshotter is implemented by probers that can freeze their view of the
// socket table for the duration of one range scan.
type snapshotter interface {
	Snapshot(ctx context.Context) (Prober, error)
}

// TableProber reads the kernel's listening-socket table. It needs no
// privileges and never binds.
type TableProber struct {
	// list is swapped in tests.
	list func(ctx context.Context) ([]gnet.ConnectionStat, error)
}

func NewTableProber() *TableProber {
	return &TableProber{list: func(ctx context.Context) ([]gnet.ConnectionStat, error) {
		return gnet.ConnectionsWithContext(ctx, "tcp")
	}}
}

func (p *TableProber) InUse(ctx context.Context, port int) (bool, error) {
	snap, err := p.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.InUse(ctx, port)
}

func (p *TableProber) Snapshot(ctx context.Context) (Prober, error) {
	return p.snapshot(ctx)
}

func (p *TableProber) snapshot(ctx context.Context) (listenSet, error) {
	conns, err := p.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("port: list listening sockets: %w", err)
	}
	set := make(listenSet)
	for _, c := range conns {
		if c.Status == "LISTEN" {
			set[int(c.Laddr.Port)] = c.Pid
		}
	}
	return set, nil
}

// listenSet maps listening port -> owning pid (0 when unknown).
type listenSet map[int]int32

func (s listenSet) InUse(_ context.Context, port int) (bool, error) {
	_, ok := s[port]
	return ok, nil
}

// BindProber tries to bind the port and releases it immediately. Any bind
// failure counts as in use.
type BindProber struct{}

func (BindProber) InUse(_ context.Context, port int) (bool, error) {
	for _, addr := range []string{fmt.Sprintf("127.0.0.1:%d", port), fmt.Sprintf(":%d", port)} {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return true, nil
		}
		ln.Close()
	}
	return false, nil
}

// FallbackProber asks the socket table first and falls back to a bind probe
// when the table is unavailable on this host.
type FallbackProber struct {
	Primary  Prober
	Fallback Prober
}

func NewProber() *FallbackProber {
	return &FallbackProber{Primary: NewTableProber(), Fallback: BindProber{}}
}

func (p *FallbackProber) InUse(ctx context.Context, port int) (bool, error) {
	inUse, err := p.Primary.InUse(ctx, port)
	if err == nil {
		return inUse, nil
	}
	return p.Fallback.InUse(ctx, port)
}

func (p *FallbackProber) Snapshot(ctx context.Context) (Prober, error) {
	if s, ok := p.Primary.(snapshotter); ok {
		if snap, err := s.Snapshot(ctx); err == nil {
			return snap, nil
		}
		return p.Fallback, nil
	}
	return p, nil
}
