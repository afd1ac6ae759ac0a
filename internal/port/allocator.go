package port

import (
	"context"
	"fmt"
)

// Range is an inclusive port range scanned in ascending order.
type Range struct {
	Name  string
	Start int
	End   int
}

func (r Range) Validate() error {
	if r.Start < 1 || r.End > 65535 || r.Start > r.End {
		return fmt.Errorf("port: invalid %s range %d-%d", r.Name, r.Start, r.End)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

var (
	AudioSocketRange = Range{Name: "AudioSocket", Start: 8090, End: 8100}
	RTPRange         = Range{Name: "ExternalMedia RTP", Start: 18080, End: 18099}
)

type allocatorOptions struct {
	occupant func(ctx context.Context, port int) string
}

type AllocatorOption func(*allocatorOptions)

// WithOccupantLookup replaces the function used to name the process holding
// a busy base port. Pass nil to disable the lookup.
func WithOccupantLookup(fn func(ctx context.Context, port int) string) AllocatorOption {
	return func(o *allocatorOptions) { o.occupant = fn }
}

type Allocator struct {
	prober   Prober
	occupant func(ctx context.Context, port int) string
}

func NewAllocator(prober Prober, opts ...AllocatorOption) *Allocator {
	o := allocatorOptions{occupant: Occupant}
	for _, opt := range opts {
		opt(&o)
	}
	return &Allocator{prober: prober, occupant: o.occupant}
}

// FindFree returns the lowest port in r that nothing listens on. ok is false
// when every port in the range is taken. A probe error counts as taken.
func (a *Allocator) FindFree(ctx context.Context, r Range) (int, bool) {
	p := a.prober
	if s, ok := p.(snapshotter); ok {
		if snap, err := s.Snapshot(ctx); err == nil {
			p = snap
		}
	}

	for port := r.Start; port <= r.End; port++ {
		inUse, err := p.InUse(ctx, port)
		if err != nil || inUse {
			continue
		}
		return port, true
	}
	return 0, false
}
