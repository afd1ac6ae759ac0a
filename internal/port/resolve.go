package port

import (
	"context"
	"fmt"
)

type Status int

const (
	Available Status = iota
	Busy
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Busy:
		return "busy"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Outcome is the result of resolving one managed range. Port is the value
// that should be written into the agent config.
type Outcome struct {
	Range    Range
	Status   Status
	Port     int
	Occupant string
}

// Resolve scans r starting at its base port. If the base port is free it is
// used as is; if it is taken the nearest free port above it is used; if the
// whole range is taken the base port is kept and the engine is left to fail
// at bind time.
//
// The result is only a snapshot: nothing holds the port until the engine
// binds it.
func (a *Allocator) Resolve(ctx context.Context, r Range) Outcome {
	free, ok := a.FindFree(ctx, r)
	switch {
	case !ok:
		return Outcome{Range: r, Status: Exhausted, Port: r.Start}
	case free == r.Start:
		return Outcome{Range: r, Status: Available, Port: free}
	default:
		o := Outcome{Range: r, Status: Busy, Port: free}
		if a.occupant != nil {
			o.Occupant = a.occupant(ctx, r.Start)
		}
		return o
	}
}

func (o Outcome) Message() string {
	switch o.Status {
	case Available:
		return fmt.Sprintf("%s port %d available", o.Range.Name, o.Port)
	case Busy:
		msg := fmt.Sprintf("%s port %d busy; nearest free: %d", o.Range.Name, o.Range.Start, o.Port)
		if o.Occupant != "" {
			msg += fmt.Sprintf(" (%d held by %s)", o.Range.Start, o.Occupant)
		}
		return msg
	default:
		return fmt.Sprintf("%s ports %s all in use; keeping %d, the engine will fail at bind if it is still taken (free a port or edit the range in bootstrap.toml)",
			o.Range.Name, o.Range, o.Port)
	}
}
