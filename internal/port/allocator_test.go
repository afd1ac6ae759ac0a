package port

import (
	"context"
	"errors"
	"net"
	"testing"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	busy  map[int]bool
	calls []int
}

func busyProber(ports ...int) *fakeProber {
	p := &fakeProber{busy: make(map[int]bool)}
	for _, port := range ports {
		p.busy[port] = true
	}
	return p
}

func (p *fakeProber) InUse(_ context.Context, port int) (bool, error) {
	p.calls = append(p.calls, port)
	return p.busy[port], nil
}

func allBusy(r Range, except ...int) *fakeProber {
	p := busyProber()
	for port := r.Start; port <= r.End; port++ {
		p.busy[port] = true
	}
	for _, port := range except {
		delete(p.busy, port)
	}
	return p
}

func noOccupant() AllocatorOption { return WithOccupantLookup(nil) }

func TestFindFree(t *testing.T) {
	ctx := context.Background()
	r := Range{Name: "test", Start: 8090, End: 8100}

	tests := []struct {
		name   string
		prober *fakeProber
		want   int
		wantOK bool
	}{
		{name: "fully free returns start", prober: busyProber(), want: 8090, wantOK: true},
		{name: "only top port free", prober: allBusy(r, 8100), want: 8100, wantOK: true},
		{name: "fully occupied", prober: allBusy(r), want: 0, wantOK: false},
		{name: "lowest free wins", prober: busyProber(8090, 8092), want: 8091, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(tt.prober, noOccupant())
			got, ok := a.FindFree(ctx, r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindFreeScansAscending(t *testing.T) {
	p := busyProber(18080, 18081, 18082)
	a := NewAllocator(p, noOccupant())

	got, ok := a.FindFree(context.Background(), RTPRange)
	require.True(t, ok)
	assert.Equal(t, 18083, got)
	assert.Equal(t, []int{18080, 18081, 18082, 18083}, p.calls)
}

type erroringProber struct{}

func (erroringProber) InUse(context.Context, int) (bool, error) {
	return false, errors.New("boom")
}

func TestFindFreeTreatsProbeErrorAsTaken(t *testing.T) {
	a := NewAllocator(erroringProber{}, noOccupant())
	_, ok := a.FindFree(context.Background(), Range{Name: "x", Start: 1000, End: 1002})
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		a := NewAllocator(busyProber(), noOccupant())
		o := a.Resolve(ctx, AudioSocketRange)
		assert.Equal(t, Available, o.Status)
		assert.Equal(t, 8090, o.Port)
		assert.Equal(t, "AudioSocket port 8090 available", o.Message())
	})

	t.Run("busy base port", func(t *testing.T) {
		a := NewAllocator(busyProber(8090), WithOccupantLookup(func(context.Context, int) string {
			return "python3 (pid 42)"
		}))
		o := a.Resolve(ctx, AudioSocketRange)
		assert.Equal(t, Busy, o.Status)
		assert.Equal(t, 8091, o.Port)
		assert.Contains(t, o.Message(), "busy; nearest free: 8091")
		assert.Contains(t, o.Message(), "python3 (pid 42)")
	})

	t.Run("exhausted keeps base port", func(t *testing.T) {
		a := NewAllocator(allBusy(RTPRange), noOccupant())
		o := a.Resolve(ctx, RTPRange)
		assert.Equal(t, Exhausted, o.Status)
		assert.Equal(t, 18080, o.Port)
		assert.Contains(t, o.Message(), "18080-18099 all in use")
	})
}

func TestRangeValidate(t *testing.T) {
	assert.NoError(t, AudioSocketRange.Validate())
	assert.NoError(t, RTPRange.Validate())
	assert.Error(t, Range{Name: "inverted", Start: 10, End: 5}.Validate())
	assert.Error(t, Range{Name: "zero", Start: 0, End: 5}.Validate())
	assert.Error(t, Range{Name: "high", Start: 65000, End: 70000}.Validate())
}

func TestTableProber(t *testing.T) {
	calls := 0
	p := &TableProber{list: func(context.Context) ([]gnet.ConnectionStat, error) {
		calls++
		return []gnet.ConnectionStat{
			{Status: "LISTEN", Laddr: gnet.Addr{IP: "0.0.0.0", Port: 8090}, Pid: 7},
			{Status: "ESTABLISHED", Laddr: gnet.Addr{IP: "127.0.0.1", Port: 8091}},
		}, nil
	}}

	a := NewAllocator(p, noOccupant())
	got, ok := a.FindFree(context.Background(), AudioSocketRange)
	require.True(t, ok)
	assert.Equal(t, 8091, got, "only LISTEN sockets count as in use")
	assert.Equal(t, 1, calls, "one table snapshot per scan")
}

func TestFallbackProberUsesBindWhenTableFails(t *testing.T) {
	table := &TableProber{list: func(context.Context) ([]gnet.ConnectionStat, error) {
		return nil, errors.New("no /proc")
	}}
	fallback := busyProber(8090)
	p := &FallbackProber{Primary: table, Fallback: fallback}

	inUse, err := p.InUse(context.Background(), 8090)
	require.NoError(t, err)
	assert.True(t, inUse)

	a := NewAllocator(p, noOccupant())
	got, ok := a.FindFree(context.Background(), AudioSocketRange)
	require.True(t, ok)
	assert.Equal(t, 8091, got)
}

func TestBindProberDetectsListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	inUse, err := BindProber{}.InUse(context.Background(), port)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestBindProberFreePort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	inUse, err := BindProber{}.InUse(context.Background(), port)
	require.NoError(t, err)
	assert.False(t, inUse)
}
