package overlay

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestClientArea(t *testing.T) {
	a := ClientArea{Left: 10, Top: 20, Width: 1400, Height: 1050}
	assert.False(t, a.Empty())
	assert.Equal(t, "1400x1050+10+20", a.String())
	assert.True(t, ClientArea{Width: 0, Height: 600}.Empty())

	err := error(&WindowNotFoundError{Title: "Morrowind"})
	var wnf *WindowNotFoundError
	assert.True(t, errors.As(err, &wnf))
	assert.Contains(t, err.Error(), "Morrowind")
}

func TestClientArea_Logical(t *testing.T) {
	tests := []struct {
		name   string
		area   ClientArea
		ox, oy int
		scale  float64
		want   ClientArea
	}{
		{"unscaled primary", ClientArea{Left: 10, Top: 20, Width: 1400, Height: 1050}, 0, 0, 1, ClientArea{Left: 10, Top: 20, Width: 1400, Height: 1050}},
		{"150 percent", ClientArea{Width: 1400, Height: 1050}, 0, 0, 1.5, ClientArea{Width: 933, Height: 700}},
		{"125 percent offset", ClientArea{Left: 100, Top: 50, Width: 1000, Height: 750}, 0, 0, 1.25, ClientArea{Left: 80, Top: 40, Width: 800, Height: 600}},
		{"secondary monitor", ClientArea{Left: 2020, Top: 100, Width: 1000, Height: 800}, 1920, 0, 1.25, ClientArea{Left: 80, Top: 80, Width: 800, Height: 640}},
		{"monitor left of primary", ClientArea{Left: -1800, Top: 0, Width: 1600, Height: 900}, -1920, 0, 1, ClientArea{Left: 120, Top: 0, Width: 1600, Height: 900}},
		{"zero scale", ClientArea{Width: 800, Height: 600}, 0, 0, 0, ClientArea{Width: 800, Height: 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.area.Logical(tt.ox, tt.oy, tt.scale))
		})
	}
}

func TestFollower(t *testing.T) {
	start := ClientArea{Left: 0, Top: 0, Width: 800, Height: 600}
	next := start
	var locateErr error
	var applied []ClientArea

	f := NewFollower(start, time.Second,
		func() (ClientArea, error) { return next, locateErr },
		func(a ClientArea) { applied = append(applied, a) },
		zerolog.Nop())

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// unchanged
	assert.False(t, f.Poll(t0))

	// moved, but inside the period
	next = ClientArea{Left: 50, Top: 40, Width: 800, Height: 600}
	assert.False(t, f.Poll(t0.Add(500*time.Millisecond)))
	assert.Empty(t, applied)

	assert.True(t, f.Poll(t0.Add(time.Second)))
	assert.Equal(t, []ClientArea{next}, applied)
	assert.Equal(t, next, f.Area())

	// window gone: keep last area
	locateErr = &WindowNotFoundError{Title: "Morrowind"}
	assert.False(t, f.Poll(t0.Add(2*time.Second)))
	assert.Equal(t, next, f.Area())

	// minimized
	locateErr = nil
	next = ClientArea{Left: -32000, Top: -32000}
	assert.False(t, f.Poll(t0.Add(3*time.Second)))
	assert.Len(t, applied, 1)
}

func TestFollower_Disabled(t *testing.T) {
	calls := 0
	f := NewFollower(ClientArea{Width: 1, Height: 1}, 0,
		func() (ClientArea, error) { calls++; return ClientArea{}, nil },
		func(ClientArea) {}, zerolog.Nop())

	assert.False(t, f.Poll(time.Now()))
	assert.Zero(t, calls)
}
