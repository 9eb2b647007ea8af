package overlay

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// ClientArea is the drawable region of a window in screen coordinates.
type ClientArea struct {
	Left, Top     int
	Width, Height int
}

// Empty reports whether the area has no drawable pixels (e.g. a minimized window).
func (a ClientArea) Empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

func (a ClientArea) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", a.Width, a.Height, a.Left, a.Top)
}

// Logical converts a, in physical screen pixels, into device-independent
// pixels relative to a monitor whose top-left corner is (originX, originY)
// and whose scale factor is scale. A non-positive scale counts as 1.
func (a ClientArea) Logical(originX, originY int, scale float64) ClientArea {
	if scale <= 0 {
		scale = 1
	}
	dip := func(v int) int { return int(math.Round(float64(v) / scale)) }
	return ClientArea{
		Left:   dip(a.Left - originX),
		Top:    dip(a.Top - originY),
		Width:  dip(a.Width),
		Height: dip(a.Height),
	}
}

// WindowNotFoundError is returned when no top-level window has the title.
type WindowNotFoundError struct {
	Title string
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("window %q not found", e.Title)
}

// Follower keeps an overlay aligned with the game window. Poll is meant to
// be called from the render loop; it only queries the window once per
// period.
type Follower struct {
	locate func() (ClientArea, error)
	apply  func(ClientArea)
	every  time.Duration

	current ClientArea
	last    time.Time
	lost    bool
	log     zerolog.Logger
}

// NewFollower starts from initial. every <= 0 disables following.
func NewFollower(initial ClientArea, every time.Duration, locate func() (ClientArea, error), apply func(ClientArea), log zerolog.Logger) *Follower {
	return &Follower{
		locate:  locate,
		apply:   apply,
		every:   every,
		current: initial,
		log:     log.With().Str("component", "follower").Logger(),
	}
}

func (f *Follower) Area() ClientArea {
	return f.current
}

// Poll re-reads the game window when the period has elapsed and applies any
// change. It returns true when the area changed.
func (f *Follower) Poll(now time.Time) bool {
	if f.every <= 0 || now.Sub(f.last) < f.every {
		return false
	}
	f.last = now

	area, err := f.locate()
	if err != nil {
		if !f.lost {
			f.log.Warn().Err(err).Msg("game window lost, keeping last position")
			f.lost = true
		}
		return false
	}
	if f.lost {
		f.log.Info().Stringer("area", area).Msg("game window found again")
		f.lost = false
	}
	if area.Empty() || area == f.current {
		return false
	}

	f.log.Debug().Stringer("from", f.current).Stringer("to", area).Msg("game window moved")
	f.current = area
	f.apply(area)
	return true
}
