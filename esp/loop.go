package esp

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mwoverlay/entity"
	"mwoverlay/logging"
)

// Source produces one snapshot per call. *entity.Extractor implements it.
type Source interface {
	Extract() (entity.Snapshot, error)
}

// Stats is a point-in-time view of the extraction task.
type Stats struct {
	Cycles      uint64
	Failures    uint64
	Entities    int
	Skipped     int
	LastSuccess time.Time
}

// Loop owns the live snapshot. The extraction task (Run/Tick) replaces it
// with a single atomic swap; the repaint pass (Repaint) loads it once per
// pass. Neither side waits for the other.
type Loop struct {
	src     Source
	toggles *Toggles
	period  time.Duration

	snap atomic.Pointer[entity.Snapshot]

	cycles      atomic.Uint64
	failures    atomic.Uint64
	lastSuccess atomic.Int64 // unix nanos, 0 = never

	log     zerolog.Logger
	sampled zerolog.Logger
}

func NewLoop(src Source, toggles *Toggles, period time.Duration, log zerolog.Logger) *Loop {
	l := &Loop{
		src:     src,
		toggles: toggles,
		period:  period,
		log:     log.With().Str("component", "loop").Logger(),
	}
	l.sampled = logging.Sampled(l.log)
	l.snap.Store(&entity.Snapshot{})
	return l
}

func (l *Loop) Toggles() *Toggles { return l.toggles }

// Snapshot returns the live snapshot. Never nil.
func (l *Loop) Snapshot() *entity.Snapshot {
	return l.snap.Load()
}

// Tick runs one extraction cycle. On success the new snapshot replaces the
// live one; on failure the live snapshot is left untouched.
func (l *Loop) Tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in extraction: %v", r)
			l.failures.Add(1)
			l.log.Error().Err(err).Msg("extraction panicked")
		}
	}()

	snap, err := l.src.Extract()
	if err != nil {
		l.failures.Add(1)
		l.sampled.Warn().Err(err).Msg("extraction failed, keeping previous snapshot")
		return err
	}

	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}
	snap.Cycle = l.cycles.Add(1)
	l.snap.Store(&snap)
	l.lastSuccess.Store(snap.TakenAt.UnixNano())

	if snap.Skipped > 0 {
		l.sampled.Debug().Int("skipped", snap.Skipped).Uint64("cycle", snap.Cycle).Msg("entities skipped")
	}
	return nil
}

// Run ticks at the extraction period until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info().Dur("period", l.period).Msg("extraction started")
	defer l.log.Info().Msg("extraction stopped")

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.Tick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Repaint paints the live snapshot onto c for a surface of width x height.
func (l *Loop) Repaint(c Canvas, width, height float64) {
	Paint(c, l.snap.Load(), l.toggles, width, height)
}

func (l *Loop) Stats() Stats {
	snap := l.snap.Load()
	st := Stats{
		Cycles:   l.cycles.Load(),
		Failures: l.failures.Load(),
		Entities: len(snap.Entities),
		Skipped:  snap.Skipped,
	}
	if ns := l.lastSuccess.Load(); ns != 0 {
		st.LastSuccess = time.Unix(0, ns)
	}
	return st
}
