package esp

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Watch logs extraction health every period and warns when no cycle has
// succeeded for longer than stale. It returns when ctx is done.
func Watch(ctx context.Context, loop *Loop, period, stale time.Duration, log zerolog.Logger) error {
	log = log.With().Str("component", "watchdog").Logger()
	started := time.Now()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			check(loop.Stats(), started, now, stale, log)
		}
	}
}

// check reports whether extraction is stalled, logging either way.
func check(st Stats, started, now time.Time, stale time.Duration, log zerolog.Logger) bool {
	last := st.LastSuccess
	if last.IsZero() {
		last = started
	}
	age := now.Sub(last)
	if age > stale {
		log.Warn().
			Dur("age", age).
			Str("lastSnapshot", humanize.RelTime(last, now, "ago", "from now")).
			Uint64("failures", st.Failures).
			Msg("extraction may be stuck, no snapshot published recently")
		return true
	}

	log.Debug().
		Uint64("cycles", st.Cycles).
		Uint64("failures", st.Failures).
		Int("entities", st.Entities).
		Int("skipped", st.Skipped).
		Msg("extraction healthy")
	return false
}
