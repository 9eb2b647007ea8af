package esp

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mwoverlay/entity"
	"mwoverlay/geom"
)

const (
	screenW = 1400
	screenH = 1050
)

type sourceFunc func() (entity.Snapshot, error)

func (f sourceFunc) Extract() (entity.Snapshot, error) { return f() }

func hp(v float32) *float32 { return &v }

// 1/64 scale keeps every projected coordinate exact in binary.
func scaledMatrix() geom.Matrix4x4 {
	return geom.Matrix4x4{
		1.0 / 64, 0, 0, 0,
		0, 1.0 / 64, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func scenario() entity.Snapshot {
	return entity.Snapshot{
		Entities: []entity.Record{
			{Name: "Fargoth", Position: geom.Vec3{X: 10, Y: 0, Z: 5}},
			{Name: "Rat", Position: geom.Vec3{X: 12, Y: 0, Z: 5}, Health: hp(45)},
		},
		Matrix: scaledMatrix(),
	}
}

func allOn() *Toggles { return NewToggles(true, true, true, true) }

func TestPaint_Scenario(t *testing.T) {
	snap := scenario()
	var dl DisplayList
	Paint(&dl, &snap, allOn(), screenW, screenH)

	want := []Op{
		{Kind: OpText, X: 819.375, Y: 480, Text: "Fargoth", Color: ColorText},
		{Kind: OpText, X: 841.25, Y: 480, Text: "Rat", Color: ColorText},
		{Kind: OpRect, X: 806, Y: 535, W: BarWidth, H: BarHeight, Color: ColorBarBack},
		{Kind: OpRect, X: 806, Y: 535, W: 22, H: BarHeight, Color: ColorBarFill},
		{Kind: OpText, X: 841.25, Y: 495, Text: "HP: 45.0", Color: ColorText},
	}
	assert.Equal(t, want, dl.Ops())
}

func TestPaint_Toggles(t *testing.T) {
	tests := []struct {
		name    string
		toggles *Toggles
		texts   []string
		rects   int
	}{
		{"all off", NewToggles(false, false, false, false), nil, 0},
		{"entity names only", NewToggles(true, false, false, false), []string{"Fargoth"}, 0},
		{"npc names only", NewToggles(false, true, false, false), []string{"Rat"}, 0},
		{"bars only", NewToggles(false, false, true, false), nil, 2},
		{"values only", NewToggles(false, false, false, true), []string{"HP: 45.0"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := scenario()
			var dl DisplayList
			Paint(&dl, &snap, tt.toggles, screenW, screenH)

			var texts []string
			rects := 0
			for _, op := range dl.Ops() {
				if op.Kind == OpText {
					texts = append(texts, op.Text)
				} else {
					rects++
				}
			}
			assert.Equal(t, tt.texts, texts)
			assert.Equal(t, tt.rects, rects)
		})
	}
}

func TestPaint_SkipsInvisible(t *testing.T) {
	snap := scenario()
	snap.Matrix[15] = 0 // w = 0 for every point
	var dl DisplayList
	Paint(&dl, &snap, allOn(), screenW, screenH)
	assert.Zero(t, dl.Len())

	Paint(&dl, nil, allOn(), screenW, screenH)
	assert.Zero(t, dl.Len())
}

func TestBarFill(t *testing.T) {
	assert.Equal(t, 22, BarFill(45))
	assert.Equal(t, 50, BarFill(100))
	assert.Equal(t, 50, BarFill(250))
	assert.Equal(t, 0, BarFill(0))
	assert.Equal(t, 0, BarFill(-10))
	assert.Equal(t, 0, BarFill(float32(nanValue())))
	assert.Equal(t, 0, BarFill(1.9))
	assert.Equal(t, 5, BarFill(10))
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}

func TestFormatHealth(t *testing.T) {
	assert.Equal(t, "HP: 45.0", FormatHealth(45))
	assert.Equal(t, "HP: 0.3", FormatHealth(0.26))
	assert.Equal(t, "HP: -3.5", FormatHealth(-3.5))
}

func TestDisplayList_ReplayAndReset(t *testing.T) {
	var src, dst DisplayList
	src.DrawText(1, 2, "a", ColorText)
	src.FillRect(3, 4, 5, 6, ColorBarFill)

	src.Replay(&dst)
	assert.Equal(t, src.Ops(), dst.Ops())

	src.Reset()
	assert.Zero(t, src.Len())
	assert.Equal(t, 2, dst.Len())
}

func TestToggles(t *testing.T) {
	tg := NewToggles(true, false, true, false)
	assert.True(t, tg.Enabled(EntityNames))
	assert.False(t, tg.Enabled(NPCNames))

	assert.False(t, tg.ToggleEntityNames())
	assert.True(t, tg.ToggleNPCNames())
	assert.False(t, tg.ToggleHealthBars())
	assert.True(t, tg.ToggleHealthValues())

	tg.Set(HealthBars, true)
	assert.True(t, tg.Enabled(HealthBars))

	assert.False(t, tg.Enabled(Feature(99)))
	assert.False(t, tg.Toggle(Feature(-1)))
	assert.Equal(t, "Show NPC Names", NPCNames.String())
}

func TestToggles_Concurrent(t *testing.T) {
	tg := NewToggles(true, true, true, true)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tg.Toggle(HealthBars)
		}()
	}
	wg.Wait()
	assert.True(t, tg.Enabled(HealthBars))
}

func TestLoop_TickPublishes(t *testing.T) {
	loop := NewLoop(sourceFunc(func() (entity.Snapshot, error) {
		return scenario(), nil
	}), allOn(), time.Millisecond, zerolog.Nop())

	require.NotNil(t, loop.Snapshot())
	assert.Empty(t, loop.Snapshot().Entities)

	require.NoError(t, loop.Tick())
	snap := loop.Snapshot()
	assert.Len(t, snap.Entities, 2)
	assert.Equal(t, uint64(1), snap.Cycle)
	assert.False(t, snap.TakenAt.IsZero())

	var dl DisplayList
	loop.Repaint(&dl, screenW, screenH)
	assert.Equal(t, 5, dl.Len())
}

func TestLoop_FailureKeepsPreviousSnapshot(t *testing.T) {
	boom := &entity.ChainError{Link: "world", Err: entity.ErrBadPointer}
	fail := false
	loop := NewLoop(sourceFunc(func() (entity.Snapshot, error) {
		if fail {
			return entity.Snapshot{}, boom
		}
		return scenario(), nil
	}), allOn(), time.Millisecond, zerolog.Nop())

	require.NoError(t, loop.Tick())
	before := loop.Snapshot()

	fail = true
	err := loop.Tick()
	assert.ErrorIs(t, err, entity.ErrBadPointer)
	assert.Same(t, before, loop.Snapshot())

	st := loop.Stats()
	assert.Equal(t, uint64(1), st.Cycles)
	assert.Equal(t, uint64(1), st.Failures)
	assert.Equal(t, 2, st.Entities)
	assert.False(t, st.LastSuccess.IsZero())
}

func TestLoop_TickRecoversPanic(t *testing.T) {
	loop := NewLoop(sourceFunc(func() (entity.Snapshot, error) {
		panic("torn read")
	}), allOn(), time.Millisecond, zerolog.Nop())

	err := loop.Tick()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "torn read")
	assert.Equal(t, uint64(1), loop.Stats().Failures)
}

// Two snapshots whose entity list and matrix must always be seen together.
func taggedSnapshot(tag float32) entity.Snapshot {
	m := geom.Identity()
	m[3] = tag
	return entity.Snapshot{
		Entities: []entity.Record{
			{Name: "tag", Position: geom.Vec3{X: tag}},
			{Name: "tag", Position: geom.Vec3{X: tag}},
		},
		Matrix: m,
	}
}

func TestLoop_SnapshotAtomicity(t *testing.T) {
	var n atomic.Int64
	loop := NewLoop(sourceFunc(func() (entity.Snapshot, error) {
		if n.Add(1)%2 == 0 {
			return taggedSnapshot(1), nil
		}
		return taggedSnapshot(2), nil
	}), allOn(), time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			loop.Tick()
		}
	}()

	mixed := atomic.Int64{}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				snap := loop.Snapshot()
				for _, e := range snap.Entities {
					if e.Position.X != snap.Matrix[3] {
						mixed.Add(1)
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, mixed.Load())
	assert.Greater(t, loop.Stats().Cycles, uint64(1))
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	var calls atomic.Int64
	loop := NewLoop(sourceFunc(func() (entity.Snapshot, error) {
		calls.Add(1)
		return scenario(), nil
	}), allOn(), time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatch_Check(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	stalled := check(Stats{}, start, start.Add(11*time.Second), 10*time.Second, log)
	assert.True(t, stalled)
	assert.Contains(t, buf.String(), "may be stuck")
	assert.Contains(t, buf.String(), "11 seconds ago")

	buf.Reset()
	st := Stats{Cycles: 5, LastSuccess: start.Add(9 * time.Second)}
	stalled = check(st, start, start.Add(10*time.Second), 10*time.Second, log)
	assert.False(t, stalled)
	assert.NotContains(t, buf.String(), "may be stuck")
}

func TestWatch_ReturnsOnCancel(t *testing.T) {
	loop := NewLoop(sourceFunc(func() (entity.Snapshot, error) {
		return entity.Snapshot{}, errors.New("not attached")
	}), allOn(), time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, Watch(ctx, loop, time.Millisecond, time.Millisecond, zerolog.Nop()))
}
