package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mwoverlay/config"
	"mwoverlay/geom"
	"mwoverlay/memory"
)

var (
	// ErrBadPointer marks a chain link that is null or outside user space.
	ErrBadPointer = errors.New("invalid pointer")
	// ErrBadCount marks an entity count outside [0, MaxEntities].
	ErrBadCount = errors.New("entity count out of range")
)

// ChainError reports a failure while walking a root pointer chain. The
// whole cycle is abandoned.
type ChainError struct {
	Link string
	Addr uintptr
	Err  error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("pointer chain broken at %s (0x%X): %v", e.Link, e.Addr, e.Err)
}

func (e *ChainError) Unwrap() error { return e.Err }

// Extractor rebuilds a Snapshot from the target's memory. Nothing is cached
// between calls: every pointer is re-derived each cycle.
type Extractor struct {
	mem     memory.Reader
	base    uintptr
	offsets config.Offsets
	log     zerolog.Logger
	now     func() time.Time
}

func NewExtractor(mem memory.Reader, base uintptr, offsets config.Offsets, log zerolog.Logger) *Extractor {
	return &Extractor{
		mem:     mem,
		base:    base,
		offsets: offsets,
		log:     log.With().Str("component", "extractor").Logger(),
		now:     time.Now,
	}
}

// follow reads the pointer at addr and rejects null or out-of-range values.
func (x *Extractor) follow(link string, addr uintptr) (uintptr, error) {
	p, err := memory.ReadPtr(x.mem, addr)
	if err != nil {
		return 0, &ChainError{Link: link, Addr: addr, Err: err}
	}
	if !memory.IsValidPtr(p) {
		return 0, &ChainError{Link: link, Addr: addr, Err: fmt.Errorf("%w: 0x%X", ErrBadPointer, p)}
	}
	return p, nil
}

func (x *Extractor) entityList() (array uintptr, count int, err error) {
	o := x.offsets

	world, err := x.follow("world", x.base+o.World)
	if err != nil {
		return 0, 0, err
	}
	cells, err := x.follow("cell list", world+o.CellList)
	if err != nil {
		return 0, 0, err
	}
	active, err := x.follow("active cells", cells+o.ActiveCells)
	if err != nil {
		return 0, 0, err
	}

	n, err := memory.ReadI32(x.mem, active+o.Count)
	if err != nil {
		return 0, 0, &ChainError{Link: "count", Addr: active + o.Count, Err: err}
	}
	if n < 0 || int(n) > o.MaxEntities {
		return 0, 0, &ChainError{Link: "count", Addr: active + o.Count, Err: fmt.Errorf("%w: %d", ErrBadCount, n)}
	}
	if n == 0 {
		return 0, 0, nil
	}

	array, err = x.follow("entity array", active+o.Array)
	if err != nil {
		return 0, 0, err
	}
	return array, int(n), nil
}

func (x *Extractor) viewMatrix() (geom.Matrix4x4, error) {
	o := x.offsets

	world, err := x.follow("world", x.base+o.World)
	if err != nil {
		return geom.Matrix4x4{}, err
	}
	camera, err := x.follow("camera", world+o.Camera)
	if err != nil {
		return geom.Matrix4x4{}, err
	}
	m, err := memory.ReadMatrix(x.mem, camera+o.ViewMatrix)
	if err != nil {
		return geom.Matrix4x4{}, &ChainError{Link: "view matrix", Addr: camera + o.ViewMatrix, Err: err}
	}
	return m, nil
}

// Extract walks both root chains and every entity slot. A broken chain
// returns a *ChainError and no snapshot; a failing entity is skipped and
// counted in Snapshot.Skipped.
func (x *Extractor) Extract() (Snapshot, error) {
	array, count, err := x.entityList()
	if err != nil {
		return Snapshot{}, err
	}
	matrix, err := x.viewMatrix()
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Entities: make([]Record, 0, count),
		Matrix:   matrix,
		TakenAt:  x.now(),
	}
	for i := 0; i < count; i++ {
		slot := array + uintptr(i*memory.SizePtr)
		addr, err := memory.ReadPtr(x.mem, slot)
		if err != nil {
			snap.Skipped++
			x.log.Trace().Err(err).Int("index", i).Msg("slot read failed")
			continue
		}
		if addr == 0 {
			continue
		}

		rec, keep, err := x.readEntity(addr)
		if err != nil {
			snap.Skipped++
			x.log.Trace().Err(err).Int("index", i).Msgf("entity 0x%X skipped", addr)
			continue
		}
		if keep {
			snap.Entities = append(snap.Entities, rec)
		}
	}
	return snap, nil
}

func (x *Extractor) readEntity(addr uintptr) (Record, bool, error) {
	o := x.offsets

	if !memory.IsValidPtr(addr) {
		return Record{}, false, fmt.Errorf("entity: %w: 0x%X", ErrBadPointer, addr)
	}

	namePtr, err := memory.ReadPtr(x.mem, addr+o.Name)
	if err != nil {
		return Record{}, false, err
	}
	if !memory.IsValidPtr(namePtr) {
		return Record{}, false, fmt.Errorf("name: %w: 0x%X", ErrBadPointer, namePtr)
	}
	raw, err := memory.ReadString(x.mem, namePtr, o.NameSize)
	if err != nil {
		return Record{}, false, err
	}
	name, ok := CleanName(raw, o.NameSize)
	if !ok {
		return Record{}, false, nil
	}

	pos, err := memory.ReadVec3(x.mem, addr+o.Position)
	if err != nil {
		return Record{}, false, err
	}

	rec := Record{Name: name, Position: pos, Address: addr}

	healthPtr, err := memory.ReadPtr(x.mem, addr+o.HealthPtr)
	if err != nil {
		return Record{}, false, err
	}
	if healthPtr != 0 {
		h, err := memory.ReadF32(x.mem, healthPtr+o.Health)
		if err != nil {
			return Record{}, false, err
		}
		rec.Health = &h
	}
	return rec, true, nil
}

// Link is one step of a root pointer chain, for diagnostics.
type Link struct {
	Name  string
	Addr  uintptr
	Value uintptr
	Err   error
}

// Trace walks both root chains and reports each link, stopping a chain at
// its first failure. It never aborts early the way Extract does.
func (x *Extractor) Trace() []Link {
	o := x.offsets
	var links []Link

	step := func(name string, addr uintptr) (uintptr, bool) {
		v, err := x.follow(name, addr)
		links = append(links, Link{Name: name, Addr: addr, Value: v, Err: err})
		return v, err == nil
	}

	if world, ok := step("world", x.base+o.World); ok {
		if cells, ok := step("cell list", world+o.CellList); ok {
			if active, ok := step("active cells", cells+o.ActiveCells); ok {
				n, err := memory.ReadI32(x.mem, active+o.Count)
				links = append(links, Link{Name: "count", Addr: active + o.Count, Value: uintptr(uint32(n)), Err: err})
				step("entity array", active+o.Array)
			}
		}
		step("camera", world+o.Camera)
	}
	return links
}
