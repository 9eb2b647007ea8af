package entity

import (
	"time"

	"mwoverlay/geom"
)

// Record é uma entidade lida do jogo
type Record struct {
	Name     string
	Position geom.Vec3
	// Health is nil for plain entities (doors, containers, statics).
	Health *float32
	// Address of the entity struct in the target, for diagnostics.
	Address uintptr
}

// IsNPC reports whether the record carries a health value.
func (r Record) IsNPC() bool {
	return r.Health != nil
}

// Snapshot is the result of one extraction cycle. It is never mutated after
// being handed to the overlay loop.
type Snapshot struct {
	Entities []Record
	Matrix   geom.Matrix4x4
	Cycle    uint64
	TakenAt  time.Time
	// Skipped counts entities dropped because one of their reads failed.
	Skipped int
}

// NPCs conta quantas entidades têm HP
func (s *Snapshot) NPCs() int {
	n := 0
	for _, r := range s.Entities {
		if r.IsNPC() {
			n++
		}
	}
	return n
}
