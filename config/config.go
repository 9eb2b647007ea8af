package config

import "fmt"

// ============================================================
// MORROWIND MEMORY OFFSETS
// ============================================================
//
// Offsets are pinned to one build of the executable. Nothing here is
// derived or validated at runtime: a new build means a new table.

// Offsets is the full set of pointer-chain constants for one build.
type Offsets struct {
	// ===== ROOT (module base + offset) =====
	World uintptr // [base + World] = world/data handler

	// ===== ENTITY LIST CHAIN =====
	// [World] -> [+CellList] -> [+ActiveCells] -> {+Count, +Array}
	CellList    uintptr
	ActiveCells uintptr
	Count       uintptr // int32 entity count
	Array       uintptr // pointer to array of 4-byte entity pointers

	// ===== VIEW MATRIX CHAIN =====
	// [World] -> [+Camera] -> +ViewMatrix (16 x float32)
	Camera     uintptr
	ViewMatrix uintptr

	// ===== ENTITY STRUCT =====
	Name      uintptr // pointer to char[NameSize]
	Position  uintptr // 3 x float32
	HealthPtr uintptr // pointer to stats block, NULL for non-actors
	Health    uintptr // float32 inside the stats block

	NameSize    int // bytes read for a name
	MaxEntities int // counts above this are treated as a torn read
}

// Build names.
const (
	BuildMorrowind1820 = "morrowind-1.6.1820"
)

// DefaultBuild is used when no build is configured.
const DefaultBuild = BuildMorrowind1820

// Builds maps a build name to its offset table.
var Builds = map[string]Offsets{
	BuildMorrowind1820: {
		World: 0x3C67DC,

		CellList:    0x32C,
		ActiveCells: 0x14,
		Count:       0x98,
		Array:       0x94,

		Camera:     0x134,
		ViewMatrix: 0x90,

		Name:      0x8,
		Position:  0x64,
		HealthPtr: 0x84,
		Health:    0x2BC,

		NameSize:    32,
		MaxEntities: 8192,
	},
}

// LookupOffsets returns the offset table registered for build.
func LookupOffsets(build string) (Offsets, error) {
	o, ok := Builds[build]
	if !ok {
		return Offsets{}, fmt.Errorf("no offset table for build %q", build)
	}
	return o, nil
}
