package esp

import "sync/atomic"

// Feature identifies one display toggle.
type Feature int

const (
	EntityNames Feature = iota
	NPCNames
	HealthBars
	HealthValues

	numFeatures
)

// Features lists every toggle in settings-window order.
var Features = []Feature{EntityNames, NPCNames, HealthBars, HealthValues}

func (f Feature) String() string {
	switch f {
	case EntityNames:
		return "Show Entity Names"
	case NPCNames:
		return "Show NPC Names"
	case HealthBars:
		return "Show Health Bars"
	case HealthValues:
		return "Show Health Values"
	default:
		return "unknown"
	}
}

// Toggles are the display flags shared by the settings window, the hotkeys
// and the repaint pass. All methods are safe for concurrent use and never
// block.
type Toggles struct {
	flags [numFeatures]atomic.Bool
}

// NewToggles returns toggles with the given initial state.
func NewToggles(entityNames, npcNames, healthBars, healthValues bool) *Toggles {
	t := &Toggles{}
	t.flags[EntityNames].Store(entityNames)
	t.flags[NPCNames].Store(npcNames)
	t.flags[HealthBars].Store(healthBars)
	t.flags[HealthValues].Store(healthValues)
	return t
}

// Enabled reports the current state of f. Unknown features are off.
func (t *Toggles) Enabled(f Feature) bool {
	if f < 0 || f >= numFeatures {
		return false
	}
	return t.flags[f].Load()
}

// Set forces f to v.
func (t *Toggles) Set(f Feature, v bool) {
	if f < 0 || f >= numFeatures {
		return
	}
	t.flags[f].Store(v)
}

// Toggle flips f and returns the new state.
func (t *Toggles) Toggle(f Feature) bool {
	if f < 0 || f >= numFeatures {
		return false
	}
	for {
		old := t.flags[f].Load()
		if t.flags[f].CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (t *Toggles) ToggleEntityNames() bool  { return t.Toggle(EntityNames) }
func (t *Toggles) ToggleNPCNames() bool     { return t.Toggle(NPCNames) }
func (t *Toggles) ToggleHealthBars() bool   { return t.Toggle(HealthBars) }
func (t *Toggles) ToggleHealthValues() bool { return t.Toggle(HealthValues) }
