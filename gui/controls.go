package gui

import "mwoverlay/esp"

// First checkbox control ID; the rest follow in esp.Features order.
const IDC_CHECK_BASE = 2001

// Control is one settings checkbox. Each control is bound to exactly one
// display toggle.
type Control struct {
	ID      int
	Label   string
	Feature esp.Feature

	toggles *esp.Toggles
}

// Toggle flips the bound toggle and returns its new state.
func (c Control) Toggle() bool {
	return c.toggles.Toggle(c.Feature)
}

// Checked reports the bound toggle's current state.
func (c Control) Checked() bool {
	return c.toggles.Enabled(c.Feature)
}

// Controls builds the settings controls for t, one per feature.
func Controls(t *esp.Toggles) []Control {
	controls := make([]Control, 0, len(esp.Features))
	for i, f := range esp.Features {
		controls = append(controls, Control{
			ID:      IDC_CHECK_BASE + i,
			Label:   f.String(),
			Feature: f,
			toggles: t,
		})
	}
	return controls
}

// ControlByID finds the control with the given ID.
func ControlByID(controls []Control, id int) (Control, bool) {
	for _, c := range controls {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}
