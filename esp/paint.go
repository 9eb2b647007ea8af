package esp

import (
	"fmt"
	"image/color"

	"mwoverlay/entity"
	"mwoverlay/geom"
)

// Cores
var (
	ColorText      = color.RGBA{255, 255, 255, 255}
	ColorBarBack   = color.RGBA{0, 0, 0, 255}
	ColorBarFill   = color.RGBA{0, 255, 0, 255}
	ColorTextShade = color.RGBA{0, 0, 0, 255}
)

// Layout relative to the projected entity position, in pixels.
const (
	NameOffsetX = 10
	NameOffsetY = -45
	HPOffsetX   = 10
	HPOffsetY   = -30

	BarWidth   = 50
	BarHeight  = 5
	BarOffsetY = 10

	// Health value drawn as a full bar.
	FullHealth = 100
)

// Paint draws the annotations for every visible record of snap.
func Paint(c Canvas, snap *entity.Snapshot, t *Toggles, width, height float64) {
	if snap == nil {
		return
	}
	for i := range snap.Entities {
		rec := &snap.Entities[i]
		p, ok := geom.Project(rec.Position, snap.Matrix, width, height)
		if !ok {
			continue
		}
		paintRecord(c, rec, p, t)
	}
}

func paintRecord(c Canvas, rec *entity.Record, p geom.ScreenPoint, t *Toggles) {
	npc := rec.IsNPC()

	if (!npc && t.Enabled(EntityNames)) || (npc && t.Enabled(NPCNames)) {
		at := p.Add(NameOffsetX, NameOffsetY)
		c.DrawText(at.X, at.Y, rec.Name, ColorText)
	}
	if !npc {
		return
	}

	health := *rec.Health
	if t.Enabled(HealthBars) {
		x := float64(int(p.X - BarWidth/2))
		y := float64(int(p.Y + BarOffsetY))
		c.FillRect(x, y, BarWidth, BarHeight, ColorBarBack)
		if fill := BarFill(health); fill > 0 {
			c.FillRect(x, y, float64(fill), BarHeight, ColorBarFill)
		}
	}
	if t.Enabled(HealthValues) {
		at := p.Add(HPOffsetX, HPOffsetY)
		c.DrawText(at.X, at.Y, FormatHealth(health), ColorText)
	}
}

// BarFill returns the filled width of the health bar, clamped to
// [0, BarWidth]. NaN counts as empty.
func BarFill(health float32) int {
	ratio := float64(health) / FullHealth
	if !(ratio > 0) {
		return 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(ratio * BarWidth)
}

func FormatHealth(health float32) string {
	return fmt.Sprintf("HP: %.1f", health)
}
