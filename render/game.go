// Package render draws the overlay with ebiten: a transparent, undecorated,
// always-on-top window laid over the game's client area that ignores the
// mouse.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/goregular"

	"mwoverlay/esp"
	"mwoverlay/overlay"
)

// WindowTitle is the overlay window's own title.
const WindowTitle = "mwoverlay"

// Game implements ebiten.Game. Update rebuilds the display list from the
// live snapshot at the repaint rate; Draw replays it.
type Game struct {
	ctx    context.Context
	loop   *esp.Loop
	follow *overlay.Follower
	face   *text.GoTextFace
	list   esp.DisplayList
	log    zerolog.Logger
}

func NewGame(ctx context.Context, loop *esp.Loop, follow *overlay.Follower, fontSize float64, log zerolog.Logger) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay font: %w", err)
	}
	return &Game{
		ctx:    ctx,
		loop:   loop,
		follow: follow,
		face:   &text.GoTextFace{Source: src, Size: fontSize},
		log:    log.With().Str("component", "render").Logger(),
	}, nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.follow.Poll(time.Now())

	area := g.follow.Area()
	g.list.Reset()
	g.loop.Repaint(&g.list, float64(area.Width), float64(area.Height))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.list.Replay(&screenCanvas{dst: screen, face: g.face})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	area := g.follow.Area()
	if area.Empty() {
		return outsideWidth, outsideHeight
	}
	return area.Width, area.Height
}

// screenCanvas is an esp.Canvas over an ebiten image.
type screenCanvas struct {
	dst  *ebiten.Image
	face *text.GoTextFace
}

func (c *screenCanvas) DrawText(x, y float64, s string, clr color.RGBA) {
	// esp positions are baselines; text.Draw positions the top of the line.
	top := y - c.face.Metrics().HAscent

	op := &text.DrawOptions{}
	op.GeoM.Translate(x+1, top+1)
	op.ColorScale.ScaleWithColor(esp.ColorTextShade)
	text.Draw(c.dst, s, c.face, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(x, top)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(c.dst, s, c.face, op)
}

func (c *screenCanvas) FillRect(x, y, w, h float64, clr color.RGBA) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// ApplyArea moves and resizes the overlay window onto area, given in
// physical pixels. (originX, originY) is the physical top-left corner of the
// monitor ebiten currently places the window on; ebiten takes positions and
// sizes in device-independent pixels relative to that monitor. Layout keeps
// returning the physical size, so one screen pixel is one game pixel.
func ApplyArea(area overlay.ClientArea, originX, originY int) {
	dip := area.Logical(originX, originY, ebiten.Monitor().DeviceScaleFactor())
	ebiten.SetWindowPosition(dip.Left, dip.Top)
	ebiten.SetWindowSize(dip.Width, dip.Height)
}

// TicksPerSecond converts the repaint period into an ebiten TPS.
func TicksPerSecond(period time.Duration) int {
	if period <= 0 {
		return ebiten.DefaultTPS
	}
	tps := int(time.Second / period)
	if tps < 1 {
		tps = 1
	}
	return tps
}

// Run opens the overlay window and blocks until ctx is done or the window
// is closed. place positions the window onto an area, the same func the
// follower applies. It must be called from the main goroutine.
func Run(g *Game, repaint time.Duration, place func(overlay.ClientArea)) error {
	area := g.follow.Area()

	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(true)
	ebiten.SetRunnableOnUnfocused(true)
	place(area)
	ebiten.SetTPS(TicksPerSecond(repaint))

	g.log.Info().Stringer("area", area).Int("tps", ebiten.TPS()).Msg("overlay window opening")
	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
		InitUnfocused:     true,
	})
	g.log.Info().Msg("overlay window closed")
	return err
}
