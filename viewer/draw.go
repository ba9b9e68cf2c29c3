package viewer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/gallerywalk/nav"
)

// gridLayer caches the floor image. It is redrawn only when the grid, the
// camera or the grid overlay toggle changes.
type gridLayer struct {
	img      *ebiten.Image
	grid     *nav.Grid
	camera   *Camera
	showGrid bool
}

func (l *gridLayer) invalidate() {
	l.grid = nil
}

func (l *gridLayer) image(g *Game) *ebiten.Image {
	grid := g.session.Grid()
	if l.img != nil && l.grid == grid && l.camera == g.camera && l.showGrid == g.showGrid {
		return l.img
	}

	w, h := g.camera.MapSize()
	if l.img == nil || l.img.Bounds().Dx() != w || l.img.Bounds().Dy() != h {
		l.img = ebiten.NewImage(w, h)
	}
	l.img.Clear()

	floor := g.spec.Palette.Floor.Or(colornames.Whitesmoke)
	blocked := g.spec.Palette.Blocked.Or(colornames.Lightcoral)

	cfg := grid.Config()
	x0, y0 := g.camera.WorldToScreen(cfg.OriginX, cfg.OriginZ)
	vector.FillRect(l.img, x0, y0, g.camera.Length(cfg.Width), g.camera.Length(cfg.Length), floor, false)

	if g.showGrid {
		size := g.camera.Length(grid.CellSize())
		for gz := 0; gz < grid.Height(); gz++ {
			for gx := 0; gx < grid.Width(); gx++ {
				if grid.Walkable(gx, gz) {
					continue
				}
				wx, wz := grid.GridToWorld(gx, gz)
				sx, sy := g.camera.WorldToScreen(wx, wz)
				vector.FillRect(l.img, sx, sy, size, size, blocked, false)
			}
		}
	}

	l.grid = grid
	l.camera = g.camera
	l.showGrid = g.showGrid
	return l.img
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.spec.Palette.Background.Or(colornames.Darkslategray))
	screen.DrawImage(g.grid.image(g), nil)

	g.drawWalls(screen)
	g.drawPath(screen)
	g.drawTarget(screen)
	g.drawAvatar(screen)

	g.hud.UI.Draw(screen)

	if g.status != "" {
		_, h := g.ScreenSize()
		ebitenutil.DebugPrintAt(screen, g.status, 8, h-20)
	}
}

func (g *Game) drawWalls(screen *ebiten.Image) {
	oracle := g.session.Oracle()
	if oracle == nil {
		return
	}
	fill := g.spec.Palette.Wall.Or(colornames.Dimgray)
	edge := color.RGBA{A: 0xff}
	for _, obs := range oracle.Obstacles() {
		x, y := g.camera.WorldToScreen(obs.Min.X(), obs.Min.Z())
		w := g.camera.Length(obs.Max.X() - obs.Min.X())
		h := g.camera.Length(obs.Max.Z() - obs.Min.Z())
		vector.FillRect(screen, x, y, w, h, fill, false)
		vector.StrokeRect(screen, x, y, w, h, 1, edge, false)
	}
}

func (g *Game) drawPath(screen *ebiten.Image) {
	path := g.session.Path()
	if len(path) == 0 {
		return
	}
	clr := g.spec.Palette.Path.Or(colornames.Royalblue)

	pos := g.session.Position()
	px, py := g.camera.WorldToScreen(pos.X(), pos.Z())
	for _, p := range path {
		x, y := g.camera.WorldToScreen(p.X(), p.Z())
		vector.StrokeLine(screen, px, py, x, y, 2, clr, true)
		vector.FillCircle(screen, x, y, 3, clr, true)
		px, py = x, y
	}
}

func (g *Game) drawTarget(screen *ebiten.Image) {
	if g.target == nil {
		return
	}
	clr := g.spec.Palette.Target.Or(colornames.Gold)
	x, y := g.camera.WorldToScreen(g.target.X(), g.target.Z())
	const arm = 6
	vector.StrokeLine(screen, x-arm, y-arm, x+arm, y+arm, 2, clr, true)
	vector.StrokeLine(screen, x-arm, y+arm, x+arm, y-arm, 2, clr, true)
}

func (g *Game) drawAvatar(screen *ebiten.Image) {
	clr := g.spec.Palette.Avatar.Or(colornames.Crimson)
	pos := g.session.Position()
	x, y := g.camera.WorldToScreen(pos.X(), pos.Z())
	r := max(g.camera.Length(g.session.Spec().Radius), 4)

	vector.FillCircle(screen, x, y, r, clr, true)

	f := g.session.Facing()
	fx, fy := float32(-math.Sin(f)), float32(-math.Cos(f))
	vector.StrokeLine(screen, x, y, x+fx*r*2, y+fy*r*2, 2, g.spec.Palette.Text.Or(colornames.White), true)
}
