package tui

import (
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/gallerywalk/levels"
	"github.com/milk9111/gallerywalk/nav"
	"github.com/milk9111/gallerywalk/prefabs"
	"github.com/milk9111/gallerywalk/session"
	"github.com/milk9111/gallerywalk/tour"
)

func newTestApp(t *testing.T, tr *tour.Tour) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	lvl, err := levels.Load(levels.DefaultLevel)
	if err != nil {
		t.Fatalf("load gallery: %v", err)
	}
	s := session.New(prefabs.DefaultAvatarSpec(), nil)
	s.LoadLevel(lvl)

	a := New(screen, s, tr)
	t0 := time.Unix(1000, 0)
	a.now = func() time.Time { return t0 }
	return a, screen
}

func TestViewRoundTrip(t *testing.T) {
	v := newView(nav.GridConfig{OriginX: -15, OriginZ: -15, Width: 30, Length: 30}, 80, 22)
	if v.rows != 22 {
		t.Fatalf("rows = %d, want the full height", v.rows)
	}
	if v.cols > 80 {
		t.Fatalf("cols = %d overflow the screen", v.cols)
	}
	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			x, z, ok := v.cellToWorld(col, row)
			if !ok {
				t.Fatalf("cell (%d, %d) should be on the map", col, row)
			}
			c, r, ok := v.worldToCell(x, z)
			if !ok || c != col || r != row {
				t.Fatalf("(%d, %d) -> (%v, %v) -> (%d, %d, %v)", col, row, x, z, c, r, ok)
			}
		}
	}
	if _, _, ok := v.cellToWorld(-1, 0); ok {
		t.Fatalf("negative column should be off the map")
	}
	if _, _, ok := v.worldToCell(100, 0); ok {
		t.Fatalf("far point should be off the map")
	}
}

func TestKeyLatch(t *testing.T) {
	var k keyLatch
	t0 := time.Unix(0, 0)

	k.press(dirForward, t0)
	if c := k.controls(t0.Add(100 * time.Millisecond)); !c.Forward {
		t.Fatalf("forward should be held right after a press")
	}
	if c := k.controls(t0.Add(keyHold)); c.Forward {
		t.Fatalf("forward should be released after %v", keyHold)
	}

	k.press(dirLeft, t0)
	k.press(dirRight, t0)
	if c := k.controls(t0); c.Left || !c.Right {
		t.Fatalf("opposite key should cancel, got %+v", c)
	}
}

func TestFacingGlyph(t *testing.T) {
	tests := []struct {
		facing float64
		want   rune
	}{
		{0, '^'},
		{math.Pi / 2, '<'},
		{math.Pi, 'v'},
		{-math.Pi / 2, '>'},
		{0.3, '^'},
		{2 * math.Pi, '^'},
	}
	for _, tt := range tests {
		if got := facingGlyph(tt.facing); got != tt.want {
			t.Fatalf("facingGlyph(%v) = %q, want %q", tt.facing, got, tt.want)
		}
	}
}

func TestDrawShowsAvatarAndStatus(t *testing.T) {
	a, screen := newTestApp(t, nil)
	a.Draw()

	v := a.view()
	pos := a.session.Position()
	col, row, ok := v.worldToCell(pos.X(), pos.Z())
	if !ok {
		t.Fatalf("spawn should be on screen")
	}
	if r, _, _, _ := screen.GetContent(col, row); r != '^' {
		t.Fatalf("avatar cell = %q, want '^'", r)
	}

	wallCol, wallRow, _ := v.worldToCell(-15, 0)
	if r, _, _, _ := screen.GetContent(wallCol, wallRow); r != '#' {
		t.Fatalf("outer wall cell = %q, want '#'", r)
	}

	if r, _, _, _ := screen.GetContent(0, v.rows); r != 'f' {
		t.Fatalf("status line should start with the mode, got %q", r)
	}
}

func TestKeysDriveFreeMove(t *testing.T) {
	a, _ := newTestApp(t, nil)
	start := a.session.Position()

	if !a.HandleEvent(tcell.NewEventResize(80, 24)) {
		t.Fatalf("resize should not quit")
	}
	a.handleKey(tcell.KeyRune, 'w')
	a.Step(0.1)

	moved := a.session.Position()
	if moved.Z() >= start.Z() || math.Abs(moved.X()-start.X()) > 1e-9 {
		t.Fatalf("w at facing 0 should walk toward -z, %v -> %v", start, moved)
	}

	a.handleKey(tcell.KeyRune, 'q')
	a.Step(0)
	if math.Abs(a.session.Facing()-turnStep) > 1e-9 {
		t.Fatalf("q should turn left by %v, facing %v", turnStep, a.session.Facing())
	}
}

func TestClickRequestsMove(t *testing.T) {
	a, _ := newTestApp(t, nil)
	col, row, ok := a.view().worldToCell(10, 0)
	if !ok {
		t.Fatalf("east room should be on screen")
	}
	a.handleClick(col, row)
	if !a.session.Following() {
		t.Fatalf("click should start a walk, status %q", a.status)
	}

	a.handleClick(col, row)
	if a.status != "already walking, Esc to stop" {
		t.Fatalf("second click status = %q", a.status)
	}

	a.handleKey(tcell.KeyEscape, 0)
	if a.session.Following() {
		t.Fatalf("Esc should stop the walk")
	}
	if a.handleKey(tcell.KeyCtrlC, 0) {
		t.Fatalf("Ctrl-C should quit")
	}
}

func TestTourToggle(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.handleKey(tcell.KeyRune, 't')
	if a.touring || a.status != "no tour loaded" {
		t.Fatalf("toggle without a tour: touring %v, status %q", a.touring, a.status)
	}

	tr := tour.New("short", []tour.Stop{{Name: "near", X: 0, Z: 11}}, false)
	a, _ = newTestApp(t, tr)
	a.handleKey(tcell.KeyRune, 't')
	if !a.touring {
		t.Fatalf("tour should start")
	}
	for i := 0; i < 2000 && a.touring; i++ {
		a.Step(1.0 / 60)
	}
	if a.touring || a.status != "tour finished" {
		t.Fatalf("tour should finish, status %q", a.status)
	}
	p := a.session.Position()
	if math.Hypot(p.X(), p.Z()-11) > a.session.Spec().ArrivalThreshold+1e-9 {
		t.Fatalf("tour ended at %v, want near (0, 11)", p)
	}
}
