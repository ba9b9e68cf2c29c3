package viewer

import (
	"math"
	"testing"
	"time"

	"github.com/milk9111/gallerywalk/nav"
)

func testCamera() *Camera {
	return NewCamera(nav.GridConfig{OriginX: -15, OriginZ: -15, Width: 30, Length: 30, CellSize: 0.5}, 20, 10)
}

func TestCameraRoundTrip(t *testing.T) {
	c := testCamera()
	tests := []struct{ x, z float64 }{
		{-15, -15},
		{0, 0},
		{7.25, -3.5},
		{14.9, 14.9},
	}
	for _, tt := range tests {
		sx, sy := c.WorldToScreen(tt.x, tt.z)
		x, z := c.ScreenToWorld(float64(sx), float64(sy))
		if math.Abs(x-tt.x) > 1e-4 || math.Abs(z-tt.z) > 1e-4 {
			t.Fatalf("round trip (%v, %v) -> (%v, %v) -> (%v, %v)", tt.x, tt.z, sx, sy, x, z)
		}
	}
}

func TestCameraMapSize(t *testing.T) {
	w, h := testCamera().MapSize()
	if w != 620 || h != 620 {
		t.Fatalf("map size %dx%d, want 620x620", w, h)
	}
}

func TestCameraOnFloor(t *testing.T) {
	c := testCamera()
	tests := []struct {
		name   string
		sx, sy float64
		want   bool
	}{
		{"centre", 310, 310, true},
		{"first_pixel", 10, 10, true},
		{"margin", 5, 310, false},
		{"past_far_edge", 630, 310, false},
		{"far_edge", 610, 310, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.OnFloor(tt.sx, tt.sy); got != tt.want {
				t.Fatalf("OnFloor(%v, %v) = %v, want %v", tt.sx, tt.sy, got, tt.want)
			}
		})
	}
}

func TestPointerClickOrDrag(t *testing.T) {
	t0 := time.Unix(0, 0)
	tests := []struct {
		name  string
		moves [][2]float64
		held  time.Duration
		click bool
		turn  float64
	}{
		{"still_quick", nil, 50 * time.Millisecond, true, 0},
		{"small_jitter", [][2]float64{{102, 101}, {103, 99}}, 100 * time.Millisecond, true, 3},
		{"held_too_long", nil, 300 * time.Millisecond, false, 0},
		{"dragged", [][2]float64{{110, 100}, {130, 100}}, 50 * time.Millisecond, false, 30},
		{"dragged_back", [][2]float64{{120, 100}, {100, 100}}, 50 * time.Millisecond, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p pointer
			p.press(100, 100, t0)
			var turn float64
			for _, m := range tt.moves {
				turn += p.move(m[0], m[1])
			}
			if got := p.release(t0.Add(tt.held)); got != tt.click {
				t.Fatalf("click = %v, want %v", got, tt.click)
			}
			if turn != tt.turn {
				t.Fatalf("drag delta = %v, want %v", turn, tt.turn)
			}
		})
	}
}

func TestPointerIgnoresMovesWhenUp(t *testing.T) {
	var p pointer
	if d := p.move(50, 50); d != 0 {
		t.Fatalf("move without press = %v", d)
	}
	if p.release(time.Now()) {
		t.Fatalf("release without press should not click")
	}
}

func TestDeadzone(t *testing.T) {
	if deadzone(0.1) != 0 || deadzone(-0.15) != 0 {
		t.Fatalf("small stick values should be zeroed")
	}
	if deadzone(0.5) != 0.5 || deadzone(-1) != -1 {
		t.Fatalf("large stick values should pass through")
	}
}

func TestSchedulerRunsInOrder(t *testing.T) {
	var order []string
	step := func(name string) System {
		return SystemFunc(func(*Game) { order = append(order, name) })
	}

	s := NewScheduler(step("input"), step("sim"))
	s.Add(nil)
	s.Add(step("hud"))
	s.Update(nil)

	want := []string{"input", "sim", "hud"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("Systems() = %d entries", len(s.Systems()))
	}
}

func TestOnOff(t *testing.T) {
	if onOff("Tour", true) != "Tour: On" || onOff("Grid", false) != "Grid: Off" {
		t.Fatalf("unexpected labels")
	}
}
