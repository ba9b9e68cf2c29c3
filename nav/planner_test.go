package nav

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestPlanner(obstacles ...Obstacle) (*Oracle, *Planner) {
	oracle := NewOracle(obstacles, testProbeY, testProbeHalfY)
	grid := NewGrid(testGridConfig(), oracle)
	return oracle, NewPlanner(grid, oracle, PlannerConfig{Clearance: testClearance})
}

func assertTraversable(t *testing.T, p *Planner, path []mgl64.Vec3) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		if !p.IsDirectPathClear(path[i-1], path[i]) {
			t.Fatalf("segment %d %v -> %v is obstructed", i, path[i-1], path[i])
		}
	}
}

func TestPlannerDefaults(t *testing.T) {
	_, p := newTestPlanner()
	cfg := p.Config()
	if cfg.SampleStep != 0.2 || cfg.RecoveryRings != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFindPathOpenRoomIsDirect(t *testing.T) {
	_, p := newTestPlanner(wall(-9, 8, 9, 8.3))
	start := mgl64.Vec3{0, 1.7, 0}
	target := mgl64.Vec3{5, 1.7, 5}

	path := p.FindPath(start, target)
	if len(path) != 2 || path[0] != start || path[1] != target {
		t.Fatalf("expected [start, target], got %v", path)
	}
}

func TestFindPathAroundWall(t *testing.T) {
	_, p := newTestPlanner(wall(-0.15, -10, 0.15, 6))
	start := mgl64.Vec3{-5, 1.7, 0}
	target := mgl64.Vec3{5, 1.7, 0}

	if p.IsDirectPathClear(start, target) {
		t.Fatalf("wall should block the straight line")
	}
	path := p.FindPath(start, target)
	if len(path) < 3 {
		t.Fatalf("expected a detour, got %v", path)
	}
	if path[0] != start || path[len(path)-1] != target {
		t.Fatalf("path should run from start to target, got %v", path)
	}
	assertTraversable(t, p, path)

	passedGap := false
	for _, wp := range path {
		if wp.Y() != start.Y() {
			t.Fatalf("waypoint %v left the start height", wp)
		}
		if wp.Z() > 6 {
			passedGap = true
		}
	}
	if !passedGap {
		t.Fatalf("detour should round the wall end, got %v", path)
	}

	if again := p.Simplify(path); len(again) != len(path) {
		t.Fatalf("simplifying twice changed the path: %v -> %v", path, again)
	}
}

func TestFindPathEnclosedTarget(t *testing.T) {
	_, p := newTestPlanner(
		wall(3, 3, 7, 3.3),
		wall(3, 6.7, 7, 7),
		wall(3, 3, 3.3, 7),
		wall(6.7, 3, 7, 7),
	)
	if path := p.FindPath(mgl64.Vec3{-5, 0, -5}, mgl64.Vec3{5, 0, 5}); path != nil {
		t.Fatalf("expected no path into a sealed room, got %v", path)
	}
}

func TestFindPathRecoversBlockedStart(t *testing.T) {
	oracle, p := newTestPlanner(wall(-1, -1, 1, 1))
	start := mgl64.Vec3{0, 0, 0}
	target := mgl64.Vec3{5, 0, 5}

	path := p.FindPath(start, target)
	if len(path) < 3 {
		t.Fatalf("expected requested start, recovered point and target, got %v", path)
	}
	if path[0] != start {
		t.Fatalf("requested start should be kept first, got %v", path[0])
	}
	if !oracle.IsWalkable(path[1].X(), path[1].Z(), testClearance) {
		t.Fatalf("recovered point %v is not walkable", path[1])
	}
	if path[len(path)-1] != target {
		t.Fatalf("path should end on target, got %v", path[len(path)-1])
	}
	assertTraversable(t, p, path[1:])
}

func TestFindPathRecoversBlockedTarget(t *testing.T) {
	oracle, p := newTestPlanner(wall(4, 4, 6, 6))
	start := mgl64.Vec3{-5, 0, -5}
	target := mgl64.Vec3{5, 0, 5}

	path := p.FindPath(start, target)
	if len(path) < 2 {
		t.Fatalf("expected a path to a point near the pillar, got %v", path)
	}
	if path[0] != start {
		t.Fatalf("walkable start should not move, got %v", path[0])
	}
	end := path[len(path)-1]
	if !oracle.IsWalkable(end.X(), end.Z(), testClearance) {
		t.Fatalf("recovered target %v is not walkable", end)
	}
	if d := end.Sub(target).Len(); d > 3 {
		t.Fatalf("recovered target %v is %.2f from the request", end, d)
	}
	assertTraversable(t, p, path)
}

func TestFindPathRecoveryGivesUp(t *testing.T) {
	_, p := newTestPlanner(wall(-5, -5, 5, 5))
	if path := p.FindPath(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{8, 0, 8}); path != nil {
		t.Fatalf("start buried deeper than the ring search should fail, got %v", path)
	}
	if _, ok := p.NearestWalkable(mgl64.Vec3{0, 0, 0}); ok {
		t.Fatalf("NearestWalkable should fail inside a large block")
	}
	if got, ok := p.NearestWalkable(mgl64.Vec3{8, 0, 8}); !ok || got != (mgl64.Vec3{8, 0, 8}) {
		t.Fatalf("walkable point should come back unchanged, got %v %v", got, ok)
	}
}

func TestSimplify(t *testing.T) {
	_, p := newTestPlanner(wall(-0.15, -10, 0.15, 6))

	cases := []struct {
		name string
		in   []mgl64.Vec3
		want []mgl64.Vec3
	}{
		{
			name: "collinear_open",
			in:   []mgl64.Vec3{{-8, 0, 8}, {-6, 0, 8}, {-4, 0, 8}, {-2, 0, 8}},
			want: []mgl64.Vec3{{-8, 0, 8}, {-2, 0, 8}},
		},
		{
			name: "corner_kept",
			in:   []mgl64.Vec3{{-5, 0, 0}, {-3, 0, 4}, {-1, 0, 7.5}, {1, 0, 7.5}, {3, 0, 4}, {5, 0, 0}},
			want: []mgl64.Vec3{{-5, 0, 0}, {-1, 0, 7.5}, {1, 0, 7.5}, {5, 0, 0}},
		},
		{
			name: "short_untouched",
			in:   []mgl64.Vec3{{-5, 0, 0}, {5, 0, 0}},
			want: []mgl64.Vec3{{-5, 0, 0}, {5, 0, 0}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := p.Simplify(c.in)
			if len(got) != len(c.want) {
				t.Fatalf("Simplify() = %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("Simplify()[%d] = %v, want %v", i, got[i], c.want[i])
				}
			}
			if again := p.Simplify(got); len(again) != len(got) {
				t.Fatalf("Simplify is not idempotent: %v -> %v", got, again)
			}
		})
	}
}

func TestIsDirectPathClearShortSegment(t *testing.T) {
	_, p := newTestPlanner(wall(-0.15, -10, 0.15, 6))
	// Shorter than two sample steps: no interior sample exists.
	if !p.IsDirectPathClear(mgl64.Vec3{-0.1, 0, 0}, mgl64.Vec3{0.1, 0, 0}) {
		t.Fatalf("segment with no interior samples should be clear")
	}
	if p.IsDirectPathClear(mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("segment through the wall should be blocked")
	}
}
