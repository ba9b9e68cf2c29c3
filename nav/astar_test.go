package nav

import (
	"reflect"
	"testing"
)

func pathCost(t *testing.T, path []GridPos) int {
	t.Helper()
	total := 0
	for i := 1; i < len(path); i++ {
		dx := path[i].X - path[i-1].X
		dz := path[i].Z - path[i-1].Z
		switch {
		case dx == 0 && dz == 0:
			t.Fatalf("repeated cell at %d: %+v", i, path[i])
		case dx < -1 || dx > 1 || dz < -1 || dz > 1:
			t.Fatalf("non-adjacent step %+v -> %+v", path[i-1], path[i])
		case dx != 0 && dz != 0:
			total += diagonalCost
		default:
			total += orthogonalCost
		}
	}
	return total
}

func TestFindCellPathOpenGrid(t *testing.T) {
	g := NewGrid(testGridConfig(), nil)

	cases := []struct {
		name       string
		start, end GridPos
	}{
		{"straight", GridPos{X: 2, Z: 2}, GridPos{X: 9, Z: 2}},
		{"diagonal", GridPos{X: 0, Z: 0}, GridPos{X: 6, Z: 6}},
		{"mixed", GridPos{X: 0, Z: 0}, GridPos{X: 5, Z: 3}},
		{"backwards", GridPos{X: 30, Z: 12}, GridPos{X: 4, Z: 20}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := g.FindCellPath(c.start, c.end)
			if len(path) == 0 {
				t.Fatalf("expected a path")
			}
			if path[0] != c.start || path[len(path)-1] != c.end {
				t.Fatalf("path endpoints %+v..%+v", path[0], path[len(path)-1])
			}
			if got, want := pathCost(t, path), octileDistance(c.start, c.end); got != want {
				t.Fatalf("path cost %d, want optimal %d", got, want)
			}
		})
	}
}

func TestFindCellPathSameCell(t *testing.T) {
	g := NewGrid(testGridConfig(), nil)
	p := GridPos{X: 7, Z: 3}
	path := g.FindCellPath(p, p)
	if len(path) != 1 || path[0] != p {
		t.Fatalf("expected single-cell path, got %+v", path)
	}
}

func TestFindCellPathRefusesBlockedEndpoints(t *testing.T) {
	oracle := NewOracle([]Obstacle{wall(-1, -1, 1, 1)}, testProbeY, testProbeHalfY)
	g := NewGrid(testGridConfig(), oracle)
	blocked := g.WorldToGrid(0, 0)
	open := GridPos{X: 0, Z: 0}

	if path := g.FindCellPath(blocked, open); path != nil {
		t.Fatalf("blocked start should fail, got %+v", path)
	}
	if path := g.FindCellPath(open, blocked); path != nil {
		t.Fatalf("blocked goal should fail, got %+v", path)
	}
	if path := g.FindCellPath(open, GridPos{X: -3, Z: 2}); path != nil {
		t.Fatalf("out-of-bounds goal should fail, got %+v", path)
	}
}

func TestFindCellPathAroundWall(t *testing.T) {
	oracle := NewOracle([]Obstacle{wall(-0.15, -10, 0.15, 6)}, testProbeY, testProbeHalfY)
	g := NewGrid(testGridConfig(), oracle)
	start := g.WorldToGrid(-5, 0)
	goal := g.WorldToGrid(5, 0)

	path := g.FindCellPath(start, goal)
	if path == nil {
		t.Fatalf("expected a path through the gap")
	}
	pathCost(t, path)
	for _, p := range path {
		if !g.Walkable(p.X, p.Z) {
			t.Fatalf("path crosses blocked cell %+v", p)
		}
	}
	gap := g.WorldToGrid(0, 6)
	crossed := false
	for _, p := range path {
		if p.Z > gap.Z {
			crossed = true
		}
	}
	if !crossed {
		t.Fatalf("path should pass above the wall end, got %+v", path)
	}
}

func TestFindCellPathEnclosedGoal(t *testing.T) {
	oracle := NewOracle([]Obstacle{
		wall(3, 3, 7, 3.3),
		wall(3, 6.7, 7, 7),
		wall(3, 3, 3.3, 7),
		wall(6.7, 3, 7, 7),
	}, testProbeY, testProbeHalfY)
	g := NewGrid(testGridConfig(), oracle)
	goal := g.WorldToGrid(5, 5)
	if !g.Walkable(goal.X, goal.Z) {
		t.Fatalf("room interior should be walkable")
	}

	if path := g.FindCellPath(g.WorldToGrid(-5, -5), goal); path != nil {
		t.Fatalf("enclosed goal should be unreachable, got %d cells", len(path))
	}
}

func TestFindCellPathRepeatable(t *testing.T) {
	obstacles := []Obstacle{wall(-0.15, -10, 0.15, 6), wall(-6, 3, -2, 3.3)}
	oracle := NewOracle(obstacles, testProbeY, testProbeHalfY)

	reused := NewGrid(testGridConfig(), oracle)
	reused.FindCellPath(reused.WorldToGrid(-8, -8), reused.WorldToGrid(8, 8))
	got := reused.FindCellPath(reused.WorldToGrid(-5, 0), reused.WorldToGrid(5, -2))

	fresh := NewGrid(testGridConfig(), oracle)
	want := fresh.FindCellPath(fresh.WorldToGrid(-5, 0), fresh.WorldToGrid(5, -2))

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("search on a reused grid differs from a fresh one:\n got %+v\nwant %+v", got, want)
	}
}
