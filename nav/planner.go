package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// PlannerConfig tunes the path planner.
type PlannerConfig struct {
	// Clearance is avatar radius plus safety buffer.
	Clearance float64
	// SampleStep is the distance between samples on a straight segment.
	SampleStep float64
	// RecoveryRings bounds the ring search for a nearby walkable cell.
	RecoveryRings int
}

// Planner computes world-space routes over a Grid.
type Planner struct {
	grid *Grid
	walk Walkability
	cfg  PlannerConfig
}

func NewPlanner(grid *Grid, walk Walkability, cfg PlannerConfig) *Planner {
	if cfg.SampleStep <= 0 {
		cfg.SampleStep = 0.2
	}
	if cfg.RecoveryRings <= 0 {
		cfg.RecoveryRings = 5
	}
	return &Planner{grid: grid, walk: walk, cfg: cfg}
}

func (p *Planner) Grid() *Grid { return p.grid }

func (p *Planner) Config() PlannerConfig { return p.cfg }

// FindPath returns waypoints from start to target, or nil when no route
// exists. When start had to be moved onto walkable ground the requested start
// is kept as the first waypoint.
func (p *Planner) FindPath(start, target mgl64.Vec3) []mgl64.Vec3 {
	if p == nil || p.grid == nil {
		return nil
	}
	from, movedStart, ok := p.recoverPoint(start)
	if !ok {
		return nil
	}
	to, _, ok := p.recoverPoint(target)
	if !ok {
		return nil
	}

	var path []mgl64.Vec3
	if p.IsDirectPathClear(from, to) {
		path = []mgl64.Vec3{from, to}
	} else {
		path = p.gridPath(from, to)
		if path == nil {
			return nil
		}
		path = p.Simplify(path)
	}

	if movedStart {
		path = append([]mgl64.Vec3{start}, path...)
	}
	return path
}

// IsDirectPathClear samples the segment a→b every SampleStep and reports
// whether every interior sample is walkable at the planner clearance.
func (p *Planner) IsDirectPathClear(a, b mgl64.Vec3) bool {
	from := cp.Vector{X: a.X(), Y: a.Z()}
	to := cp.Vector{X: b.X(), Y: b.Z()}
	steps := int(math.Ceil(from.Distance(to) / p.cfg.SampleStep))
	if steps < 2 {
		return true
	}
	dir := to.Sub(from).Normalize()
	for i := 1; i < steps; i++ {
		pt := from.Add(dir.Mult(p.cfg.SampleStep * float64(i)))
		if !p.walk.IsWalkable(pt.X, pt.Y, p.cfg.Clearance) {
			return false
		}
	}
	return true
}

// Simplify pulls the path taut: from each kept waypoint it jumps to the
// furthest later waypoint with a clear straight line.
func (p *Planner) Simplify(path []mgl64.Vec3) []mgl64.Vec3 {
	if len(path) <= 2 {
		return append([]mgl64.Vec3(nil), path...)
	}
	out := []mgl64.Vec3{path[0]}
	last := len(path) - 1
	for cur := 0; cur < last; {
		next := cur + 1
		for j := last; j > cur+1; j-- {
			if p.IsDirectPathClear(path[cur], path[j]) {
				next = j
				break
			}
		}
		if path[next] != out[len(out)-1] {
			out = append(out, path[next])
		}
		cur = next
	}
	return out
}

// NearestWalkable returns pt unchanged if it is walkable, otherwise the
// nearest walkable cell center found within the recovery rings.
func (p *Planner) NearestWalkable(pt mgl64.Vec3) (mgl64.Vec3, bool) {
	out, _, ok := p.recoverPoint(pt)
	return out, ok
}

func (p *Planner) recoverPoint(pt mgl64.Vec3) (mgl64.Vec3, bool, bool) {
	if p.walk.IsWalkable(pt.X(), pt.Z(), p.cfg.Clearance) {
		return pt, false, true
	}
	cell, ok := p.nearestWalkableCell(pt)
	if !ok {
		return mgl64.Vec3{}, false, false
	}
	return p.cellPoint(cell, pt.Y()), true, true
}

// nearestWalkableCell searches rings 1..RecoveryRings around the cell holding
// pt and returns the walkable cell of the first non-empty ring whose center is
// closest to pt.
func (p *Planner) nearestWalkableCell(pt mgl64.Vec3) (GridPos, bool) {
	origin := p.grid.WorldToGrid(pt.X(), pt.Z())
	target := cp.Vector{X: pt.X(), Y: pt.Z()}
	for r := 1; r <= p.cfg.RecoveryRings; r++ {
		best := GridPos{}
		bestDist := math.Inf(1)
		found := false
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				c := GridPos{X: origin.X + dx, Z: origin.Z + dz}
				if !p.grid.Walkable(c.X, c.Z) {
					continue
				}
				cx, cz := p.grid.CellCenter(c.X, c.Z)
				if d := target.DistanceSq(cp.Vector{X: cx, Y: cz}); d < bestDist {
					best, bestDist, found = c, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return GridPos{}, false
}

func (p *Planner) endpointCell(pt mgl64.Vec3) (GridPos, bool, bool) {
	c := p.grid.WorldToGrid(pt.X(), pt.Z())
	if p.grid.Walkable(c.X, c.Z) {
		return c, false, true
	}
	c, ok := p.nearestWalkableCell(pt)
	return c, true, ok
}

func (p *Planner) gridPath(from, to mgl64.Vec3) []mgl64.Vec3 {
	startCell, startMoved, ok := p.endpointCell(from)
	if !ok {
		return nil
	}
	goalCell, goalMoved, ok := p.endpointCell(to)
	if !ok {
		return nil
	}
	cells := p.grid.FindCellPath(startCell, goalCell)
	if cells == nil {
		return nil
	}

	y := from.Y()
	path := make([]mgl64.Vec3, 0, len(cells)+2)
	path = append(path, from)
	if startMoved {
		path = append(path, p.cellPoint(cells[0], y))
	}
	for i := 1; i < len(cells)-1; i++ {
		path = append(path, p.cellPoint(cells[i], y))
	}
	if goalMoved && len(cells) > 1 {
		path = append(path, p.cellPoint(cells[len(cells)-1], y))
	}
	path = append(path, to)
	return path
}

func (p *Planner) cellPoint(c GridPos, y float64) mgl64.Vec3 {
	x, z := p.grid.CellCenter(c.X, c.Z)
	return mgl64.Vec3{x, y, z}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
