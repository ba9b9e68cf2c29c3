package nav

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Obstacle is an axis-aligned box in world space. Navigation only reads it.
type Obstacle struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Footprint returns the obstacle's extent on the floor plane (x, z).
func (o Obstacle) Footprint() cp.BB {
	return cp.BB{L: o.Min.X(), B: o.Min.Z(), R: o.Max.X(), T: o.Max.Z()}
}

// Walkability answers whether a disc of the given clearance radius centered at
// (x, z) stays clear of every obstacle.
type Walkability interface {
	IsWalkable(x, z, radius float64) bool
}

// Oracle tests query boxes against obstacle volumes. Obstacles are kept as
// static shapes in a cp.Space so overlap queries go through its spatial index
// instead of scanning every wall.
type Oracle struct {
	space      *cp.Space
	obstacles  []Obstacle
	probeY     float64
	probeHalfY float64
}

// NewOracle indexes the obstacles. probeY and probeHalfY give the vertical
// slab the query box spans; pick a half height generous enough that walls
// always overlap it.
func NewOracle(obstacles []Obstacle, probeY, probeHalfY float64) *Oracle {
	o := &Oracle{
		space:      cp.NewSpace(),
		probeY:     probeY,
		probeHalfY: probeHalfY,
	}
	for _, obs := range obstacles {
		o.Add(obs)
	}
	return o
}

// Add registers an obstacle that appeared after construction. Grids built
// from this oracle are not re-sampled.
func (o *Oracle) Add(obs Obstacle) {
	if o == nil {
		return
	}
	shape := cp.NewBox2(o.space.StaticBody, obs.Footprint(), 0)
	shape.UserData = len(o.obstacles)
	o.obstacles = append(o.obstacles, obs)
	o.space.AddShape(shape)
}

// Obstacles returns a copy of the indexed obstacle list.
func (o *Oracle) Obstacles() []Obstacle {
	if o == nil {
		return nil
	}
	return append([]Obstacle(nil), o.obstacles...)
}

// IsWalkable reports false iff the square of half-extent radius around
// (x, z) intersects any obstacle. Touching counts as intersecting.
func (o *Oracle) IsWalkable(x, z, radius float64) bool {
	return o.IsRegionClear(cp.BB{L: x - radius, B: z - radius, R: x + radius, T: z + radius})
}

// IsRegionClear reports whether no obstacle overlapping the probe slab
// intersects the floor rectangle query (x along L/R, z along B/T).
func (o *Oracle) IsRegionClear(query cp.BB) bool {
	if o == nil || len(o.obstacles) == 0 {
		return true
	}
	minY := o.probeY - o.probeHalfY
	maxY := o.probeY + o.probeHalfY

	blocked := false
	o.space.BBQuery(query, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if blocked {
			return
		}
		idx, ok := shape.UserData.(int)
		if !ok || idx < 0 || idx >= len(o.obstacles) {
			return
		}
		obs := o.obstacles[idx]
		if obs.Max.Y() < minY || obs.Min.Y() > maxY {
			return
		}
		if query.Intersects(obs.Footprint()) {
			blocked = true
		}
	}, nil)
	return !blocked
}
