package nav

import (
	"math"
	"strings"
)

// GridPos identifies a cell by integer grid coordinates.
type GridPos struct {
	X int
	Z int
}

// Cell is one unit of the navigation grid. GCost, HCost and Parent are scratch
// fields owned by the current search; ResetSearchState clears them.
type Cell struct {
	X        int
	Z        int
	Walkable bool
	GCost    int
	HCost    int
	// Parent is the index of the cell this one was reached from, or -1.
	Parent int
}

func (c *Cell) FCost() int {
	return c.GCost + c.HCost
}

// GridConfig describes the rectangular region a grid covers.
type GridConfig struct {
	OriginX  float64
	OriginZ  float64
	Width    float64
	Length   float64
	CellSize float64
	// Clearance is the radius used for all five samples of a cell.
	Clearance float64
}

type neighborOffset struct {
	dx, dz   int
	cost     int
	diagonal bool
}

const (
	orthogonalCost = 10
	diagonalCost   = 14

	// absorbs float error so cell-aligned points floor to their own cell
	gridEpsilon = 1e-9
)

var neighborOffsets = [...]neighborOffset{
	{dx: 0, dz: 1, cost: orthogonalCost},
	{dx: 1, dz: 0, cost: orthogonalCost},
	{dx: 0, dz: -1, cost: orthogonalCost},
	{dx: -1, dz: 0, cost: orthogonalCost},
	{dx: 1, dz: 1, cost: diagonalCost, diagonal: true},
	{dx: 1, dz: -1, cost: diagonalCost, diagonal: true},
	{dx: -1, dz: -1, cost: diagonalCost, diagonal: true},
	{dx: -1, dz: 1, cost: diagonalCost, diagonal: true},
}

// Grid partitions the configured region into fixed-size cells, each
// pre-classified walkable or blocked.
type Grid struct {
	cfg    GridConfig
	width  int
	height int
	cells  []Cell
}

// NewGrid allocates the cells for cfg and classifies them against walk.
// Construction always succeeds; a degenerate config yields a 1x1 grid.
func NewGrid(cfg GridConfig, walk Walkability) *Grid {
	if cfg.CellSize <= 0 {
		cfg.CellSize = 1
	}
	width := int(math.Ceil(cfg.Width / cfg.CellSize))
	height := int(math.Ceil(cfg.Length / cfg.CellSize))
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	g := &Grid{
		cfg:    cfg,
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	g.Initialize(walk)
	return g
}

// Initialize re-samples every cell: a cell is walkable only if its center and
// all four corners pass at the configured clearance.
func (g *Grid) Initialize(walk Walkability) {
	half := g.cfg.CellSize / 2
	for z := 0; z < g.height; z++ {
		for x := 0; x < g.width; x++ {
			cx, cz := g.CellCenter(x, z)
			samples := [5][2]float64{
				{cx, cz},
				{cx - half, cz - half},
				{cx - half, cz + half},
				{cx + half, cz - half},
				{cx + half, cz + half},
			}
			walkable := true
			if walk != nil {
				for _, s := range samples {
					if !walk.IsWalkable(s[0], s[1], g.cfg.Clearance) {
						walkable = false
						break
					}
				}
			}
			g.cells[g.index(x, z)] = Cell{X: x, Z: z, Walkable: walkable, Parent: -1}
		}
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) CellSize() float64 { return g.cfg.CellSize }

func (g *Grid) Config() GridConfig { return g.cfg }

func (g *Grid) index(x, z int) int {
	return z*g.width + x
}

func (g *Grid) inBounds(x, z int) bool {
	return g != nil && x >= 0 && z >= 0 && x < g.width && z < g.height
}

// WorldToGrid maps a world point to the cell containing it. The result may be
// out of bounds.
func (g *Grid) WorldToGrid(x, z float64) GridPos {
	return GridPos{
		X: int(math.Floor((x-g.cfg.OriginX)/g.cfg.CellSize + gridEpsilon)),
		Z: int(math.Floor((z-g.cfg.OriginZ)/g.cfg.CellSize + gridEpsilon)),
	}
}

// GridToWorld returns the lower corner of the cell, the inverse of
// WorldToGrid for cell-aligned points.
func (g *Grid) GridToWorld(gx, gz int) (float64, float64) {
	return float64(gx)*g.cfg.CellSize + g.cfg.OriginX, float64(gz)*g.cfg.CellSize + g.cfg.OriginZ
}

// CellCenter returns the world position of the middle of the cell.
func (g *Grid) CellCenter(gx, gz int) (float64, float64) {
	x, z := g.GridToWorld(gx, gz)
	half := g.cfg.CellSize / 2
	return x + half, z + half
}

// Cell returns the cell at (gx, gz), or nil when out of bounds.
func (g *Grid) Cell(gx, gz int) *Cell {
	if !g.inBounds(gx, gz) {
		return nil
	}
	return &g.cells[g.index(gx, gz)]
}

// Walkable treats out-of-bounds cells as blocked.
func (g *Grid) Walkable(gx, gz int) bool {
	c := g.Cell(gx, gz)
	return c != nil && c.Walkable
}

// ResetSearchState clears every cell's search scratch fields.
func (g *Grid) ResetSearchState() {
	for i := range g.cells {
		g.cells[i].GCost = 0
		g.cells[i].HCost = 0
		g.cells[i].Parent = -1
	}
}

// Neighbor is a walkable cell adjacent to another, with the step cost to reach it.
type Neighbor struct {
	Pos      GridPos
	Cost     int
	Diagonal bool
}

// Neighbors lists the walkable 8-neighborhood of (gx, gz). A diagonal
// neighbor is offered only when both orthogonal shoulder cells are walkable.
func (g *Grid) Neighbors(gx, gz int) []Neighbor {
	out := make([]Neighbor, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		nx, nz := gx+d.dx, gz+d.dz
		if !g.Walkable(nx, nz) {
			continue
		}
		if d.diagonal && (!g.Walkable(nx, gz) || !g.Walkable(gx, nz)) {
			continue
		}
		out = append(out, Neighbor{Pos: GridPos{X: nx, Z: nz}, Cost: d.cost, Diagonal: d.diagonal})
	}
	return out
}

// WalkableCount returns how many cells are walkable.
func (g *Grid) WalkableCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Walkable {
			n++
		}
	}
	return n
}

// String renders the grid with '.' for walkable and '#' for blocked cells,
// highest z row first.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for z := g.height - 1; z >= 0; z-- {
		for x := 0; x < g.width; x++ {
			if g.cells[g.index(x, z)].Walkable {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// octileDistance is the integer step-cost distance between two cells.
func octileDistance(a, b GridPos) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return diagonalCost*dz + orthogonalCost*(dx-dz)
	}
	return diagonalCost*dx + orthogonalCost*(dz-dx)
}
