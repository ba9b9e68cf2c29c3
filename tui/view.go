package tui

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/gallerywalk/motion"
	"github.com/milk9111/gallerywalk/nav"
)

// cellAspect is how many terminal columns make up one row's worth of width.
const cellAspect = 2

// view maps the floor region onto terminal cells, one world unit per row and
// cellAspect columns per unit horizontally, shrunk to fit.
type view struct {
	region nav.GridConfig
	cols   int
	rows   int
	unit   float64 // world units per row
}

func newView(region nav.GridConfig, cols, rows int) view {
	cols, rows = max(cols, 1), max(rows, 1)
	unit := math.Max(region.Width*cellAspect/float64(cols), region.Length/float64(rows))
	if unit <= 0 {
		unit = 1
	}
	return view{
		region: region,
		cols:   min(cols, int(math.Ceil(region.Width*cellAspect/unit))),
		rows:   min(rows, int(math.Ceil(region.Length/unit))),
		unit:   unit,
	}
}

// cellToWorld returns the world point at the centre of a terminal cell.
func (v view) cellToWorld(col, row int) (float64, float64, bool) {
	if col < 0 || row < 0 || col >= v.cols || row >= v.rows {
		return 0, 0, false
	}
	colUnit := v.unit / cellAspect
	x := v.region.OriginX + (float64(col)+0.5)*colUnit
	z := v.region.OriginZ + (float64(row)+0.5)*v.unit
	return x, z, true
}

// cellBounds is the floor rectangle a terminal cell covers, shrunk a hair so
// neighbouring cells do not share edges.
func (v view) cellBounds(col, row int) cp.BB {
	const inset = 1e-6
	colUnit := v.unit / cellAspect
	l := v.region.OriginX + float64(col)*colUnit
	b := v.region.OriginZ + float64(row)*v.unit
	return cp.BB{L: l + inset, B: b + inset, R: l + colUnit - inset, T: b + v.unit - inset}
}

func (v view) worldToCell(x, z float64) (int, int, bool) {
	col := int(math.Floor((x - v.region.OriginX) / (v.unit / cellAspect)))
	row := int(math.Floor((z - v.region.OriginZ) / v.unit))
	if col < 0 || row < 0 || col >= v.cols || row >= v.rows {
		return 0, 0, false
	}
	return col, row, true
}

type direction int

const (
	dirForward direction = iota
	dirBackward
	dirLeft
	dirRight
	numDirections
)

// keyLatch turns repeated key events into held directions.
type keyLatch struct {
	until [numDirections]time.Time
}

func (k *keyLatch) press(d direction, now time.Time) {
	k.until[d] = now.Add(keyHold)
	// Opposite directions cancel rather than stack.
	k.until[opposite(d)] = time.Time{}
}

func (k *keyLatch) controls(now time.Time) motion.Controls {
	held := func(d direction) bool { return now.Before(k.until[d]) }
	return motion.Controls{
		Forward:  held(dirForward),
		Backward: held(dirBackward),
		Left:     held(dirLeft),
		Right:    held(dirRight),
	}
}

func opposite(d direction) direction {
	switch d {
	case dirForward:
		return dirBackward
	case dirBackward:
		return dirForward
	case dirLeft:
		return dirRight
	default:
		return dirLeft
	}
}
