package nav

import "container/heap"

type openItem struct {
	cell  int
	f     int
	h     int
	index int
}

// openSet orders by fCost, then by hCost so ties lean toward the goal.
type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].h < o[j].h
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*o = old[:n-1]
	return item
}

const (
	searchUnseen uint8 = iota
	searchOpen
	searchClosed
)

// FindCellPath runs A* between two walkable cells over the 8-neighborhood and
// returns the cells from start to goal inclusive, or nil if the goal cannot
// be reached. It resets the grid's search state first.
func (g *Grid) FindCellPath(start, goal GridPos) []GridPos {
	if !g.Walkable(start.X, start.Z) || !g.Walkable(goal.X, goal.Z) {
		return nil
	}
	g.ResetSearchState()

	startIdx := g.index(start.X, start.Z)
	goalIdx := g.index(goal.X, goal.Z)
	if startIdx == goalIdx {
		return []GridPos{start}
	}

	state := make([]uint8, len(g.cells))
	items := make(map[int]*openItem, 64)

	open := &openSet{}
	heap.Init(open)

	startCell := &g.cells[startIdx]
	startCell.HCost = octileDistance(start, goal)
	first := &openItem{cell: startIdx, f: startCell.FCost(), h: startCell.HCost}
	heap.Push(open, first)
	items[startIdx] = first
	state[startIdx] = searchOpen

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		curIdx := current.cell
		delete(items, curIdx)
		state[curIdx] = searchClosed

		if curIdx == goalIdx {
			return g.retrace(startIdx, goalIdx)
		}

		cur := &g.cells[curIdx]
		for _, n := range g.Neighbors(cur.X, cur.Z) {
			nIdx := g.index(n.Pos.X, n.Pos.Z)
			if state[nIdx] == searchClosed {
				continue
			}
			neighbor := &g.cells[nIdx]
			cost := cur.GCost + n.Cost
			if state[nIdx] == searchOpen && cost >= neighbor.GCost {
				continue
			}
			neighbor.GCost = cost
			neighbor.HCost = octileDistance(n.Pos, goal)
			neighbor.Parent = curIdx

			if item, ok := items[nIdx]; ok {
				item.f = neighbor.FCost()
				item.h = neighbor.HCost
				heap.Fix(open, item.index)
				continue
			}
			item := &openItem{cell: nIdx, f: neighbor.FCost(), h: neighbor.HCost}
			heap.Push(open, item)
			items[nIdx] = item
			state[nIdx] = searchOpen
		}
	}

	return nil
}

func (g *Grid) retrace(startIdx, goalIdx int) []GridPos {
	path := make([]GridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = g.cells[cur].Parent {
		c := &g.cells[cur]
		path = append(path, GridPos{X: c.X, Z: c.Z})
		if cur == startIdx {
			break
		}
		if len(path) > len(g.cells) {
			return nil
		}
	}
	if path[len(path)-1] != (GridPos{X: g.cells[startIdx].X, Z: g.cells[startIdx].Z}) {
		return nil
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
