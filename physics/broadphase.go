package physics

import (
	"cmp"
	"math"
	"slices"
)

// BroadphasePair names two bodies by their index in the world, A < B.
type BroadphasePair struct {
	A, B int
}

// SpatialHashBroadphase buckets body bounds into a uniform grid of cubic
// cells. Bodies spanning more than maxCellsPerBody cells skip the grid and
// are tested against everything.
type SpatialHashBroadphase struct {
	cellSize        float32
	maxCellsPerBody int

	cells map[uint64][]int
	large []int
	aabbs []AABB
}

func NewSpatialHashBroadphase(cellSize float32) *SpatialHashBroadphase {
	if cellSize <= 0 {
		cellSize = 2
	}
	return &SpatialHashBroadphase{
		cellSize:        cellSize,
		maxCellsPerBody: 64,
		cells:           make(map[uint64][]int),
	}
}

func (g *SpatialHashBroadphase) CellSize() float32 { return g.cellSize }

func (g *SpatialHashBroadphase) Clear() {
	clear(g.cells)
	g.large = g.large[:0]
	g.aabbs = g.aabbs[:0]
}

// Insert registers bounds under id. Ids must be inserted densely from zero.
func (g *SpatialHashBroadphase) Insert(id int, aabb AABB) {
	for len(g.aabbs) <= id {
		g.aabbs = append(g.aabbs, AABB{})
	}
	g.aabbs[id] = aabb

	minX, maxX := g.cellIndex(aabb.Min.X()), g.cellIndex(aabb.Max.X())
	minY, maxY := g.cellIndex(aabb.Min.Y()), g.cellIndex(aabb.Max.Y())
	minZ, maxZ := g.cellIndex(aabb.Min.Z()), g.cellIndex(aabb.Max.Z())

	span := (maxX - minX + 1) * (maxY - minY + 1) * (maxZ - minZ + 1)
	if span > g.maxCellsPerBody || span <= 0 {
		g.large = append(g.large, id)
		return
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := g.hashKey(x, y, z)
				g.cells[key] = append(g.cells[key], id)
			}
		}
	}
}

// QueryAABB returns the ids whose cells, or large bounds, touch aabb. The
// result is a candidate set; bounds are not compared.
func (g *SpatialHashBroadphase) QueryAABB(aabb AABB) []int {
	minX, maxX := g.cellIndex(aabb.Min.X()), g.cellIndex(aabb.Max.X())
	minY, maxY := g.cellIndex(aabb.Min.Y()), g.cellIndex(aabb.Max.Y())
	minZ, maxZ := g.cellIndex(aabb.Min.Z()), g.cellIndex(aabb.Max.Z())

	unique := make(map[int]struct{})
	var results []int
	add := func(id int) {
		if _, ok := unique[id]; !ok {
			unique[id] = struct{}{}
			results = append(results, id)
		}
	}

	span := (maxX - minX + 1) * (maxY - minY + 1) * (maxZ - minZ + 1)
	if span > g.maxCellsPerBody || span <= 0 {
		for id := range g.aabbs {
			add(id)
		}
		return results
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				for _, id := range g.cells[g.hashKey(x, y, z)] {
					add(id)
				}
			}
		}
	}
	for _, id := range g.large {
		add(id)
	}
	return results
}

// Pairs returns every pair of inserted ids whose bounds overlap, sorted.
func (g *SpatialHashBroadphase) Pairs() []BroadphasePair {
	seen := make(map[BroadphasePair]struct{})
	var pairs []BroadphasePair
	for id, aabb := range g.aabbs {
		for _, other := range g.QueryAABB(aabb) {
			if other == id {
				continue
			}
			p := BroadphasePair{A: min(id, other), B: max(id, other)}
			if _, ok := seen[p]; ok {
				continue
			}
			if !g.aabbs[p.A].Overlaps(g.aabbs[p.B]) {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	slices.SortFunc(pairs, func(a, b BroadphasePair) int {
		if c := cmp.Compare(a.A, b.A); c != 0 {
			return c
		}
		return cmp.Compare(a.B, b.B)
	})
	return pairs
}

func (g *SpatialHashBroadphase) cellIndex(pos float32) int {
	return int(math.Floor(float64(pos / g.cellSize)))
}

func (g *SpatialHashBroadphase) hashKey(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
