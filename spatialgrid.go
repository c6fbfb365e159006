package collision

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/collision/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell.
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the objects overlapping it.
type Cell struct {
	objectIndices []int
}

// Pair is a broadphase candidate: two objects whose bounds, grown by the contact
// distance, overlap. A precedes B in the object list.
type Pair struct {
	A *actor.CollisionObject
	B *actor.CollisionObject
}

// SpatialGrid is a uniform grid hashed into a fixed number of cells.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid creates a grid; numCells is rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].objectIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert registers an object index in every cell its bounds cover.
func (sg *SpatialGrid) Insert(objectIndex int, aabb actor.AABB) {
	sg.forEachCell(aabb, func(cellIdx int) {
		sg.cells[cellIdx].objectIndices = append(sg.cells[cellIdx].objectIndices, objectIndex)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objectIndices = sg.cells[i].objectIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].objectIndices) > 1 {
			sort.Ints(sg.cells[i].objectIndices)
		}
	}
}

// Build clears the grid and inserts every object.
func (sg *SpatialGrid) Build(objects []*actor.CollisionObject) {
	sg.Clear()
	for i, o := range objects {
		sg.Insert(i, o.GetAABB())
	}
	sg.SortCells()
}

// FindPairs returns, in object order, the pairs whose bounds are closer than margin.
func (sg *SpatialGrid) FindPairs(objects []*actor.CollisionObject, margin float64) []Pair {
	pairs := make([]Pair, 0, len(objects)/2)
	seen := make([]bool, len(objects))

	for idx := range objects {
		clear(seen)
		sg.pairsOf(objects, idx, margin, seen, func(p Pair) {
			pairs = append(pairs, p)
		})
	}

	return pairs
}

// FindPairsParallel splits the objects between workers. Pairs arrive in no particular order.
func (sg *SpatialGrid) FindPairsParallel(objects []*actor.CollisionObject, margin float64, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	perWorker := len(objects) / numWorkers
	if perWorker == 0 {
		perWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == numWorkers-1 {
			end = len(objects)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(objects))
			for idx := start; idx < end; idx++ {
				clear(seen)
				sg.pairsOf(objects, idx, margin, seen, func(p Pair) {
					pairsChan <- p
				})
			}
		}(start, end)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// pairsOf emits the pairs between objects[idx] and the objects after it.
func (sg *SpatialGrid) pairsOf(objects []*actor.CollisionObject, idx int, margin float64, seen []bool, emit func(Pair)) {
	a := objects[idx]
	bounds := a.GetAABB().Expand(margin)

	sg.forEachCell(bounds, func(cellIdx int) {
		for _, otherIdx := range sg.cells[cellIdx].objectIndices {
			// deterministic order, no (A,B) and (B,A) duplicates
			if otherIdx <= idx || seen[otherIdx] {
				continue
			}
			seen[otherIdx] = true

			b := objects[otherIdx]
			if bounds.Overlaps(b.GetAABB()) {
				emit(Pair{A: a, B: b})
			}
		}
	})
}

func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
