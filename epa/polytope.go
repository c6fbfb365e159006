package epa

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akmonengine/collision/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope with its outward normal and its distance to the origin.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// edge of a visible face; A < B lexicographically so shared edges compare equal.
type edge struct {
	A, B  mgl64.Vec3
	Count int
}

// PolytopeBuilder holds the polytope faces and the scratch buffers of an expansion step.
type PolytopeBuilder struct {
	faces   []Face
	points  []mgl64.Vec3
	edges   []edge
	visible []int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:   make([]Face, 0, polytopeInitialCapacity),
			points:  make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:   make([]edge, 0, polytopeInitialCapacity),
			visible: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset clears the builder for reuse from the pool.
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.points = b.points[:0]
	b.edges = b.edges[:0]
	b.visible = b.visible[:0]
}

// BuildInitialFaces creates the four faces of the GJK tetrahedron.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	p := simplex.Points
	candidates := [4]Face{
		createFaceOutward(p[0], p[1], p[2], p[3]),
		createFaceOutward(p[0], p[2], p[3], p[1]),
		createFaceOutward(p[0], p[3], p[1], p[2]),
		createFaceOutward(p[1], p[3], p[2], p[0]),
	}

	for _, f := range candidates {
		if f.Distance >= EPAMinFaceDistance {
			b.faces = append(b.faces, f)
		}
	}

	// a polytope needs at least 3 faces, keep the degenerate ones otherwise
	if len(b.faces) < 3 {
		b.faces = append(b.faces[:0], candidates[:]...)
	}

	return nil
}

// createFaceOutward orients the normal of triangle (p0, p1, p2) away from the opposite point.
func createFaceOutward(p0, p1, p2, opposite mgl64.Vec3) Face {
	face := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < 1e-8 {
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = EPAMinFaceDistance
		return face
	}
	normal = normal.Mul(1.0 / length)

	if normal.Dot(opposite.Sub(p0)) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}
	if distance < EPAMinFaceDistance {
		distance = EPAMinFaceDistance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = distance
	return face
}

// FindClosestFaceIndex returns the index of the face closest to the origin, -1 if empty.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	closest := -1
	for i := range b.faces {
		if closest < 0 || b.faces[i].Distance < b.faces[closest].Distance {
			closest = i
		}
	}
	return closest
}

func (b *PolytopeBuilder) removeFace(i int) {
	last := len(b.faces) - 1
	b.faces[i] = b.faces[last]
	b.faces = b.faces[:last]
}

// centroid of the distinct polytope vertices, used to orient new faces.
func (b *PolytopeBuilder) centroid() mgl64.Vec3 {
	b.points = b.points[:0]
	for i := range b.faces {
		for _, p := range b.faces[i].Points {
			idx := sort.Search(len(b.points), func(j int) bool { return compareVec3(b.points[j], p) >= 0 })
			if idx < len(b.points) && b.points[idx] == p {
				continue
			}
			b.points = append(b.points, mgl64.Vec3{})
			copy(b.points[idx+1:], b.points[idx:])
			b.points[idx] = p
		}
	}

	var sum mgl64.Vec3
	if len(b.points) == 0 {
		return sum
	}
	for _, p := range b.points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(b.points)))
}

// AddPointAndRebuildFaces removes the faces visible from the support point and closes
// the hole with faces joining the horizon edges to the support point.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closestIndex int) {
	center := b.centroid()

	b.visible = b.visible[:0]
	for i := range b.faces {
		if support.Sub(b.faces[i].Points[0]).Dot(b.faces[i].Normal) > 0 {
			b.visible = append(b.visible, i)
		}
	}
	// never remove every face
	if len(b.visible) >= len(b.faces) {
		b.visible = append(b.visible[:0], closestIndex)
	}

	b.collectEdges()

	sort.Sort(sort.Reverse(sort.IntSlice(b.visible)))
	for _, idx := range b.visible {
		if idx < len(b.faces) {
			b.removeFace(idx)
		}
	}

	for _, e := range b.edges {
		if e.Count == 1 {
			b.faces = append(b.faces, createFaceOutward(e.A, e.B, support, center))
		}
	}

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: EPAMinFaceDistance,
		})
	}
}

// collectEdges counts the edges of the visible faces. Horizon edges are seen once.
func (b *PolytopeBuilder) collectEdges() {
	b.edges = b.edges[:0]

	for _, idx := range b.visible {
		pts := b.faces[idx].Points
		for k := 0; k < 3; k++ {
			ea, eb := pts[k], pts[(k+1)%3]
			if compareVec3(ea, eb) > 0 {
				ea, eb = eb, ea
			}

			found := false
			for i := range b.edges {
				if b.edges[i].A == ea && b.edges[i].B == eb {
					b.edges[i].Count++
					found = true
					break
				}
			}
			if !found {
				b.edges = append(b.edges, edge{A: ea, B: eb, Count: 1})
			}
		}
	}
}

// compareVec3 orders vectors lexicographically (x, then y, then z).
func compareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
