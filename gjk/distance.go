package gjk

import (
	"math"

	"github.com/akmonengine/collision/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DistanceMaxIterations bounds the closest point search. Polytopes converge in a few
	// iterations, curved shapes need more.
	DistanceMaxIterations = 64

	// DistanceRelativeTolerance stops the search once the gap between the upper bound |v|²
	// and the lower bound v·w is below this fraction of |v|².
	DistanceRelativeTolerance = 1e-10

	// DistanceAbsoluteTolerance is the squared distance under which shapes are considered touching.
	DistanceAbsoluteTolerance = 1e-14
)

// ClosestPoints is the result of a distance query.
// When Intersecting is true the shapes overlap (or touch) and Distance is zero: use EPA for the depth.
type ClosestPoints struct {
	Distance     float64
	PointA       mgl64.Vec3
	PointB       mgl64.Vec3
	Intersecting bool
}

// vertex is a point w = a - b of the Minkowski difference, with the support points that built it.
type vertex struct {
	w, a, b mgl64.Vec3
}

type distanceSimplex struct {
	vertices [4]vertex
	lambdas  [4]float64
	count    int
}

func supportVertex(a, b actor.Collider, direction mgl64.Vec3) vertex {
	pa := a.SupportWorld(direction)
	pb := b.SupportWorld(direction.Mul(-1))
	return vertex{w: pa.Sub(pb), a: pa, b: pb}
}

// Distance computes the closest points of two convex colliders.
func Distance(a, b actor.Collider) ClosestPoints {
	var s distanceSimplex

	v := a.Center().Sub(b.Center())
	if v.LenSqr() < DistanceAbsoluteTolerance {
		v = mgl64.Vec3{1, 0, 0}
	}

	s.vertices[0] = supportVertex(a, b, v.Mul(-1))
	s.lambdas[0] = 1
	s.count = 1
	v = s.vertices[0].w

	for i := 0; i < DistanceMaxIterations; i++ {
		vv := v.Dot(v)
		if vv < DistanceAbsoluteTolerance {
			return s.result(true)
		}

		w := supportVertex(a, b, v.Mul(-1))

		// no support point gets closer to the origin than v
		if vv-v.Dot(w.w) <= DistanceRelativeTolerance*vv {
			break
		}
		if s.contains(w.w) {
			break
		}

		s.vertices[s.count] = w
		s.count++

		if inside := s.solve(); inside {
			return s.result(true)
		}

		next := s.point()
		if next.Dot(next) >= vv {
			// no progress, rounding limit reached
			break
		}
		v = next
	}

	return s.result(false)
}

func (s *distanceSimplex) contains(w mgl64.Vec3) bool {
	for i := 0; i < s.count; i++ {
		if s.vertices[i].w == w {
			return true
		}
	}
	return false
}

func (s *distanceSimplex) point() mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < s.count; i++ {
		p = p.Add(s.vertices[i].w.Mul(s.lambdas[i]))
	}
	return p
}

func (s *distanceSimplex) result(intersecting bool) ClosestPoints {
	var pa, pb mgl64.Vec3
	for i := 0; i < s.count; i++ {
		pa = pa.Add(s.vertices[i].a.Mul(s.lambdas[i]))
		pb = pb.Add(s.vertices[i].b.Mul(s.lambdas[i]))
	}

	r := ClosestPoints{PointA: pa, PointB: pb, Intersecting: intersecting}
	if !intersecting {
		r.Distance = pa.Sub(pb).Len()
	}
	return r
}

// barycentric holds the simplex vertices supporting the closest point and their weights.
type barycentric struct {
	idx    [4]int
	lambda [4]float64
	n      int
}

func (bc barycentric) point(s *distanceSimplex) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < bc.n; i++ {
		p = p.Add(s.vertices[bc.idx[i]].w.Mul(bc.lambda[i]))
	}
	return p
}

// solve finds the point of the simplex closest to the origin and keeps only the vertices
// needed to express it. It returns true if the origin lies inside a tetrahedron.
func (s *distanceSimplex) solve() bool {
	var bc barycentric

	switch s.count {
	case 1:
		bc = barycentric{idx: [4]int{0}, lambda: [4]float64{1}, n: 1}
	case 2:
		bc = s.segment(0, 1)
	case 3:
		bc = s.triangle(0, 1, 2)
	case 4:
		var inside bool
		bc, inside = s.tetrahedron()
		if inside {
			return true
		}
	}

	var reduced [4]vertex
	for i := 0; i < bc.n; i++ {
		reduced[i] = s.vertices[bc.idx[i]]
		s.lambdas[i] = bc.lambda[i]
	}
	s.vertices = reduced
	s.count = bc.n

	return false
}

func (s *distanceSimplex) segment(i, j int) barycentric {
	a := s.vertices[i].w
	ab := s.vertices[j].w.Sub(a)

	denom := ab.Dot(ab)
	if denom < 1e-18 {
		return barycentric{idx: [4]int{i}, lambda: [4]float64{1}, n: 1}
	}

	t := -a.Dot(ab) / denom
	switch {
	case t <= 0:
		return barycentric{idx: [4]int{i}, lambda: [4]float64{1}, n: 1}
	case t >= 1:
		return barycentric{idx: [4]int{j}, lambda: [4]float64{1}, n: 1}
	}

	return barycentric{idx: [4]int{i, j}, lambda: [4]float64{1 - t, t}, n: 2}
}

// triangle follows Ericson's region tests with the query point at the origin.
func (s *distanceSimplex) triangle(i, j, k int) barycentric {
	a, b, c := s.vertices[i].w, s.vertices[j].w, s.vertices[k].w
	ab := b.Sub(a)
	ac := c.Sub(a)

	ap := a.Mul(-1)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return barycentric{idx: [4]int{i}, lambda: [4]float64{1}, n: 1}
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return barycentric{idx: [4]int{j}, lambda: [4]float64{1}, n: 1}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := ratio(d1, d1-d3)
		return barycentric{idx: [4]int{i, j}, lambda: [4]float64{1 - t, t}, n: 2}
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return barycentric{idx: [4]int{k}, lambda: [4]float64{1}, n: 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := ratio(d2, d2-d6)
		return barycentric{idx: [4]int{i, k}, lambda: [4]float64{1 - t, t}, n: 2}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		t := ratio(d4-d3, (d4-d3)+(d5-d6))
		return barycentric{idx: [4]int{j, k}, lambda: [4]float64{1 - t, t}, n: 2}
	}

	sum := va + vb + vc
	if math.Abs(sum) < 1e-18 {
		// degenerate triangle, best edge wins
		return s.closestOf(s.segment(i, j), s.segment(j, k), s.segment(i, k))
	}

	v := vb / sum
	w := vc / sum
	return barycentric{idx: [4]int{i, j, k}, lambda: [4]float64{1 - v - w, v, w}, n: 3}
}

// tetrahedron checks every face the origin is outside of and keeps the closest one.
func (s *distanceSimplex) tetrahedron() (barycentric, bool) {
	faces := [4][4]int{
		{0, 1, 2, 3},
		{0, 2, 3, 1},
		{0, 3, 1, 2},
		{1, 3, 2, 0},
	}

	var candidates [4]barycentric
	n := 0
	for _, f := range faces {
		if s.outsideOfFace(f[0], f[1], f[2], f[3]) {
			candidates[n] = s.triangle(f[0], f[1], f[2])
			n++
		}
	}

	if n == 0 {
		return barycentric{}, true
	}

	return s.closestOf(candidates[:n]...), false
}

// outsideOfFace reports whether the origin and the opposite vertex lie on different sides
// of face (i, j, k). A flat tetrahedron has no inside, so every face counts.
func (s *distanceSimplex) outsideOfFace(i, j, k, opposite int) bool {
	a := s.vertices[i].w
	n := s.vertices[j].w.Sub(a).Cross(s.vertices[k].w.Sub(a))

	signOrigin := a.Mul(-1).Dot(n)
	signOpposite := s.vertices[opposite].w.Sub(a).Dot(n)

	if math.Abs(signOpposite) < 1e-18 {
		return true
	}
	return signOrigin*signOpposite < 0
}

func (s *distanceSimplex) closestOf(candidates ...barycentric) barycentric {
	best := candidates[0]
	bestDist := math.Inf(1)
	for _, c := range candidates {
		p := c.point(s)
		if d := p.Dot(p); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// ratio guards the edge parameters of zero-length edges
func ratio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
