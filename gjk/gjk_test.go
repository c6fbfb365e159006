package gjk

import (
	"math"
	"testing"

	"github.com/akmonengine/collision/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func createCollider(shape actor.ShapeInterface, transform actor.Transform) *actor.ShapeInstance {
	o, err := actor.NewCollisionObject("test", 0, []actor.ShapeInterface{shape}, []actor.Transform{actor.NewTransform()})
	if err != nil {
		panic(err)
	}
	o.SetTransform(transform)
	return o.Shapes[0]
}

func createBox(position mgl64.Vec3, halfExtents mgl64.Vec3) *actor.ShapeInstance {
	return createCollider(&actor.Box{HalfExtents: halfExtents}, actor.NewTransformFromPosition(position))
}

func createSphere(position mgl64.Vec3, radius float64) *actor.ShapeInstance {
	return createCollider(&actor.Sphere{Radius: radius}, actor.NewTransformFromPosition(position))
}

func vec3Near(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() < tolerance
}

func TestMinkowskiSupport(t *testing.T) {
	t.Run("two separated spheres along x-axis", func(t *testing.T) {
		a := createSphere(mgl64.Vec3{0, 0, 0}, 1.0)
		b := createSphere(mgl64.Vec3{3, 0, 0}, 1.0)

		// max(A.x) - min(B.x) = 1 - 2 = -1
		support := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0})
		if support.X() != -1.0 {
			t.Errorf("Expected support.X = -1, got %v", support.X())
		}
	})

	t.Run("opposite directions give different supports", func(t *testing.T) {
		a := createSphere(mgl64.Vec3{0, 0, 0}, 1.0)
		b := createSphere(mgl64.Vec3{5, 0, 0}, 1.0)

		support1 := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0})
		support2 := MinkowskiSupport(a, b, mgl64.Vec3{-1, 0, 0})

		if support1.X() <= support2.X() {
			t.Errorf("Expected support1.X > support2.X, got %v <= %v", support1.X(), support2.X())
		}
	})
}

func TestGJK(t *testing.T) {
	tests := []struct {
		name     string
		a, b     actor.Collider
		expected bool
	}{
		{"overlapping spheres", createSphere(mgl64.Vec3{0, 0, 0}, 1), createSphere(mgl64.Vec3{1.5, 0, 0}, 1), true},
		{"identical spheres", createSphere(mgl64.Vec3{0, 0, 0}, 1), createSphere(mgl64.Vec3{0, 0, 0}, 1), true},
		{"far apart spheres", createSphere(mgl64.Vec3{0, 0, 0}, 1), createSphere(mgl64.Vec3{10, 0, 0}, 1), false},
		{"diagonal separated spheres", createSphere(mgl64.Vec3{0, 0, 0}, 1), createSphere(mgl64.Vec3{2, 2, 2}, 1), false},
		{"overlapping boxes", createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}), createBox(mgl64.Vec3{1.5, 0.5, 0}, mgl64.Vec3{1, 1, 1}), true},
		{"separated boxes", createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}), createBox(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{1, 1, 1}), false},
		{"sphere inside box", createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}), createSphere(mgl64.Vec3{0.2, 0, 0}, 0.25), true},
		{"sphere next to box", createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}), createSphere(mgl64.Vec3{1, 0, 0}, 0.25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := SimplexPool.Get().(*Simplex)
			defer SimplexPool.Put(simplex)
			simplex.Reset()

			if got := GJK(tt.a, tt.b, simplex); got != tt.expected {
				t.Errorf("GJK = %v, want %v", got, tt.expected)
			}
			simplex.Reset()
			if got := GJK(tt.b, tt.a, simplex); got != tt.expected {
				t.Errorf("GJK (swapped) = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLine(t *testing.T) {
	t.Run("origin beyond newest point", func(t *testing.T) {
		simplex := &Simplex{Points: [4]mgl64.Vec3{{3, 0, 0}, {1, 0, 0}}, Count: 2}
		var direction mgl64.Vec3

		if line(simplex, &direction) {
			t.Fatal("a segment away from the origin cannot contain it")
		}
		if simplex.Count != 1 || simplex.Points[0] != (mgl64.Vec3{1, 0, 0}) {
			t.Errorf("simplex should reduce to the newest point, got %v", simplex)
		}
		if direction != (mgl64.Vec3{-1, 0, 0}) {
			t.Errorf("direction = %v, want (-1, 0, 0)", direction)
		}
	})

	t.Run("origin on segment", func(t *testing.T) {
		simplex := &Simplex{Points: [4]mgl64.Vec3{{-1, 0, 0}, {1, 0, 0}}, Count: 2}
		var direction mgl64.Vec3

		if !line(simplex, &direction) {
			t.Error("origin on the segment must be reported as contained")
		}
	})
}

func TestTetrahedron(t *testing.T) {
	simplex := &Simplex{
		Points: [4]mgl64.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}},
		Count:  4,
	}
	var direction mgl64.Vec3

	if !tetrahedron(simplex, &direction) {
		t.Error("regular tetrahedron around the origin must contain it")
	}

	simplex = &Simplex{
		Points: [4]mgl64.Vec3{{2, 0, 0}, {3, 0, 0}, {2, 1, 0}, {2, 0, 1}},
		Count:  4,
	}
	if tetrahedron(simplex, &direction) {
		t.Error("tetrahedron away from the origin must not contain it")
	}
	if simplex.Count >= 4 {
		t.Errorf("simplex should have been reduced, count = %d", simplex.Count)
	}
}

func TestDistance(t *testing.T) {
	rotated := createCollider(
		&actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}},
		actor.NewTransformFromPose(mgl64.Vec3{}, mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 0, 1})),
	)
	cube := actor.NewConvexMesh([]mgl64.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5},
	})

	tests := []struct {
		name      string
		a, b      actor.Collider
		distance  float64
		pointA    *mgl64.Vec3
		pointB    *mgl64.Vec3
		tolerance float64
	}{
		{
			name:      "spheres",
			a:         createSphere(mgl64.Vec3{0, 0, 0}, 1),
			b:         createSphere(mgl64.Vec3{3, 0, 0}, 1),
			distance:  1,
			pointA:    &mgl64.Vec3{1, 0, 0},
			pointB:    &mgl64.Vec3{2, 0, 0},
			tolerance: 1e-6,
		},
		{
			name:      "box and sphere",
			a:         createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			b:         createSphere(mgl64.Vec3{1, 0, 0}, 0.25),
			distance:  0.25,
			pointA:    &mgl64.Vec3{0.5, 0, 0},
			pointB:    &mgl64.Vec3{0.75, 0, 0},
			tolerance: 1e-3,
		},
		{
			name:      "boxes face to face",
			a:         createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			b:         createBox(mgl64.Vec3{2, 0.25, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			distance:  1,
			tolerance: 1e-6,
		},
		{
			name:      "rotated box corner",
			a:         rotated,
			b:         createSphere(mgl64.Vec3{2, 0, 0}, 0.25),
			distance:  2 - 0.25 - 0.5*math.Sqrt2,
			pointA:    &mgl64.Vec3{0.5 * math.Sqrt2, 0, 0},
			tolerance: 1e-4,
		},
		{
			name:      "convex mesh",
			a:         createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			b:         createCollider(cube, actor.NewTransformFromPosition(mgl64.Vec3{0, 0, 3})),
			distance:  2,
			tolerance: 1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Distance(tt.a, tt.b)
			if r.Intersecting {
				t.Fatal("shapes are disjoint")
			}
			if math.Abs(r.Distance-tt.distance) > tt.tolerance {
				t.Errorf("Distance = %v, want %v", r.Distance, tt.distance)
			}
			if tt.pointA != nil && !vec3Near(r.PointA, *tt.pointA, tt.tolerance) {
				t.Errorf("PointA = %v, want %v", r.PointA, *tt.pointA)
			}
			if tt.pointB != nil && !vec3Near(r.PointB, *tt.pointB, tt.tolerance) {
				t.Errorf("PointB = %v, want %v", r.PointB, *tt.pointB)
			}
			if d := r.PointA.Sub(r.PointB).Len(); math.Abs(d-r.Distance) > 1e-9 {
				t.Errorf("witness points are %v apart, distance says %v", d, r.Distance)
			}

			swapped := Distance(tt.b, tt.a)
			if math.Abs(swapped.Distance-r.Distance) > tt.tolerance {
				t.Errorf("Distance is not symmetric: %v vs %v", swapped.Distance, r.Distance)
			}
		})
	}
}

func TestDistance_Intersecting(t *testing.T) {
	tests := []struct {
		name string
		a, b actor.Collider
	}{
		{"overlapping spheres", createSphere(mgl64.Vec3{0, 0, 0}, 1), createSphere(mgl64.Vec3{1, 0, 0}, 1)},
		{"concentric", createSphere(mgl64.Vec3{0, 0, 0}, 1), createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.1, 0.1, 0.1})},
		{"sphere inside box", createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}), createSphere(mgl64.Vec3{0.2, 0, 0}, 0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := Distance(tt.a, tt.b); !r.Intersecting || r.Distance != 0 {
				t.Errorf("expected intersection, got %+v", r)
			}
		})
	}
}
