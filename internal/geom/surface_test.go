package geom

import (
	"math"
	"testing"
)

func TestPlaneAxisSenseMatchesFunctionSign(t *testing.T) {
	p := NewPlaneAxis("px1", AxisX, 5.0)
	inside := Vec3{4, 0, 0}
	outside := Vec3{6, 0, 0}
	if !p.Sense(outside) {
		t.Errorf("Sense(outside) = false, want true")
	}
	if p.Sense(inside) {
		t.Errorf("Sense(inside) = true, want false")
	}
}

func TestPlaneAxisIntersectDistanceIsPositiveTowardSurface(t *testing.T) {
	p := NewPlaneAxis("px1", AxisX, 5.0)
	pos := Vec3{0, 0, 0}
	dir := Vec3{1, 0, 0}
	dist, ok := p.Intersect(pos, dir, false)
	if !ok {
		t.Fatal("expected intersection moving toward the plane")
	}
	if math.Abs(dist-5.0) > 1e-9 {
		t.Errorf("distance = %v, want 5.0", dist)
	}
}

func TestPlaneAxisIntersectFalseWhenMovingAway(t *testing.T) {
	p := NewPlaneAxis("px1", AxisX, 5.0)
	pos := Vec3{0, 0, 0}
	dir := Vec3{-1, 0, 0}
	_, ok := p.Intersect(pos, dir, false)
	if ok {
		t.Error("expected no intersection moving away from the plane")
	}
}

func TestPlaneAxisTranslateShiftsCoordinate(t *testing.T) {
	p := NewPlaneAxis("px1", AxisX, 5.0)
	shifted := p.Translate(Vec3{2, 0, 0}).(*PlaneAxis)
	if math.Abs(shifted.Coordinate-7.0) > 1e-9 {
		t.Errorf("translated coordinate = %v, want 7.0", shifted.Coordinate)
	}
}

func TestCylinderAxisSenseAndIntersect(t *testing.T) {
	c := NewCylinderAxis("cz1", AxisZ, 0, 0, 2.0)
	inside := Vec3{1, 0, 0}
	outside := Vec3{3, 0, 0}
	if c.Sense(inside) {
		t.Error("point at radius 1 inside a radius-2 cylinder should have Sense() == false")
	}
	if !c.Sense(outside) {
		t.Error("point at radius 3 outside a radius-2 cylinder should have Sense() == true")
	}

	dist, ok := c.Intersect(Vec3{0, 0, 0}, Vec3{1, 0, 0}, false)
	if !ok {
		t.Fatal("expected intersection of a ray from the cylinder axis")
	}
	if math.Abs(dist-2.0) > 1e-9 {
		t.Errorf("distance to cylinder wall = %v, want 2.0", dist)
	}
}

func TestCylinderAxisParallelToAxisNeverIntersects(t *testing.T) {
	c := NewCylinderAxis("cz1", AxisZ, 0, 0, 2.0)
	_, ok := c.Intersect(Vec3{5, 0, 0}, Vec3{0, 0, 1}, true)
	if ok {
		t.Error("a ray parallel to the cylinder's axis should never intersect")
	}
}

func TestQuadricMatchesCylinderOnAxisAlignedCase(t *testing.T) {
	// x^2 + y^2 - 4 = 0 is the same surface as a z-axis cylinder of
	// radius 2 centered at the origin.
	q := NewQuadric("q1", 1, 1, 0, 0, 0, 0, 0, 0, 0, -4)
	c := NewCylinderAxis("cz1", AxisZ, 0, 0, 2.0)

	pts := []Vec3{{1, 0, 0}, {3, 0, 0}, {0, 5, 0}, {1.9, 1.9, 7}}
	for _, p := range pts {
		if q.Sense(p) != c.Sense(p) {
			t.Errorf("Sense(%v) quadric=%v cylinder=%v, want equal", p, q.Sense(p), c.Sense(p))
		}
	}

	dq, okq := q.Intersect(Vec3{0, 0, 0}, Vec3{1, 0, 0}, false)
	dc, okc := c.Intersect(Vec3{0, 0, 0}, Vec3{1, 0, 0}, false)
	if okq != okc {
		t.Fatalf("Intersect ok mismatch: quadric=%v cylinder=%v", okq, okc)
	}
	if math.Abs(dq-dc) > 1e-9 {
		t.Errorf("Intersect distance mismatch: quadric=%v cylinder=%v", dq, dc)
	}
}

func TestQuadricTranslateMatchesDirectEvaluation(t *testing.T) {
	q := NewQuadric("q1", 1, 2, 3, 0.5, 0.25, 0.1, 1, -1, 2, -5)
	delta := Vec3{1.3, -0.7, 2.1}
	translated := q.Translate(delta).(*Quadric)

	probe := Vec3{0.4, 0.9, -1.2}
	want := q.Function(Vec3{probe[0] - delta[0], probe[1] - delta[1], probe[2] - delta[2]})
	got := translated.Function(probe)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("translated.Function(probe) = %v, want %v", got, want)
	}
}

func TestGeneralPlaneMatchesPlaneAxisSpecialCase(t *testing.T) {
	gp := NewGeneralPlane("gp1", 1, 0, 0, 5.0)
	pa := NewPlaneAxis("pa1", AxisX, 5.0)

	pts := []Vec3{{4, 1, 1}, {6, -3, 2}, {5, 0, 0}}
	for _, p := range pts {
		if gp.Sense(p) != pa.Sense(p) {
			t.Errorf("Sense(%v) general=%v axis=%v, want equal", p, gp.Sense(p), pa.Sense(p))
		}
	}
}

// TestSenseStability verifies that, starting strictly inside a cell's
// bound, a tiny step below the surface epsilon must not flip the
// sense against that surface.
func TestSenseStability(t *testing.T) {
	p := NewPlaneAxis("px1", AxisX, 5.0)
	interior := Vec3{2, 0, 0}
	epsilon := 1e-12
	nudged := Vec3{interior[0] + epsilon, interior[1], interior[2]}
	if p.Sense(interior) != p.Sense(nudged) {
		t.Errorf("a sub-epsilon step flipped sense: Sense(interior)=%v Sense(nudged)=%v", p.Sense(interior), p.Sense(nudged))
	}
}
