// Package geom implements the constructive solid geometry the
// transport driver consults for point-location and nearest-surface
// intersection: surfaces, cells built from sense expressions over
// surfaces, universes, fill transformations, and the build-time
// flattening pass that turns the logical universe tree into a
// concrete, walkable graph.
//
// Grounded on original_source/Geometry/{Cell,Universe}.{hpp,cpp} and
// Geometry/Surfaces/PlaneNormal.hpp.
package geom

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// Vec3 is a point or direction in the geometry's coordinate system.
type Vec3 = fmom.Vec3

// Surface is a bounding surface: a function whose sign partitions
// space into two senses, plus the quadratic or linear ray-intersection
// test used to find the nearest crossing along a direction.
type Surface interface {
	InternalID() int
	setInternalID(id int)
	UserID() string

	// Function evaluates the surface's defining equation at p. Sense
	// is Function(p) >= 0.
	Function(p Vec3) float64

	// Sense reports which side of the surface p falls on.
	Sense(p Vec3) bool

	// Intersect computes the distance to this surface from p along
	// direction d, given the sense the caller is currently on. It
	// returns ok == false if the ray never crosses (moving away, or
	// parallel).
	Intersect(p, d Vec3, sense bool) (distance float64, ok bool)

	// Translate returns a clone of this surface shifted by delta, used
	// when a cell's fill universe is flattened into its parent.
	Translate(delta Vec3) Surface

	// Coeffs identifies the surface's type and numeric parameters, for
	// build-time deduplication of surfaces cloned by flattening.
	Coeffs() (kind string, values []float64)
}

type surfaceBase struct {
	internalID int
	userID     string
}

func (s *surfaceBase) InternalID() int        { return s.internalID }
func (s *surfaceBase) setInternalID(id int)   { s.internalID = id }
func (s *surfaceBase) UserID() string         { return s.userID }

// crossingEpsilon is the minimum forward distance accepted as a real
// crossing rather than the surface the particle is already sitting on
// (the same near-zero clamp PlaneNormal::intersect applies via
// std::max(0.0, distance)).
const crossingEpsilon = 0.0

// Axis identifies one of the three coordinate axes, matching the
// xaxis/yaxis/zaxis template parameter PlaneNormal<axis> is
// instantiated with.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
	AxisZ Axis = 2
)

// PlaneAxis is an axis-normal plane x[axis] == Coordinate, the most
// common bounding surface in box-like geometries. Grounded exactly on
// PlaneNormal<axis>::function/intersect/transformate.
type PlaneAxis struct {
	surfaceBase
	AxisIdx    Axis
	Coordinate float64
}

// NewPlaneAxis builds an axis-normal plane with the given user id.
func NewPlaneAxis(userID string, axis Axis, coordinate float64) *PlaneAxis {
	return &PlaneAxis{surfaceBase: surfaceBase{userID: userID}, AxisIdx: axis, Coordinate: coordinate}
}

func (p *PlaneAxis) Function(pos Vec3) float64 { return pos[p.AxisIdx] - p.Coordinate }
func (p *PlaneAxis) Sense(pos Vec3) bool       { return p.Function(pos) >= 0 }

func (p *PlaneAxis) Intersect(pos, dir Vec3, sense bool) (float64, bool) {
	dAxis := dir[p.AxisIdx]
	if (!sense && dAxis > 0) || (sense && dAxis < 0) {
		distance := (p.Coordinate - pos[p.AxisIdx]) / dAxis
		if distance < crossingEpsilon {
			distance = crossingEpsilon
		}
		return distance, true
	}
	return 0, false
}

func (p *PlaneAxis) Translate(delta Vec3) Surface {
	return &PlaneAxis{surfaceBase: surfaceBase{userID: p.userID}, AxisIdx: p.AxisIdx, Coordinate: p.Coordinate + delta[p.AxisIdx]}
}

func (p *PlaneAxis) Coeffs() (string, []float64) {
	return "plane-axis", []float64{float64(p.AxisIdx), p.Coordinate}
}

// GeneralPlane is an arbitrary plane A*x + B*y + C*z - D == 0, used
// when a bounding surface isn't axis-aligned.
type GeneralPlane struct {
	surfaceBase
	A, B, C, D float64
}

func NewGeneralPlane(userID string, a, b, c, d float64) *GeneralPlane {
	return &GeneralPlane{surfaceBase: surfaceBase{userID: userID}, A: a, B: b, C: c, D: d}
}

func (p *GeneralPlane) Function(pos Vec3) float64 {
	return p.A*pos[0] + p.B*pos[1] + p.C*pos[2] - p.D
}
func (p *GeneralPlane) Sense(pos Vec3) bool { return p.Function(pos) >= 0 }

func (p *GeneralPlane) Intersect(pos, dir Vec3, sense bool) (float64, bool) {
	denom := p.A*dir[0] + p.B*dir[1] + p.C*dir[2]
	if denom == 0 {
		return 0, false
	}
	movingToward := (!sense && denom > 0) || (sense && denom < 0)
	if !movingToward {
		return 0, false
	}
	f0 := p.A*pos[0] + p.B*pos[1] + p.C*pos[2]
	distance := (p.D - f0) / denom
	if distance < crossingEpsilon {
		distance = crossingEpsilon
	}
	return distance, true
}

func (p *GeneralPlane) Translate(delta Vec3) Surface {
	shift := p.A*delta[0] + p.B*delta[1] + p.C*delta[2]
	return &GeneralPlane{surfaceBase: surfaceBase{userID: p.userID}, A: p.A, B: p.B, C: p.C, D: p.D + shift}
}

func (p *GeneralPlane) Coeffs() (string, []float64) {
	return "plane-general", []float64{p.A, p.B, p.C, p.D}
}

// CylinderAxis is an infinite cylinder whose axis runs parallel to one
// coordinate axis, centered at (c1, c2) in the other two coordinates.
type CylinderAxis struct {
	surfaceBase
	AxisIdx Axis
	C1, C2  float64
	Radius  float64
}

func NewCylinderAxis(userID string, axis Axis, c1, c2, radius float64) *CylinderAxis {
	return &CylinderAxis{surfaceBase: surfaceBase{userID: userID}, AxisIdx: axis, C1: c1, C2: c2, Radius: radius}
}

func (c *CylinderAxis) otherAxes() (ia, ib int) {
	switch c.AxisIdx {
	case AxisX:
		return 1, 2
	case AxisY:
		return 0, 2
	default:
		return 0, 1
	}
}

func (c *CylinderAxis) Function(pos Vec3) float64 {
	ia, ib := c.otherAxes()
	da := pos[ia] - c.C1
	db := pos[ib] - c.C2
	return da*da + db*db - c.Radius*c.Radius
}

func (c *CylinderAxis) Sense(pos Vec3) bool { return c.Function(pos) >= 0 }

func (c *CylinderAxis) Intersect(pos, dir Vec3, sense bool) (float64, bool) {
	ia, ib := c.otherAxes()
	pa, pb := pos[ia]-c.C1, pos[ib]-c.C2
	da, db := dir[ia], dir[ib]

	a := da*da + db*db
	if a == 0 {
		return 0, false
	}
	b := 2 * (pa*da + pb*db)
	cc := pa*pa + pb*pb - c.Radius*c.Radius
	disc := b*b - 4*a*cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	return smallestPositiveRoot(t1, t2, sense)
}

func (c *CylinderAxis) Translate(delta Vec3) Surface {
	ia, ib := c.otherAxes()
	return &CylinderAxis{surfaceBase: surfaceBase{userID: c.userID}, AxisIdx: c.AxisIdx, C1: c.C1 + delta[ia], C2: c.C2 + delta[ib], Radius: c.Radius}
}

func (c *CylinderAxis) Coeffs() (string, []float64) {
	return "cylinder-axis", []float64{float64(c.AxisIdx), c.C1, c.C2, c.Radius}
}

// Quadric is a general second-degree surface
//
//	A x^2 + B y^2 + C z^2 + D xy + E yz + F xz + G x + H y + I z + J = 0
//
// covering any quadric bounding surface not captured by the
// axis-aligned specializations above.
type Quadric struct {
	surfaceBase
	A, B, C, D, E, F, G, H, I, J float64
}

func NewQuadric(userID string, a, b, c, d, e, f, g, h, i, j float64) *Quadric {
	return &Quadric{surfaceBase: surfaceBase{userID: userID}, A: a, B: b, C: c, D: d, E: e, F: f, G: g, H: h, I: i, J: j}
}

func (q *Quadric) Function(p Vec3) float64 {
	x, y, z := p[0], p[1], p[2]
	return q.A*x*x + q.B*y*y + q.C*z*z + q.D*x*y + q.E*y*z + q.F*x*z + q.G*x + q.H*y + q.I*z + q.J
}

func (q *Quadric) Sense(p Vec3) bool { return q.Function(p) >= 0 }

func (q *Quadric) Intersect(p, d Vec3, sense bool) (float64, bool) {
	px, py, pz := p[0], p[1], p[2]
	dx, dy, dz := d[0], d[1], d[2]

	a := q.A*dx*dx + q.B*dy*dy + q.C*dz*dz + q.D*dx*dy + q.E*dy*dz + q.F*dx*dz
	b := 2*q.A*px*dx + 2*q.B*py*dy + 2*q.C*pz*dz +
		q.D*(px*dy+py*dx) + q.E*(py*dz+pz*dy) + q.F*(px*dz+pz*dx) +
		q.G*dx + q.H*dy + q.I*dz
	c := q.Function(p)

	if a == 0 {
		if b == 0 {
			return 0, false
		}
		t := -c / b
		return clampForward(t, sense)
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	return smallestPositiveRoot(t1, t2, sense)
}

func (q *Quadric) Translate(delta Vec3) Surface {
	tx, ty, tz := delta[0], delta[1], delta[2]
	return &Quadric{
		surfaceBase: surfaceBase{userID: q.userID},
		A:           q.A, B: q.B, C: q.C, D: q.D, E: q.E, F: q.F,
		G: q.G - 2*q.A*tx - q.D*ty - q.F*tz,
		H: q.H - 2*q.B*ty - q.D*tx - q.E*tz,
		I: q.I - 2*q.C*tz - q.E*ty - q.F*tx,
		J: q.J + q.A*tx*tx + q.B*ty*ty + q.C*tz*tz + q.D*tx*ty + q.E*ty*tz + q.F*tx*tz - q.G*tx - q.H*ty - q.I*tz,
	}
}

func (q *Quadric) Coeffs() (string, []float64) {
	return "quadric", []float64{q.A, q.B, q.C, q.D, q.E, q.F, q.G, q.H, q.I, q.J}
}

// smallestPositiveRoot picks the smaller of two quadratic roots that
// is still >= crossingEpsilon, falling through to the larger root if
// the smaller one is rejected (negative, moving away from the
// surface). A root at exactly crossingEpsilon is accepted, not
// rejected: a ray starting exactly on a curved surface and moving
// forward along it crosses again at t1 == 0, the same clamp-to-zero
// PlaneNormal::intersect applies rather than a separate tangent-point
// case.
func smallestPositiveRoot(t1, t2 float64, sense bool) (float64, bool) {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 >= crossingEpsilon {
		return t1, true
	}
	if t2 >= crossingEpsilon {
		return t2, true
	}
	return 0, false
}

func clampForward(t float64, sense bool) (float64, bool) {
	if t < crossingEpsilon {
		return 0, false
	}
	return t, true
}
