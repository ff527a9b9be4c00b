package source

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// Vec3 is the position/direction vector shared with internal/geom and
// internal/reaction; aliased here rather than reimplemented, per the
// same fmom.Vec3 convention used throughout the kernel.
type Vec3 = fmom.Vec3

func dot(v, o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func norm(v Vec3) float64 { return math.Sqrt(dot(v, v)) }

func scale(v Vec3, s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

func sub(v, o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func add(v, o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func normalize(v Vec3) Vec3 {
	n := norm(v)
	if n == 0 {
		return v
	}
	return scale(v, 1/n)
}

// orthonormalBasis returns two unit vectors perpendicular to each
// other and to axis, for building an offset in the plane normal to a
// cylinder's axis.
func orthonormalBasis(axis Vec3) (u, v Vec3) {
	w := normalize(axis)
	if math.Abs(w[0]) > 0.9 {
		u = Vec3{0, 1, 0}
	} else {
		u = Vec3{1, 0, 0}
	}
	u = normalize(sub(u, scale(w, dot(u, w))))
	v = Vec3{
		w[1]*u[2] - w[2]*u[1],
		w[2]*u[0] - w[0]*u[2],
		w[0]*u[1] - w[1]*u[0],
	}
	return u, v
}

// rotateAbout rotates the unit direction dir by polar cosine mu and
// azimuthal angle phi about its own axis, the same axis-angle
// construction internal/reaction uses to turn a sampled (mu, phi) pair
// into a lab-frame direction.
func rotateAbout(dir Vec3, mu, phi float64) Vec3 {
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	cosPhi := math.Cos(phi)
	sinPhi := math.Sin(phi)
	u, v := orthonormalBasis(dir)
	w := normalize(dir)
	return Vec3{
		mu*w[0] + sinTheta*(cosPhi*u[0]+sinPhi*v[0]),
		mu*w[1] + sinTheta*(cosPhi*u[1]+sinPhi*v[1]),
		mu*w[2] + sinTheta*(cosPhi*u[2]+sinPhi*v[2]),
	}
}
