package reaction

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// Vec3 is the particle position/direction vector, the same type the
// transport driver and the rest of this package share; fields are
// updated component-by-component rather than through operator
// overloading.
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

// rotateAbout rotates the unit direction dir by polar cosine mu and
// azimuthal angle phi about its own axis, the same axis-angle
// construction used throughout the ACE reaction library for
// converting a sampled (mu, phi) pair into a new lab-frame direction.
func rotateAbout(dir Vec3, mu, phi float64) Vec3 {
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	cosPhi := math.Cos(phi)
	sinPhi := math.Sin(phi)

	// Build an orthonormal basis (u, v, w) with w == dir.
	w := dir
	var u Vec3
	if math.Abs(w[0]) > 0.9 {
		u = Vec3{0, 1, 0}
	} else {
		u = Vec3{1, 0, 0}
	}
	u = normalize(sub(u, scale(w, dot(u, w))))
	v := Vec3{
		w[1]*u[2] - w[2]*u[1],
		w[2]*u[0] - w[0]*u[2],
		w[0]*u[1] - w[1]*u[0],
	}

	return Vec3{
		mu*w[0] + sinTheta*(cosPhi*u[0]+sinPhi*v[0]),
		mu*w[1] + sinTheta*(cosPhi*u[1]+sinPhi*v[1]),
		mu*w[2] + sinTheta*(cosPhi*u[2]+sinPhi*v[2]),
	}
}

// Elastic samples a center-of-mass scattering cosine from the
// isotope's angular table, optionally samples free-gas target motion
// below a configured energy/AWR threshold, and converts the result to
// the lab frame.
type Elastic struct {
	Angular CosineTable
	AWR     float64
}

// FreeGasParams carries the configured energy and AWR thresholds below
// and under which free-gas target motion is sampled instead of
// treating the target as at rest.
type FreeGasParams struct {
	EnergyThreshold float64
	AWRThreshold    float64
	Temperature     float64 // target thermal temperature, in the same energy units as Energy
}

// Scatter performs one elastic collision. incidentEnergy and dir are
// the particle's pre-collision lab-frame energy and direction; draw
// supplies independent uniform(0,1) values. It returns the
// post-collision lab-frame energy and direction.
func (e *Elastic) Scatter(incidentEnergy float64, dir Vec3, fg *FreeGasParams, draw func() float64) (float64, Vec3) {
	muCM := e.Angular.Sample(draw())
	phi := 2 * math.Pi * draw()

	A := e.AWR
	useFreeGas := fg != nil && incidentEnergy < fg.EnergyThreshold && A < fg.AWRThreshold
	if !useFreeGas {
		return e.staticTargetScatter(incidentEnergy, dir, muCM, phi, A)
	}
	return e.freeGasScatter(incidentEnergy, dir, fg, draw)
}

// staticTargetScatter performs the standard two-body elastic
// kinematics against a target at rest, converting the sampled CM
// cosine into a lab-frame energy and direction.
func (e *Elastic) staticTargetScatter(incidentEnergy float64, dir Vec3, muCM, phi, A float64) (float64, Vec3) {
	denom := A*A + 2*A*muCM + 1
	energyOut := incidentEnergy * denom / ((A + 1) * (A + 1))
	muLab := (A*muCM + 1) / math.Sqrt(denom)
	newDir := rotateAbout(dir, clampMu(muLab), phi)
	return energyOut, newDir
}

// freeGasScatter samples a target velocity from a Maxwell-Boltzmann
// distribution at fg.Temperature (rejecting on the relative-speed
// weighting, the standard free-gas treatment), performs the elastic
// collision in the target's rest frame, then converts the result back
// to the lab frame.
func (e *Elastic) freeGasScatter(incidentEnergy float64, dir Vec3, fg *FreeGasParams, draw func() float64) (float64, Vec3) {
	A := e.AWR
	neutronSpeed := math.Sqrt(incidentEnergy)
	vn := scale(dir, neutronSpeed)

	target := sampleTargetVelocity(A, fg.Temperature, vn, draw)

	// Relative velocity and its magnitude, in the lab frame.
	vrel := sub(vn, target)
	speedRel := norm(vrel)
	if speedRel == 0 {
		return incidentEnergy, dir
	}
	relDir := scale(vrel, 1/speedRel)

	muCM := e.Angular.Sample(draw())
	phi := 2 * math.Pi * draw()
	relEnergy := speedRel * speedRel

	// Elastic collision in the CM frame of (neutron, target): the CM
	// velocity is the mass-weighted average; the neutron's post-
	// collision velocity relative to CM has the same magnitude as
	// before, rotated by (muCM, phi).
	vcm := add(scale(vn, 1/(A+1)), scale(target, A/(A+1)))
	relOut := scale(rotateAbout(relDir, clampMu(muCM), phi), math.Sqrt(relEnergy)*A/(A+1))
	vnOut := add(vcm, relOut)

	energyOut := dot(vnOut, vnOut)
	if energyOut <= 0 {
		return incidentEnergy, dir
	}
	return energyOut, normalize(vnOut)
}

// sampleTargetVelocity draws a target velocity from a Maxwell-
// Boltzmann distribution at temperature T (in the same units as
// energy, so the thermal speed scale is sqrt(T/A)), rejecting samples
// whose relative speed with the incident neutron is inconsistent with
// the "fast neutron hits slow target" weighting, the constant-cross-
// section free-gas rejection scheme every production Monte Carlo
// transport code uses at thermal energies.
func sampleTargetVelocity(awr, temperature float64, vn Vec3, draw func() float64) Vec3 {
	if temperature <= 0 {
		return Vec3{}
	}
	speedScale := math.Sqrt(temperature / awr)
	neutronSpeed := norm(vn)
	for attempt := 0; attempt < 1000; attempt++ {
		// Sample a Maxwellian speed from x = -ln(xi1*xi2), a
		// two-uniform shortcut with no cosine term, and an isotropic
		// direction.
		x := -math.Log(draw() * draw())
		speed := speedScale * math.Sqrt(x)
		mu := 1 - 2*draw()
		phi := 2 * math.Pi * draw()
		dir := rotateAbout(Vec3{0, 0, 1}, mu, phi)
		target := scale(dir, speed)

		relSpeed := norm(sub(vn, target))
		// Acceptance probability proportional to relSpeed/(neutronSpeed+speed),
		// the standard ratio that corrects the sampling density to the
		// true relative-velocity-weighted distribution.
		if neutronSpeed+speed <= 0 {
			continue
		}
		if draw() <= relSpeed/(neutronSpeed+speed) {
			return target
		}
	}
	return Vec3{}
}

func clampMu(mu float64) float64 {
	if mu > 1 {
		return 1
	}
	if mu < -1 {
		return -1
	}
	return mu
}
