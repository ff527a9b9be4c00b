package geom

// Transform is a fill transformation: a translation and a rotation
// (degrees per axis), following original_source/Geometry/Universe.hpp's
// Transformation class. Composition is plain vector addition of both
// fields, the same operator+ Universe.hpp defines, so chained
// rotations are not corrected for non-commutativity; see DESIGN.md's
// Open Questions for why this matches the original rather than a
// proper rotation-matrix composition.
//
// Only the translation is ever applied to a Surface (Surface.Translate
// takes a plain Vec3), mirroring Surface::transformate's signature in
// the original, which likewise only accepts a translation Direction.
type Transform struct {
	Translation Vec3
	Rotation    Vec3
}

// Compose returns t followed by other, summing both components.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Translation: Vec3{t.Translation[0] + other.Translation[0], t.Translation[1] + other.Translation[1], t.Translation[2] + other.Translation[2]},
		Rotation:    Vec3{t.Rotation[0] + other.Rotation[0], t.Rotation[1] + other.Rotation[1], t.Rotation[2] + other.Rotation[2]},
	}
}

// Identity is the zero transform.
var Identity = Transform{}
