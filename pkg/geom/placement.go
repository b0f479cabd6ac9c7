package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Canonical frame for joint features: profiles are built at the origin
// with the feature normal along +Z and its direction along +Y.
var (
	CanonicalNormal    = Vec3{0, 0, 1}
	CanonicalDirection = Vec3{0, 1, 0}
)

// Placement describes the target frame of a feature: where it sits in the
// workpiece and how it is oriented. Normal and Direction need not be unit
// length; they are normalized when the transform is derived.
type Placement struct {
	Position  Vec3
	Normal    Vec3
	Direction Vec3
}

// AxisAngle is a rotation of Angle radians about Axis (right-hand rule).
type AxisAngle struct {
	Axis  Vec3
	Angle float64
}

// Transform is the rigid transform derived from a Placement:
//
//	T(v) = Position + Rotate(canonical normal -> Normal)(Rotate(canonical direction -> Direction)(v))
//
// Composing as RotateNormal * RotateDirection aligns the normal first and
// applies the direction alignment within the normal-aligned frame; the two
// rotations do not commute and this order is part of the contract.
type Transform struct {
	rotNormal    r3.Rotation
	rotDirection r3.Rotation
	axisAngles   [2]AxisAngle
	translation  Vec3
}

// NewTransform derives the rigid transform for a placement. A zero-length
// normal or direction describes no frame and is an error.
func NewTransform(p Placement) (Transform, error) {
	if p.Normal.IsZero() {
		return Transform{}, fmt.Errorf("placement normal is zero-length")
	}
	if p.Direction.IsZero() {
		return Transform{}, fmt.Errorf("placement direction is zero-length")
	}

	rotN, aaN := rotationBetween(CanonicalNormal, p.Normal)
	rotD, aaD := rotationBetween(CanonicalDirection, p.Direction)

	return Transform{
		rotNormal:    rotN,
		rotDirection: rotD,
		axisAngles:   [2]AxisAngle{aaN, aaD},
		translation:  p.Position,
	}, nil
}

// Apply maps a point from the canonical frame to the target frame.
func (t Transform) Apply(v Vec3) Vec3 {
	q := t.rotDirection.Rotate(r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	q = t.rotNormal.Rotate(q)
	return Vec3{q.X, q.Y, q.Z}.Add(t.translation)
}

// Rotations returns the normal-alignment and direction-alignment rotations
// as axis-angle pairs in matrix-composition order: multiplying
// Translate * Rotations()[0] * Rotations()[1] reproduces the transform.
// Kernel backends use these to place solids with the same transform
// applied to toolpath coordinates.
func (t Transform) Rotations() [2]AxisAngle {
	return t.axisAngles
}

// Translation returns the translation component of the transform.
func (t Transform) Translation() Vec3 {
	return t.translation
}

// rotationBetween returns the minimal rotation taking unit(from) to
// unit(to), as both an r3.Rotation and an axis-angle pair.
func rotationBetween(from, to Vec3) (r3.Rotation, AxisAngle) {
	f := from.Scale(1 / from.Norm())
	g := to.Scale(1 / to.Norm())

	axis := f.Cross(g)
	s := axis.Norm()
	c := f.Dot(g)

	if s < 1e-12 {
		if c > 0 {
			// Parallel: identity.
			return r3.NewRotation(0, r3.Vec{Z: 1}), AxisAngle{Axis: Vec3{Z: 1}, Angle: 0}
		}
		// Antiparallel: rotate pi about any axis perpendicular to from.
		perp := f.Cross(Vec3{X: 1})
		if perp.IsZero() {
			perp = f.Cross(Vec3{Y: 1})
		}
		perp = perp.Scale(1 / perp.Norm())
		return r3.NewRotation(math.Pi, r3.Vec{X: perp.X, Y: perp.Y, Z: perp.Z}),
			AxisAngle{Axis: perp, Angle: math.Pi}
	}

	angle := math.Atan2(s, c)
	unit := axis.Scale(1 / s)
	return r3.NewRotation(angle, r3.Vec{X: unit.X, Y: unit.Y, Z: unit.Z}),
		AxisAngle{Axis: unit, Angle: angle}
}
