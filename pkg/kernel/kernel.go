// Package kernel defines the abstract solid-modeling kernel interface
// used to turn 2D joint profiles into placed 3D solids for stock sizing
// and preview meshes. Implementations (sdfx) provide the solid modeling
// behind this interface, so backends can be swapped without changing the
// rest of the system.
package kernel

import "github.com/chazu/trusspath/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid-modeling kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Extrude sweeps a closed profile from its plane at z=0 down to
	// z=-depth, the direction a feature is machined into the stock.
	Extrude(p geom.Profile, depth float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, v geom.Vec3) Solid
	// Place applies a rigid placement, the same transform the feature's
	// toolpath coordinates go through.
	Place(s Solid, t geom.Transform) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
