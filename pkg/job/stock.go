// Package job provides the machining-job bookkeeping around joint
// features: stock sizing, the tool controller, the ordered operation
// list and the sequential recompute that regenerates every toolpath.
package job

import (
	"fmt"

	"github.com/chazu/trusspath/pkg/geom"
	"github.com/chazu/trusspath/pkg/kernel"
)

// MinStockExtent is the floor for any stock dimension.
const MinStockExtent = 0.001

// Allowance is extra stock material beyond a part's bounding box, per axis.
type Allowance struct {
	X, Y, Z float64
}

// DefaultAllowance is the extra material left around a base part.
var DefaultAllowance = Allowance{X: 1, Y: 1, Z: 1}

// StockFromBase sizes a stock box around the bounding box of a base
// solid, with separate negative- and positive-direction allowances.
func StockFromBase(k kernel.Kernel, base kernel.Solid, neg, pos Allowance) kernel.Solid {
	min, max := base.BoundingBox()

	length := max[0] - min[0] + neg.X + pos.X
	width := max[1] - min[1] + neg.Y + pos.Y
	height := max[2] - min[2] + neg.Z + pos.Z

	center := geom.Vec3{
		X: (min[0]+max[0])/2 + (pos.X-neg.X)/2,
		Y: (min[1]+max[1])/2 + (pos.Y-neg.Y)/2,
		Z: (min[2]+max[2])/2 + (pos.Z-neg.Z)/2,
	}

	box := k.Box(floorExtent(length), floorExtent(width), floorExtent(height))
	return k.Translate(box, center)
}

// StockBox creates a free-standing stock box of the given extents,
// centered on the origin.
func StockBox(k kernel.Kernel, x, y, z float64) kernel.Solid {
	return k.Box(floorExtent(x), floorExtent(y), floorExtent(z))
}

// StockCylinder creates a free-standing cylindrical stock blank, for
// round-section members.
func StockCylinder(k kernel.Kernel, radius, height float64) kernel.Solid {
	return k.Cylinder(floorExtent(height), floorExtent(radius))
}

func floorExtent(v float64) float64 {
	if v < MinStockExtent {
		return MinStockExtent
	}
	return v
}

// StockMesh renders a stock solid to a labeled preview mesh.
func StockMesh(k kernel.Kernel, s kernel.Solid, label string) (*kernel.Mesh, error) {
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("stock mesh %q: %w", label, err)
	}
	m.Label = label
	return m, nil
}
