// Package adaptive defines the contract with the external 2D adaptive
// clearing engine and the fingerprint cache that decides when the engine
// must be re-invoked. The clearing algorithm itself is a black box behind
// the Engine interface; this package owns its typed inputs and outputs.
package adaptive

import (
	"context"

	"github.com/chazu/trusspath/pkg/geom"
)

// MotionType classifies a clearing-result path segment.
type MotionType int

const (
	// Cutting segments remove material and are fed at cutting depth.
	Cutting MotionType = iota
	// LinkClear segments travel over material already cleared at this
	// depth; a small lift is enough.
	LinkClear
	// LinkNotClear segments travel over material not guaranteed clear;
	// the tool must rise to full clearance height.
	LinkNotClear
)

func (m MotionType) String() string {
	switch m {
	case Cutting:
		return "cutting"
	case LinkClear:
		return "link-clear"
	case LinkNotClear:
		return "link-not-clear"
	}
	return "unknown"
}

// OperationType selects what the clearing engine computes. The side of
// the boundary the tool works is part of the value: a mortise pocket is
// cleared inside its profile, a tenon tongue by clearing the stock
// outside it.
type OperationType int

const (
	ClearingInside OperationType = iota
	ClearingOutside
	ProfilingInside
	ProfilingOutside
)

func (o OperationType) String() string {
	switch o {
	case ClearingInside:
		return "clearing-inside"
	case ClearingOutside:
		return "clearing-outside"
	case ProfilingInside:
		return "profiling-inside"
	case ProfilingOutside:
		return "profiling-outside"
	}
	return "unknown"
}

// Inputs collects every parameter that influences the 2D clearing result.
// It is the complete fingerprint domain: any change to any field must
// invalidate a cached result.
type Inputs struct {
	ToolDiameter   float64
	Tolerance      float64
	Feature        geom.Profile
	Stock          geom.Profile
	StepOver       float64 // fraction of tool diameter, 0..1
	HelixDiameter  float64 // helix ramp diameter limit, 0 = no limit
	Operation      OperationType
	ForceInsideOut bool
	KeepToolDown   float64 // keep-tool-down distance ratio
	StockToLeave   float64
}

// minTolerance is the floor applied to the geometric tolerance before an
// engine invocation.
const minTolerance = 0.001

// Normalized returns a copy of in with the tolerance floor applied.
func (in Inputs) Normalized() Inputs {
	if in.Tolerance < minTolerance {
		in.Tolerance = minTolerance
	}
	return in
}

// Segment is one motion-typed run of a region's clearing path.
type Segment struct {
	Motion MotionType
	Points []geom.Vec2
}

// Region is one independently machined area of a clearing result. The
// helix center and start point are reused for the ramp entry of every
// depth pass over the region.
type Region struct {
	HelixCenter geom.Vec2
	StartPoint  geom.Vec2
	Segments    []Segment
}

// Progress is called by the engine with partial results as regions are
// computed. Returning true requests cancellation; the engine must then
// stop and return an error so no partial result is ever cached.
type Progress func(partial []Region) (stop bool)

// Engine is the external 2D adaptive clearing computation. Stock and
// feature boundaries are polygon sets: a list of edges, each edge an
// ordered list of 2D points.
type Engine interface {
	Execute(ctx context.Context, stock, feature [][]geom.Vec2, in Inputs, progress Progress) ([]Region, error)
}
