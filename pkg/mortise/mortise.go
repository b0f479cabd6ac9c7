// Package mortise implements the mortise/tenon joint feature: a
// capsule-shaped pocket (hole) or tongue cut into rectangular stock by a
// single fixed-diameter tool. The feature owns its canonical profiles,
// its clearing-result cache and its generated toolpath; all of them are
// rebuilt from the defining parameters on recompute.
package mortise

import (
	"context"
	"fmt"

	"github.com/chazu/trusspath/pkg/adaptive"
	"github.com/chazu/trusspath/pkg/geom"
	"github.com/chazu/trusspath/pkg/kernel"
	"github.com/chazu/trusspath/pkg/toolpath"
)

// Kind distinguishes the two halves of the joint.
type Kind int

const (
	// Hole is the mortise pocket; material inside the capsule is cleared.
	Hole Kind = iota
	// Tongue is the tenon; the stock around the capsule is cleared away.
	Tongue
)

func (k Kind) String() string {
	if k == Hole {
		return "hole"
	}
	return "tongue"
}

// Default feature dimensions in mm, a common timber-frame joint.
const (
	DefaultHoleLength  = 60
	DefaultHoleWidth   = 30
	DefaultStockLength = 102
	DefaultStockWidth  = 102
	DefaultDepth       = 60
)

// Mortise is one joint feature. Position, Normal and Direction locate the
// feature in the workpiece; profiles and toolpaths are generated in the
// canonical frame and relocated through the derived rigid transform.
type Mortise struct {
	Name string
	Kind Kind

	HoleLength  float64
	HoleWidth   float64
	StockLength float64
	StockWidth  float64
	Depth       float64

	Placement geom.Placement

	cache adaptive.Cache
	path  *toolpath.Toolpath
}

// New creates a feature with default dimensions at the canonical frame.
func New(name string, kind Kind) *Mortise {
	return &Mortise{
		Name:        name,
		Kind:        kind,
		HoleLength:  DefaultHoleLength,
		HoleWidth:   DefaultHoleWidth,
		StockLength: DefaultStockLength,
		StockWidth:  DefaultStockWidth,
		Depth:       DefaultDepth,
		Placement: geom.Placement{
			Normal:    geom.CanonicalNormal,
			Direction: geom.CanonicalDirection,
		},
	}
}

// FeatureProfile builds the canonical capsule profile for the joint.
func (m *Mortise) FeatureProfile() (geom.Profile, error) {
	return geom.Capsule(m.HoleLength, m.HoleWidth)
}

// StockProfile builds the canonical stock outline, centered on the origin.
func (m *Mortise) StockProfile() (geom.Profile, error) {
	return geom.Rectangle(m.StockLength, m.StockWidth)
}

// Operation returns the clearing operation for the feature kind: a hole
// clears inside its profile, a tongue clears the stock outside it.
func (m *Mortise) Operation() adaptive.OperationType {
	if m.Kind == Hole {
		return adaptive.ClearingInside
	}
	return adaptive.ClearingOutside
}

// Toolpath returns the last successfully generated toolpath, or nil.
func (m *Mortise) Toolpath() *toolpath.Toolpath {
	return m.path
}

// Params collects the machining parameters of one recompute: the knobs
// that feed the 2D clearing engine plus the depth expansion parameters.
type Params struct {
	Tolerance          float64
	StepOver           float64 // fraction of tool diameter
	HelixDiameterLimit float64
	ForceInsideOut     bool
	KeepToolDownRatio  float64
	StockToLeave       float64

	Path toolpath.Params
}

// DefaultParams returns the stock parameter set for a 12mm endmill.
func DefaultParams() Params {
	return Params{
		Tolerance:         0.1,
		StepOver:          0.2,
		KeepToolDownRatio: 3.0,
		Path: toolpath.Params{
			ToolDiameter:    12,
			LiftDistance:    1, // clamped up to the tool diameter on emission
			ClearanceHeight: 20,
			SafeHeight:      10,
			StepDown:        10,
			HelixAngle:      5,
			VertFeed:        100,
			HorizFeed:       100,
		},
	}
}

// Recompute regenerates the feature's toolpath: canonical profiles, the
// cached (or freshly computed) 2D clearing result, multi-depth expansion,
// coordinate completion and placement. Machining starts at depth zero on
// the canonical profile plane and ends at the feature depth below it.
//
// On any failure the previous toolpath and the previous cache entry are
// left untouched, so a later recompute can retry from the last good state.
func (m *Mortise) Recompute(ctx context.Context, eng adaptive.Engine, p Params, progress adaptive.Progress) error {
	feature, err := m.FeatureProfile()
	if err != nil {
		return fmt.Errorf("mortise %q: %w", m.Name, err)
	}
	stock, err := m.StockProfile()
	if err != nil {
		return fmt.Errorf("mortise %q: %w", m.Name, err)
	}

	in := adaptive.Inputs{
		ToolDiameter:   p.Path.ToolDiameter,
		Tolerance:      p.Tolerance,
		Feature:        feature,
		Stock:          stock,
		StepOver:       p.StepOver,
		HelixDiameter:  p.HelixDiameterLimit,
		Operation:      m.Operation(),
		ForceInsideOut: p.ForceInsideOut,
		KeepToolDown:   p.KeepToolDownRatio,
		StockToLeave:   p.StockToLeave,
	}

	regions, err := m.cache.Result(ctx, eng, in, progress)
	if err != nil {
		return fmt.Errorf("mortise %q: %w", m.Name, err)
	}

	pathParams := p.Path
	pathParams.StartDepth = 0
	pathParams.FinalDepth = -m.Depth

	cmds, err := toolpath.Emit(regions, pathParams)
	if err != nil {
		return fmt.Errorf("mortise %q: %w", m.Name, err)
	}

	placed, err := toolpath.Place(cmds, m.Placement)
	if err != nil {
		return fmt.Errorf("mortise %q: %w", m.Name, err)
	}

	m.path = placed
	return nil
}

// CacheValid reports whether the feature holds a cached clearing result.
func (m *Mortise) CacheValid() bool {
	return m.cache.Valid()
}

// InvalidateCache drops the cached clearing result, forcing the next
// recompute to invoke the engine.
func (m *Mortise) InvalidateCache() {
	m.cache.Invalidate()
}

// Solid builds the feature's placed solid: the extruded capsule for a
// hole, or the stock with the capsule cut away for a tongue.
func (m *Mortise) Solid(k kernel.Kernel) (kernel.Solid, error) {
	if m.Depth <= 0 {
		return nil, fmt.Errorf("mortise %q: depth %g must be positive", m.Name, m.Depth)
	}
	feature, err := m.FeatureProfile()
	if err != nil {
		return nil, fmt.Errorf("mortise %q: %w", m.Name, err)
	}

	capsule, err := k.Extrude(feature, m.Depth)
	if err != nil {
		return nil, fmt.Errorf("mortise %q: %w", m.Name, err)
	}

	var solid kernel.Solid
	if m.Kind == Hole {
		solid = capsule
	} else {
		stockSolid, err := m.StockSolid(k)
		if err != nil {
			return nil, err
		}
		solid = k.Difference(stockSolid, capsule)
	}

	t, err := geom.NewTransform(m.Placement)
	if err != nil {
		return nil, fmt.Errorf("mortise %q: %w", m.Name, err)
	}
	return k.Place(solid, t), nil
}

// StockSolid builds the feature's stock extrusion in the canonical frame.
func (m *Mortise) StockSolid(k kernel.Kernel) (kernel.Solid, error) {
	if m.Depth <= 0 {
		return nil, fmt.Errorf("mortise %q: depth %g must be positive", m.Name, m.Depth)
	}
	stock, err := m.StockProfile()
	if err != nil {
		return nil, fmt.Errorf("mortise %q: %w", m.Name, err)
	}
	solid, err := k.Extrude(stock, m.Depth)
	if err != nil {
		return nil, fmt.Errorf("mortise %q: %w", m.Name, err)
	}
	return solid, nil
}
