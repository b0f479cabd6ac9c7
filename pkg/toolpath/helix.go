package toolpath

import (
	"math"

	"github.com/chazu/trusspath/pkg/geom"
)

const (
	// minHelixRadius is the radius below which a ramp is physically
	// meaningless; the planner skips the ramp entirely.
	minHelixRadius = 0.0001
	// minHelixAngleDeg is the safety floor for the configured descent angle.
	minHelixAngleDeg = 1.0
	// rampAngleStep is the fixed angular increment between ramp points.
	rampAngleStep = math.Pi / 18
)

// RampPoint is one point of a helical ramp entry. Sweep marks the points
// of the extra full revolution run at the pass end depth after the target
// depth has been reached.
type RampPoint struct {
	P     geom.Vec2
	Z     float64
	Sweep bool
}

// PlanRamp computes the helical ramp entry for one region and one pass.
// The region's helix center and start point are fixed by the clearing
// result and reused at every depth; the depth span passStart-passEnd sets
// how many revolutions the descent needs.
//
// The descent pitch follows from the helix being a screw line of
// circumference 2*pi*r descending at the configured angle: each full
// revolution drops circumference*tan(angle). After reaching the pass end
// depth one extra full revolution is appended at that depth so the helix
// center is swept and cleared.
//
// A degenerate radius (at or below minHelixRadius) returns nil: the
// caller plunges straight to depth instead.
func PlanRamp(center, start geom.Vec2, passStart, passEnd, helixAngleDeg float64) []RampPoint {
	r := start.Sub(center).Norm()
	if r <= minHelixRadius {
		return nil
	}
	if helixAngleDeg < minHelixAngleDeg {
		helixAngleDeg = minHelixAngleDeg
	}

	startAngle := math.Atan2(start.Y-center.Y, start.X-center.X)
	circumference := 2 * math.Pi * r
	depthPerRevolution := circumference * math.Tan(helixAngleDeg*math.Pi/180)
	passDepth := passStart - passEnd
	maxRadians := passDepth / depthPerRevolution * 2 * math.Pi

	at := func(rad float64) geom.Vec2 {
		return geom.Vec2{
			X: center.X + r*math.Cos(rad+startAngle),
			Y: center.Y + r*math.Sin(rad+startAngle),
		}
	}

	var pts []RampPoint
	rad := 0.0
	for rad < maxRadians {
		z := passStart - rad/maxRadians*passDepth
		pts = append(pts, RampPoint{P: at(rad), Z: z})
		rad += rampAngleStep
	}

	// One more full circle at target depth to clear the helix center.
	total := maxRadians + 2*math.Pi
	for rad < total {
		pts = append(pts, RampPoint{P: at(rad), Z: passEnd, Sweep: true})
		rad += rampAngleStep
	}
	return pts
}

// HelixStart returns the point on the helix circle at the region's start
// angle; the entry approach rapids to this point before plunging.
func HelixStart(center, start geom.Vec2) geom.Vec2 {
	r := start.Sub(center).Norm()
	a := math.Atan2(start.Y-center.Y, start.X-center.X)
	return geom.Vec2{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
}
