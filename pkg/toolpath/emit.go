package toolpath

import (
	"fmt"

	"github.com/chazu/trusspath/pkg/adaptive"
)

// Params configures one emission run: heights, depth stepping, the helix
// entry and the feed rates of the tool doing the cutting.
type Params struct {
	ToolDiameter    float64
	LiftDistance    float64 // lift for clear links; clamped to >= tool diameter
	ClearanceHeight float64 // above all obstructions
	SafeHeight      float64 // rapid/feed boundary above the stock
	StartDepth      float64
	StepDown        float64
	FinishStep      float64
	FinalDepth      float64
	HelixAngle      float64 // degrees
	VertFeed        float64 // plunging and ramping
	HorizFeed       float64 // clearing
}

// clamped returns a copy of p with the per-run safety clamps applied:
// step-down >= MinStepDown, lift distance >= tool diameter (so rapids
// always clear the material), finish step <= step-down and helix angle
// >= 1 degree.
func (p Params) clamped() Params {
	p.StepDown, p.FinishStep = clampSteps(p.StepDown, p.FinishStep)
	if p.LiftDistance < p.ToolDiameter {
		p.LiftDistance = p.ToolDiameter
	}
	if p.HelixAngle < minHelixAngleDeg {
		p.HelixAngle = minHelixAngleDeg
	}
	return p
}

// emitter tracks the carried state of one emission run: the command list
// so far and the height the tool was last sent to, so redundant Z moves
// are suppressed.
type emitter struct {
	p     Params
	cmds  []Command
	lastZ float64
}

// Emit expands the clearing regions into the full machining sequence:
// for every pass-end depth, every region is entered with a helical ramp
// and cleared before the next, deeper pass begins. Motion classification
// follows the clearing engine's segment types; rapids over uncleared
// material rise to full clearance height.
func Emit(regions []adaptive.Region, p Params) ([]Command, error) {
	if len(regions) == 0 {
		return nil, nil
	}
	p = p.clamped()

	depths, err := Sequence(p.StartDepth, p.FinalDepth, p.StepDown, p.FinishStep)
	if err != nil {
		return nil, fmt.Errorf("depth sequencing: %w", err)
	}

	e := &emitter{p: p, lastZ: p.ClearanceHeight}
	passStart := p.StartDepth
	for _, passEnd := range depths {
		for _, region := range regions {
			e.rampEntry(region, passStart, passEnd)
			e.clearing(region, passEnd)
			e.returnToClearance()
		}
		passStart = passEnd
		e.returnToClearance()
	}
	e.returnToClearance()
	return e.cmds, nil
}

func (e *emitter) emit(c Command) {
	e.cmds = append(e.cmds, c)
}

// rampEntry approaches the region's helix start from clearance height and
// descends to the pass end depth, helically when the helix radius allows
// it and with a straight plunge otherwise.
func (e *emitter) rampEntry(region adaptive.Region, passStart, passEnd float64) {
	ramp := PlanRamp(region.HelixCenter, region.StartPoint, passStart, passEnd, e.p.HelixAngle)

	if ramp == nil {
		// Degenerate helix radius: no ramp is meaningful, plunge straight.
		sp := region.StartPoint
		e.emit(move(Rapid).withX(sp.X).withY(sp.Y).withZ(e.p.ClearanceHeight))
		e.emit(move(Feed).withX(sp.X).withY(sp.Y).withZ(passEnd).withFeed(e.p.VertFeed))
		e.lastZ = passEnd
		return
	}

	hs := HelixStart(region.HelixCenter, region.StartPoint)
	e.emit(move(Rapid).withX(hs.X).withY(hs.Y).withZ(e.p.ClearanceHeight))
	e.emit(move(Rapid).withX(hs.X).withY(hs.Y).withZ(e.p.SafeHeight))
	e.emit(move(Feed).withX(hs.X).withY(hs.Y).withZ(passStart).withFeed(e.p.VertFeed))

	for _, rp := range ramp {
		feed := e.p.VertFeed
		if rp.Sweep {
			feed = e.p.HorizFeed
		}
		e.emit(move(Feed).withX(rp.P.X).withY(rp.P.Y).withZ(rp.Z).withFeed(feed))
	}
	e.lastZ = passEnd
}

// clearing consumes the region's motion-typed segments at the given pass
// end depth. A Z command is only emitted when the height actually changes
// between consecutive points.
func (e *emitter) clearing(region adaptive.Region, passEnd float64) {
	for _, seg := range region.Segments {
		for _, pt := range seg.Points {
			switch seg.Motion {
			case adaptive.Cutting:
				if passEnd != e.lastZ {
					e.emit(move(Feed).withZ(passEnd).withFeed(e.p.VertFeed))
					e.lastZ = passEnd
				}
				e.emit(move(Feed).withX(pt.X).withY(pt.Y).withFeed(e.p.HorizFeed))
			case adaptive.LinkClear:
				z := passEnd + e.p.LiftDistance
				if z != e.lastZ {
					e.emit(move(Rapid).withZ(z))
					e.lastZ = z
				}
				e.emit(move(Rapid).withX(pt.X).withY(pt.Y))
			case adaptive.LinkNotClear:
				// Material along the link is not guaranteed clear; rise
				// above all obstructions.
				z := e.p.ClearanceHeight
				if z != e.lastZ {
					e.emit(move(Rapid).withZ(z))
					e.lastZ = z
				}
				e.emit(move(Rapid).withX(pt.X).withY(pt.Y))
			}
		}
	}
}

// returnToClearance raises the tool to clearance height unless it is
// already there.
func (e *emitter) returnToClearance() {
	if e.lastZ != e.p.ClearanceHeight {
		e.emit(move(Rapid).withZ(e.p.ClearanceHeight))
		e.lastZ = e.p.ClearanceHeight
	}
}
