// Package toolpath expands a 2D adaptive clearing result into the full
// multi-depth machining sequence for one joint feature: depth passes,
// helical ramp entries, motion-classified commands, coordinate completion
// and placement into the feature's target frame.
package toolpath

import "fmt"

// MoveKind is the motion class of a command.
type MoveKind int

const (
	// Rapid moves position the tool above or beside material.
	Rapid MoveKind = iota
	// Feed moves cut at a controlled feed rate.
	Feed
)

func (k MoveKind) String() string {
	if k == Rapid {
		return "rapid"
	}
	return "feed"
}

// Axis flags record which fields of a Command are specified. Commands
// carry only the axes that changed, matching machine-control semantics;
// Complete fills in the rest.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ
	AxisF
)

// Command is a single machine motion: a move kind plus a partial
// coordinate set and optional feed rate.
type Command struct {
	Kind MoveKind
	X    float64
	Y    float64
	Z    float64
	Feed float64
	Set  Axis
}

// Has reports whether the given axis is specified on the command.
func (c Command) Has(a Axis) bool {
	return c.Set&a != 0
}

func move(kind MoveKind) Command {
	return Command{Kind: kind}
}

func (c Command) withX(x float64) Command {
	c.X, c.Set = x, c.Set|AxisX
	return c
}

func (c Command) withY(y float64) Command {
	c.Y, c.Set = y, c.Set|AxisY
	return c
}

func (c Command) withZ(z float64) Command {
	c.Z, c.Set = z, c.Set|AxisZ
	return c
}

func (c Command) withFeed(f float64) Command {
	c.Feed, c.Set = f, c.Set|AxisF
	return c
}

// Complete fills in the axis values each command omits by carrying the
// most recently specified value of every axis forward, so that every
// command holds a full (X,Y,Z) triplet. Once an axis has been written it
// is inherited unchanged until overwritten. A command that needs an axis
// no earlier command ever wrote is a malformed stream.
func Complete(cmds []Command) ([]Command, error) {
	out := make([]Command, len(cmds))
	var cur Command
	for i, c := range cmds {
		if c.Has(AxisX) {
			cur.X = c.X
			cur.Set |= AxisX
		}
		if c.Has(AxisY) {
			cur.Y = c.Y
			cur.Set |= AxisY
		}
		if c.Has(AxisZ) {
			cur.Z = c.Z
			cur.Set |= AxisZ
		}
		if cur.Set&(AxisX|AxisY|AxisZ) != AxisX|AxisY|AxisZ {
			return nil, fmt.Errorf("command %d: axis value consumed before ever being written", i)
		}
		c.X, c.Y, c.Z = cur.X, cur.Y, cur.Z
		c.Set |= AxisX | AxisY | AxisZ
		out[i] = c
	}
	return out, nil
}

// Toolpath is the ordered command sequence produced for one feature,
// together with the candidate rotary alignment angles derived from the
// feature normal. It is regenerated in full on every recompute and never
// mutated incrementally.
type Toolpath struct {
	Commands []Command

	// Candidate rotary-axis alignment angle pairs, one per machine
	// configuration. Where the alignment command belongs in the sequence
	// is a machine-specific policy; no insertion is performed here.
	AroundXZ RotaryAngles
	AroundYZ RotaryAngles
}
