package toolpath

import (
	"fmt"
	"math"

	"github.com/chazu/trusspath/pkg/geom"
)

// RotaryAngles is one candidate pair of rotary-axis alignment angles, in
// degrees rounded to five decimals. First is the angle about the first
// rotary axis of the configuration, Second the angle about Z.
type RotaryAngles struct {
	First  float64
	Second float64
}

// roundAngle rounds a degree value to five decimal digits.
func roundAngle(deg float64) float64 {
	return math.Round(deg*1e5) / 1e5
}

// RotaryAlignment derives the candidate rotary alignment angle pairs from
// the feature normal, for the two possible machine rotary configurations:
// rotation around X then Z, and rotation around Y then Z. atan2 over the
// normal components yields both magnitude and quadrant sign.
func RotaryAlignment(n geom.Vec3) (aroundXZ, aroundYZ RotaryAngles) {
	const radToDeg = 180 / math.Pi
	aroundXZ = RotaryAngles{
		First:  roundAngle(math.Atan2(n.Y, n.Z) * radToDeg),
		Second: roundAngle(math.Atan2(n.X, n.Y) * radToDeg),
	}
	aroundYZ = RotaryAngles{
		First:  roundAngle(math.Atan2(n.X, n.Z) * radToDeg),
		Second: roundAngle(math.Atan2(n.Y, n.X) * radToDeg),
	}
	return aroundXZ, aroundYZ
}

// Place completes the command stream and maps every coordinate through
// the placement's rigid transform, relocating the toolpath from the
// canonical frame to the feature's target frame. The returned toolpath
// carries the candidate rotary alignment angles for the placement normal;
// sequencing the alignment command into the path is left to the consumer,
// since inserting it shifts the effective path position.
func Place(cmds []Command, placement geom.Placement) (*Toolpath, error) {
	t, err := geom.NewTransform(placement)
	if err != nil {
		return nil, fmt.Errorf("placing toolpath: %w", err)
	}

	completed, err := Complete(cmds)
	if err != nil {
		return nil, fmt.Errorf("placing toolpath: %w", err)
	}

	out := make([]Command, len(completed))
	for i, c := range completed {
		p := t.Apply(geom.Vec3{X: c.X, Y: c.Y, Z: c.Z})
		c.X, c.Y, c.Z = p.X, p.Y, p.Z
		out[i] = c
	}

	xz, yz := RotaryAlignment(placement.Normal)
	return &Toolpath{Commands: out, AroundXZ: xz, AroundYZ: yz}, nil
}
