package geom

import (
	"fmt"
	"math"
)

// profileArcStep is the angular resolution used when discretizing the
// semicircular ends of a capsule profile.
const profileArcStep = math.Pi / 18

// Profile is a closed 2D outline in the canonical frame. The points form
// a single wire; the last point connects back to the first implicitly.
type Profile struct {
	Points []Vec2
}

// Capsule builds the canonical joint-feature profile: two straight edges
// joined by two semicircular arcs, length along Y and width along X. The
// arc radius equals width/2 so a tool of matching diameter can clear the
// full rounded extent. The profile is centered on the origin.
//
// A capsule shorter than it is wide has no straight section and cannot be
// built; that is a construction error, not a clamp.
func Capsule(length, width float64) (Profile, error) {
	if width <= 0 {
		return Profile{}, fmt.Errorf("capsule width %g must be positive", width)
	}
	if length < width {
		return Profile{}, fmt.Errorf("capsule length %g is smaller than width %g", length, width)
	}

	r := width / 2
	half := length/2 - r // arc center offset along Y

	if half < 1e-9 {
		// No straight section: the capsule degenerates to a full circle.
		circle := arcPoints(Vec2{}, r, 0, 2*math.Pi)
		pts := append([]Vec2{{r, 0}}, circle[:len(circle)-1]...)
		return Profile{Points: pts}, nil
	}

	var pts []Vec2
	// Right edge, bottom to top.
	pts = append(pts, Vec2{+r, -half})
	pts = append(pts, Vec2{+r, +half})
	// Top arc, counterclockwise from angle 0 to pi around (0, +half).
	pts = append(pts, arcPoints(Vec2{0, +half}, r, 0, math.Pi)...)
	// Left edge, top to bottom.
	pts = append(pts, Vec2{-r, -half})
	// Bottom arc, counterclockwise from angle pi to 2*pi around (0, -half).
	// The final arc point is the first profile point; closure is implicit.
	bottom := arcPoints(Vec2{0, -half}, r, math.Pi, 2*math.Pi)
	pts = append(pts, bottom[:len(bottom)-1]...)

	p := Profile{Points: pts}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("capsule %gx%g: %w", length, width, err)
	}
	return p, nil
}

// Rectangle builds the canonical stock profile: an axis-aligned rectangle
// of the given length (X) and width (Y) centered on the origin.
func Rectangle(length, width float64) (Profile, error) {
	if length <= 0 || width <= 0 {
		return Profile{}, fmt.Errorf("rectangle %gx%g has a non-positive extent", length, width)
	}
	p := Profile{Points: []Vec2{
		{-length / 2, -width / 2},
		{+length / 2, -width / 2},
		{+length / 2, +width / 2},
		{-length / 2, +width / 2},
	}}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("rectangle %gx%g: %w", length, width, err)
	}
	return p, nil
}

// arcPoints samples the open arc (from, to] around center at the profile
// arc resolution. The starting angle itself is excluded so consecutive
// wire sections do not duplicate their shared point.
func arcPoints(center Vec2, r, from, to float64) []Vec2 {
	var pts []Vec2
	for a := from + profileArcStep; a < to-1e-9; a += profileArcStep {
		pts = append(pts, Vec2{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)})
	}
	pts = append(pts, Vec2{center.X + r*math.Cos(to), center.Y + r*math.Sin(to)})
	return pts
}

// Closed returns the profile points with the first point appended again,
// in the edge-list form the clearing engine consumes.
func (p Profile) Closed() []Vec2 {
	if len(p.Points) == 0 {
		return nil
	}
	return append(append([]Vec2{}, p.Points...), p.Points[0])
}

// Validate checks the profile invariant: a single closed wire with no
// self-intersections. Open or degenerate profiles are construction errors.
func (p Profile) Validate() error {
	n := len(p.Points)
	if n < 3 {
		return fmt.Errorf("profile with %d points is not a closed wire", n)
	}
	if p.Points[0].Sub(p.Points[n-1]).Norm() < 1e-9 {
		return fmt.Errorf("profile duplicates its first point; closure is implicit")
	}
	for i := 0; i < n; i++ {
		a1 := p.Points[i]
		a2 := p.Points[(i+1)%n]
		if a1.Sub(a2).Norm() < 1e-12 {
			return fmt.Errorf("profile has a zero-length segment at index %d", i)
		}
		for j := i + 1; j < n; j++ {
			// Skip segments sharing an endpoint with segment i.
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1 := p.Points[j]
			b2 := p.Points[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return fmt.Errorf("profile self-intersects between segments %d and %d", i, j)
			}
		}
	}
	return nil
}

// segmentsIntersect reports whether the closed segments a1-a2 and b1-b2
// cross, via orientation tests.
func segmentsIntersect(a1, a2, b1, b2 Vec2) bool {
	d1 := cross2(b2.Sub(b1), a1.Sub(b1))
	d2 := cross2(b2.Sub(b1), a2.Sub(b1))
	d3 := cross2(a2.Sub(a1), b1.Sub(a1))
	d4 := cross2(a2.Sub(a1), b2.Sub(a1))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return onSegment(b1, b2, a1) || onSegment(b1, b2, a2) ||
		onSegment(a1, a2, b1) || onSegment(a1, a2, b2)
}

func cross2(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// onSegment reports whether p lies on the segment s1-s2.
func onSegment(s1, s2, p Vec2) bool {
	if math.Abs(cross2(s2.Sub(s1), p.Sub(s1))) > 1e-9 {
		return false
	}
	return math.Min(s1.X, s2.X)-1e-9 <= p.X && p.X <= math.Max(s1.X, s2.X)+1e-9 &&
		math.Min(s1.Y, s2.Y)-1e-9 <= p.Y && p.Y <= math.Max(s1.Y, s2.Y)+1e-9
}
