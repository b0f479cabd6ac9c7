package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/trusspath/pkg/geom"
	"github.com/chazu/trusspath/pkg/job"
	"github.com/chazu/trusspath/pkg/mortise"
)

// builder accumulates the job being defined by a script. Features pick up
// the machining defaults in effect when they are declared, so a `heights`
// form applies to the features that follow it.
type builder struct {
	job      *job.Job
	defaults mortise.Params
}

func newBuilder() *builder {
	return &builder{
		job:      job.New(""),
		defaults: mortise.DefaultParams(),
	}
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3 so placements can be passed between builtins.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpFeature wraps a declared feature so later forms can refer to it.
type sexpFeature struct {
	feature *mortise.Mortise
}

func (f *sexpFeature) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", f.feature.Kind, f.feature.Name)
}
func (f *sexpFeature) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		if ok {
			result.kw[name] = zygo.SexpNull
			i++
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// floatArg reads an optional keyword float into dst.
func floatArg(ka kwArgs, name string, dst *float64) error {
	s, ok := ka.kw[name]
	if !ok {
		return nil
	}
	v, err := toFloat64(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}

// vecArg reads an optional keyword vec3 into dst.
func vecArg(ka kwArgs, name string, dst *geom.Vec3) error {
	s, ok := ka.kw[name]
	if !ok {
		return nil
	}
	v, err := toVec3(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the job-definition forms into the sandbox.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 takes 3 arguments, got %d", len(args))
		}
		var v geom.Vec3
		var err error
		if v.X, err = toFloat64(args[0]); err != nil {
			return zygo.SexpNull, err
		}
		if v.Y, err = toFloat64(args[1]); err != nil {
			return zygo.SexpNull, err
		}
		if v.Z, err = toFloat64(args[2]); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v}, nil
	})

	// (job "description" :tolerance 0.1)
	env.AddFunction("job", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ka := parseArgs(args)
		if len(ka.positional) > 0 {
			desc, err := toString(ka.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("job: %w", err)
			}
			b.job.Description = desc
		}
		if err := floatArg(ka, "tolerance", &b.job.GeometryTolerance); err != nil {
			return zygo.SexpNull, fmt.Errorf("job: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (tool :diameter 12 :vertfeed 1000 :horizfeed 1000 :spindle 3500)
	env.AddFunction("tool", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ka := parseArgs(args)
		if len(ka.positional) > 0 {
			label, err := toString(ka.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: %w", err)
			}
			b.job.Tool.Label = label
		}
		for kw, dst := range map[string]*float64{
			"diameter":   &b.job.Tool.Diameter,
			"vertfeed":   &b.job.Tool.VertFeed,
			"horizfeed":  &b.job.Tool.HorizFeed,
			"vertrapid":  &b.job.Tool.VertRapid,
			"horizrapid": &b.job.Tool.HorizRapid,
			"spindle":    &b.job.Tool.SpindleSpeed,
		} {
			if err := floatArg(ka, kw, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})

	// (heights :clearance 20 :safe 10 :stepdown 10 :finish 2 :helix 5 :lift 1 :stepover 0.2)
	// Applies to the features declared after it.
	env.AddFunction("heights", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ka := parseArgs(args)
		for kw, dst := range map[string]*float64{
			"clearance": &b.defaults.Path.ClearanceHeight,
			"safe":      &b.defaults.Path.SafeHeight,
			"stepdown":  &b.defaults.Path.StepDown,
			"finish":    &b.defaults.Path.FinishStep,
			"helix":     &b.defaults.Path.HelixAngle,
			"lift":      &b.defaults.Path.LiftDistance,
			"stepover":  &b.defaults.StepOver,
		} {
			if err := floatArg(ka, kw, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("heights: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})

	// (mortise "name" :length 60 :width 30 :depth 60
	//          :stock-length 102 :stock-width 102
	//          :position (vec3 ...) :normal (vec3 ...) :direction (vec3 ...))
	feature := func(kind mortise.Kind) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			ka := parseArgs(args)
			if len(ka.positional) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s needs a name", kind)
			}
			fname, err := toString(ka.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}

			m := mortise.New(fname, kind)
			for kw, dst := range map[string]*float64{
				"length":       &m.HoleLength,
				"width":        &m.HoleWidth,
				"depth":        &m.Depth,
				"stock-length": &m.StockLength,
				"stock-width":  &m.StockWidth,
			} {
				if err := floatArg(ka, kw, dst); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s %q: %w", kind, fname, err)
				}
			}
			if err := vecArg(ka, "position", &m.Placement.Position); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", kind, fname, err)
			}
			if err := vecArg(ka, "normal", &m.Placement.Normal); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", kind, fname, err)
			}
			if err := vecArg(ka, "direction", &m.Placement.Direction); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", kind, fname, err)
			}

			// Fail at declaration time, not at recompute time.
			if _, err := m.FeatureProfile(); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", kind, fname, err)
			}
			if _, err := m.StockProfile(); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", kind, fname, err)
			}
			if m.Placement.Normal.IsZero() || m.Placement.Direction.IsZero() {
				return zygo.SexpNull, fmt.Errorf("%s %q: zero-length normal or direction", kind, fname)
			}

			b.job.AddOperation(&job.Operation{Feature: m, Params: b.defaults})
			return &sexpFeature{feature: m}, nil
		}
	}
	env.AddFunction("mortise", feature(mortise.Hole))
	env.AddFunction("tenon", feature(mortise.Tongue))
}
