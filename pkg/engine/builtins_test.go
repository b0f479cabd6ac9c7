package engine

import (
	"testing"

	"github.com/chazu/trusspath/pkg/geom"
	"github.com/chazu/trusspath/pkg/mortise"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(job :tolerance 0.1)`,
			expect: `(job "__kw_tolerance" 0.1)`,
		},
		{
			name:   "multiple keywords",
			input:  `(mortise :length 60 :width 30)`,
			expect: `(mortise "__kw_length" 60 "__kw_width" 30)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:stock-length`,
			expect: `"__kw_stock-length"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Job-definition forms
// ---------------------------------------------------------------------------

func TestJobForm(t *testing.T) {
	eng := NewEngine()

	j, evalErrs, err := eng.Evaluate(`(job "bench frame" :tolerance 0.05)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if j.Description != "bench frame" {
		t.Errorf("description %q, want %q", j.Description, "bench frame")
	}
	if j.GeometryTolerance != 0.05 {
		t.Errorf("tolerance %g, want 0.05", j.GeometryTolerance)
	}
}

func TestToolForm(t *testing.T) {
	eng := NewEngine()

	source := `(tool "8mm-endmill" :diameter 8 :vertfeed 600 :horizfeed 800 :spindle 4000)`
	j, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if j.Tool.Label != "8mm-endmill" {
		t.Errorf("label %q", j.Tool.Label)
	}
	if j.Tool.Diameter != 8 || j.Tool.VertFeed != 600 || j.Tool.HorizFeed != 800 {
		t.Errorf("tool fields not applied: %+v", j.Tool)
	}
	if j.Tool.SpindleSpeed != 4000 {
		t.Errorf("spindle speed %g, want 4000", j.Tool.SpindleSpeed)
	}
}

func TestMortiseForm(t *testing.T) {
	eng := NewEngine()

	source := `
(mortise "post-a"
         :length 80 :width 40 :depth 50
         :stock-length 120 :stock-width 120
         :position (vec3 10 20 30)
         :normal (vec3 0 0 -1)
         :direction (vec3 1 0 0))
`
	j, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	ops := j.Operations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}

	m := ops[0].Feature
	if m.Name != "post-a" || m.Kind != mortise.Hole {
		t.Errorf("feature %q kind %v", m.Name, m.Kind)
	}
	if m.HoleLength != 80 || m.HoleWidth != 40 || m.Depth != 50 {
		t.Errorf("dimensions not applied: %+v", m)
	}
	if m.StockLength != 120 || m.StockWidth != 120 {
		t.Errorf("stock dimensions not applied: %+v", m)
	}
	if m.Placement.Position != (geom.Vec3{X: 10, Y: 20, Z: 30}) {
		t.Errorf("position %+v", m.Placement.Position)
	}
	if m.Placement.Normal != (geom.Vec3{Z: -1}) {
		t.Errorf("normal %+v", m.Placement.Normal)
	}
}

func TestTenonForm(t *testing.T) {
	eng := NewEngine()

	j, evalErrs, err := eng.Evaluate(`(tenon "beam-end" :depth 45)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	ops := j.Operations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Feature.Kind != mortise.Tongue {
		t.Errorf("kind %v, want tongue", ops[0].Feature.Kind)
	}
	if ops[0].Feature.Depth != 45 {
		t.Errorf("depth %g, want 45", ops[0].Feature.Depth)
	}
	// Unspecified dimensions keep the defaults.
	if ops[0].Feature.HoleLength != mortise.DefaultHoleLength {
		t.Errorf("length %g, want default", ops[0].Feature.HoleLength)
	}
}

func TestHeightsApplyToLaterFeatures(t *testing.T) {
	eng := NewEngine()

	source := `
(mortise "before" :depth 40)
(heights :clearance 30 :stepdown 5 :finish 1)
(mortise "after" :depth 40)
`
	j, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	ops := j.Operations()
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}

	before, after := ops[0].Params.Path, ops[1].Params.Path
	if before.ClearanceHeight != mortise.DefaultParams().Path.ClearanceHeight {
		t.Errorf("earlier feature picked up later heights: %+v", before)
	}
	if after.ClearanceHeight != 30 || after.StepDown != 5 || after.FinishStep != 1 {
		t.Errorf("heights not applied to later feature: %+v", after)
	}
}

func TestFullJobScript(t *testing.T) {
	eng := NewEngine()

	source := `
; One joint: the tenon and the mortise that receives it.
(job "frame corner" :tolerance 0.1)
(tool "12mm-endmill" :diameter 12)
(heights :clearance 20 :safe 10 :stepdown 10)

(tenon "rail-end"
       :length 60 :width 30 :depth 60
       :position (vec3 0 0 50)
       :normal (vec3 -1 0 0)
       :direction (vec3 0 1 0))

(mortise "post-face"
         :length 60 :width 30 :depth 60
         :position (vec3 200 0 50)
         :normal (vec3 0 -1 0)
         :direction (vec3 1 0 0))
`
	j, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if j.Description != "frame corner" {
		t.Errorf("description %q", j.Description)
	}
	ops := j.Operations()
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}
	if ops[0].Feature.Name != "rail-end" || ops[1].Feature.Name != "post-face" {
		t.Errorf("operation order: %q, %q", ops[0].Feature.Name, ops[1].Feature.Name)
	}
}

func TestFeatureRejectsInvalidGeometry(t *testing.T) {
	eng := NewEngine()

	// Length below width cannot form a capsule; the declaration fails.
	j, evalErrs, err := eng.Evaluate(`(mortise "bad" :length 10 :width 30)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if j != nil {
		t.Fatal("expected nil job for invalid feature geometry")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
}

func TestFeatureRejectsZeroNormal(t *testing.T) {
	eng := NewEngine()

	j, evalErrs, err := eng.Evaluate(`(mortise "flat" :normal (vec3 0 0 0))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if j != nil {
		t.Fatal("expected nil job for zero-length normal")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
}

func TestVec3WrongArity(t *testing.T) {
	eng := NewEngine()

	j, evalErrs, err := eng.Evaluate(`(mortise "a" :position (vec3 1 2))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if j != nil {
		t.Fatal("expected nil job")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for wrong vec3 arity")
	}
}

func TestVariablesAndArithmetic(t *testing.T) {
	eng := NewEngine()

	source := `
(def d 40)
(mortise "computed" :depth (+ d 10))
`
	j, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	ops := j.Operations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Feature.Depth != 50 {
		t.Errorf("computed depth %g, want 50", ops[0].Feature.Depth)
	}
}
