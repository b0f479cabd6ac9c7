// Package trusspath generates CNC router toolpaths for timber joint
// features (mortise and tenon pockets and tongues) cut by a single
// fixed-diameter tool. Canonical 2D profiles are cleared by an external
// adaptive engine, expanded into multi-depth passes with helical ramp
// entries, and placed into the workpiece frame of each feature.
//
// The pkg packages expose every stage; this package bundles them into
// the two entry points most callers want.
package trusspath

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/trusspath/pkg/adaptive"
	"github.com/chazu/trusspath/pkg/engine"
	"github.com/chazu/trusspath/pkg/job"
	"github.com/chazu/trusspath/pkg/mortise"
	"github.com/chazu/trusspath/pkg/toolpath"
)

// Generate recomputes a single feature and returns its placed toolpath.
func Generate(ctx context.Context, m *mortise.Mortise, eng adaptive.Engine, p mortise.Params) (*toolpath.Toolpath, error) {
	if err := m.Recompute(ctx, eng, p, nil); err != nil {
		return nil, err
	}
	return m.Toolpath(), nil
}

// EvaluateScript evaluates job-definition source, recomputes every
// operation of the resulting job in order, and returns the job with all
// toolpaths generated.
func EvaluateScript(ctx context.Context, source string, eng adaptive.Engine) (*job.Job, error) {
	e := engine.NewEngine()
	j, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("evaluating job script: %w", err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, ee := range evalErrs {
			errs[i] = ee
		}
		return nil, fmt.Errorf("evaluating job script: %w", errors.Join(errs...))
	}

	if err := j.Recompute(ctx, eng, nil); err != nil {
		return nil, err
	}
	return j, nil
}
