package toolpath

import "fmt"

// MinStepDown is the machine-safety floor for the per-pass step-down.
const MinStepDown = 0.1

// clampSteps applies the deliberate safety clamps to the depth stepping
// parameters: step-down is floored at MinStepDown and the finishing step
// can never remove more than a normal step.
func clampSteps(stepDown, finishStep float64) (float64, float64) {
	if stepDown < MinStepDown {
		stepDown = MinStepDown
	}
	if finishStep > stepDown {
		finishStep = stepDown
	}
	return stepDown, finishStep
}

// Sequence produces the ordered pass-end depths from just below start
// down to final. Depths are strictly decreasing; the last increment is
// sized by the finish step rather than the step-down, so the finishing
// pass removes at most finishStep of material. A final depth at or above
// the start depth means there is no material to remove and is an error,
// unlike the step clamps.
func Sequence(start, final, stepDown, finishStep float64) ([]float64, error) {
	if final >= start {
		return nil, fmt.Errorf("final depth %g is not below start depth %g", final, start)
	}
	stepDown, finishStep = clampSteps(stepDown, finishStep)

	const eps = 1e-9
	var depths []float64
	for d := start - stepDown; d > final+finishStep+eps; d -= stepDown {
		depths = append(depths, d)
	}
	if finishStep > 0 && final+finishStep < start-eps {
		depths = append(depths, final+finishStep)
	}
	depths = append(depths, final)
	return depths, nil
}
