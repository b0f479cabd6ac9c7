package job

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chazu/trusspath/pkg/adaptive"
	"github.com/chazu/trusspath/pkg/mortise"
	"github.com/chazu/trusspath/pkg/toolpath"
)

// SpindleDirection is the spindle rotation sense.
type SpindleDirection int

const (
	SpindleForward SpindleDirection = iota
	SpindleReverse
)

func (d SpindleDirection) String() string {
	if d == SpindleForward {
		return "forward"
	}
	return "reverse"
}

// ToolController describes the single tool the machine runs: the router
// has no automatic tool change, so one controller covers the whole job.
type ToolController struct {
	Label        string
	ToolNumber   int
	Diameter     float64
	VertFeed     float64
	HorizFeed    float64
	VertRapid    float64
	HorizRapid   float64
	SpindleSpeed float64
	SpindleDir   SpindleDirection
}

// DefaultToolController is a 12mm carbide endmill setup.
func DefaultToolController() ToolController {
	return ToolController{
		Label:        "12mm-Endmill",
		ToolNumber:   1,
		Diameter:     12,
		VertFeed:     1000,
		HorizFeed:    1000,
		VertRapid:    3000,
		HorizRapid:   3000,
		SpindleSpeed: 3500,
		SpindleDir:   SpindleForward,
	}
}

// Operation pairs one joint feature with its machining parameters. The
// job's tool controller overrides the tool-specific fields on recompute.
type Operation struct {
	Feature *mortise.Mortise
	Params  mortise.Params
}

// Consumer receives the final command sequence of each operation, for
// G-code emission or direct machine control. Emission dialects are
// outside this system.
type Consumer interface {
	Consume(name string, tp *toolpath.Toolpath) error
}

// Job owns the ordered operations of one machining setup and the tool
// controller shared between them. Operations are recomputed strictly in
// order; there is no parallelism across features.
type Job struct {
	Description       string
	GeometryTolerance float64
	Tool              ToolController

	ops []*Operation
}

// DefaultGeometryTolerance balances path accuracy against computation time.
const DefaultGeometryTolerance = 0.1

// New creates an empty job with the default tool controller.
func New(description string) *Job {
	return &Job{
		Description:       description,
		GeometryTolerance: DefaultGeometryTolerance,
		Tool:              DefaultToolController(),
	}
}

// AddOperation appends an operation to the job.
func (j *Job) AddOperation(op *Operation) {
	j.ops = append(j.ops, op)
}

// AddOperationBefore inserts an operation ahead of an existing one; if
// before is not part of the job the operation is appended.
func (j *Job) AddOperationBefore(op, before *Operation) {
	for i, existing := range j.ops {
		if existing == before {
			j.ops = append(j.ops[:i], append([]*Operation{op}, j.ops[i:]...)...)
			return
		}
	}
	j.ops = append(j.ops, op)
}

// Operations returns the operations in machining order.
func (j *Job) Operations() []*Operation {
	return j.ops
}

// params merges the job-level tool controller and geometry tolerance into
// an operation's parameter set.
func (j *Job) params(op *Operation) mortise.Params {
	p := op.Params
	p.Tolerance = j.GeometryTolerance
	p.Path.ToolDiameter = j.Tool.Diameter
	p.Path.VertFeed = j.Tool.VertFeed
	p.Path.HorizFeed = j.Tool.HorizFeed
	return p
}

// Recompute regenerates every operation's toolpath in order. The first
// failure stops the run; the failed feature keeps its previous toolpath
// and cache entry, so a later recompute can retry.
func (j *Job) Recompute(ctx context.Context, eng adaptive.Engine, progress adaptive.Progress) error {
	for _, op := range j.ops {
		start := time.Now()
		if err := op.Feature.Recompute(ctx, eng, j.params(op), progress); err != nil {
			return fmt.Errorf("job %q: %w", j.Description, err)
		}
		log.Printf("job %q: recomputed %s (%s) in %s",
			j.Description, op.Feature.Name, op.Feature.Kind, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// Export hands every operation's toolpath to the consumer, in machining
// order. Operations that have never been recomputed are an error: a job
// must not emit a partial program.
func (j *Job) Export(c Consumer) error {
	for _, op := range j.ops {
		tp := op.Feature.Toolpath()
		if tp == nil {
			return fmt.Errorf("job %q: feature %s has no toolpath; recompute first", j.Description, op.Feature.Name)
		}
		if err := c.Consume(op.Feature.Name, tp); err != nil {
			return fmt.Errorf("job %q: consumer: %w", j.Description, err)
		}
	}
	return nil
}
