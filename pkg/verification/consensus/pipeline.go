package consensus

import (
	"context"
	"fmt"
	"time"

	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/verification/schema"

	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 90 * time.Second

// Stage is a pipeline state, logged on every transition
type Stage string

const (
	StageAPending    Stage = "A_PENDING"
	StageBPending    Stage = "B_PENDING"
	StageArbitrating Stage = "ARBITRATING"
	StageDone        Stage = "DONE"
)

// Evaluators binds a scoring capability to each role.
// Image workflows use Vision for both A and B when it is set.
type Evaluators struct {
	Analyst Evaluator
	Critic  Evaluator
	Arbiter Evaluator
	Vision  Evaluator
}

type Config struct {
	// Parallel fans A and B out; false runs A then B
	Parallel bool
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{Parallel: true, Timeout: DefaultTimeout}
}

// Result keeps every stage output; Final is what callers see
type Result struct {
	Category schema.Category
	A        schema.Evaluation
	B        schema.Evaluation
	Final    schema.Evaluation
}

type Pipeline struct {
	evaluators Evaluators
	cfg        Config
	logger     logger.ILogger
}

func NewPipeline(evaluators Evaluators, cfg Config, log logger.ILogger) *Pipeline {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Pipeline{
		evaluators: evaluators,
		cfg:        cfg,
		logger:     log,
	}
}

// Run never fails: evaluator or arbiter failures degrade to zero-score
// Evaluations and the arbiter always runs.
func (p *Pipeline) Run(ctx context.Context, category schema.Category, in Input) Result {
	wf := WorkflowFor(category)
	evalA, evalB := p.evaluatorsFor(wf.Category)
	res := Result{Category: wf.Category}

	if p.cfg.Parallel {
		// A and B are pending at the same time; each logs its own state
		var g errgroup.Group
		g.Go(func() error {
			p.transition(wf.Category, StageAPending)
			res.A = p.call(ctx, evalA, wf.EvaluatorA(in), schema.ReasonEvaluationFailed)
			return nil
		})
		g.Go(func() error {
			p.transition(wf.Category, StageBPending)
			res.B = p.call(ctx, evalB, wf.EvaluatorB(in), schema.ReasonEvaluationFailed)
			return nil
		})
		// call absorbs every failure, so there is no group error to report
		g.Wait()
	} else {
		p.transition(wf.Category, StageAPending)
		res.A = p.call(ctx, evalA, wf.EvaluatorA(in), schema.ReasonEvaluationFailed)
		p.transition(wf.Category, StageBPending)
		res.B = p.call(ctx, evalB, wf.EvaluatorB(in), schema.ReasonEvaluationFailed)
	}

	p.transition(wf.Category, StageArbitrating)
	res.Final = p.call(ctx, p.evaluators.Arbiter, wf.Arbiter(res.A, res.B), schema.ReasonArbitrationFailed)
	p.transition(wf.Category, StageDone)

	p.logger.Info("CONSENSUS", "Consensus reached", map[string]interface{}{
		"workflow":    string(wf.Category),
		"score_a":     res.A.Score,
		"score_b":     res.B.Score,
		"score_final": res.Final.Score,
	})
	return res
}

func (p *Pipeline) evaluatorsFor(c schema.Category) (Evaluator, Evaluator) {
	if c == schema.CategoryImage && p.evaluators.Vision != nil {
		return p.evaluators.Vision, p.evaluators.Vision
	}
	return p.evaluators.Analyst, p.evaluators.Critic
}

func (p *Pipeline) transition(c schema.Category, s Stage) {
	p.logger.Debug("CONSENSUS", "Stage transition", map[string]interface{}{
		"workflow": string(c),
		"stage":    string(s),
	})
}

type outcome struct {
	eval schema.Evaluation
	err  error
}

// call runs one stage under the per-call timeout. Errors, panics, timeouts
// and out of range scores all collapse to Failed(fallback).
func (p *Pipeline) call(ctx context.Context, ev Evaluator, req Request, fallback string) schema.Evaluation {
	if ev == nil {
		p.degrade(req.Role, fallback, fmt.Errorf("no evaluator configured"))
		return schema.Failed(fallback)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		eval, err := ev.Evaluate(callCtx, req)
		done <- outcome{eval: eval, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			p.degrade(req.Role, fallback, o.err)
			return schema.Failed(fallback)
		}
		if !InRange(o.eval.Score) {
			p.degrade(req.Role, fallback, fmt.Errorf("score %v out of range", o.eval.Score))
			return schema.Failed(fallback)
		}
		return o.eval
	case <-callCtx.Done():
		p.degrade(req.Role, fallback, callCtx.Err())
		return schema.Failed(fallback)
	}
}

func (p *Pipeline) degrade(role, fallback string, err error) {
	p.logger.Warn("CONSENSUS", "Stage degraded", map[string]interface{}{
		"role":     role,
		"fallback": fallback,
		"error":    err.Error(),
	})
}
