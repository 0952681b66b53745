package consensus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/llm"
	"ai-verification-be/pkg/verification/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCampaign = schema.Campaign{
	ID:           "42",
	Description:  "Street food photos from Jakarta",
	Requirements: "Original photos, daylight, vendor visible",
}

func fixed(score float64, reason string) EvaluatorFunc {
	return func(context.Context, Request) (schema.Evaluation, error) {
		return schema.Evaluation{Score: score, Reason: reason}, nil
	}
}

func failing(err error) EvaluatorFunc {
	return func(context.Context, Request) (schema.Evaluation, error) {
		return schema.Evaluation{}, err
	}
}

// recorder captures the arbiter request and returns a fixed verdict
type recorder struct {
	mu    sync.Mutex
	reqs  []Request
	reply schema.Evaluation
	err   error
}

func (r *recorder) Evaluate(_ context.Context, req Request) (schema.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

// stageLog keeps the stage transitions a pipeline logs
type stageLog struct {
	mu     sync.Mutex
	stages []Stage
}

func (l *stageLog) Debug(_, _ string, details map[string]interface{}) {
	if s, ok := details["stage"].(string); ok {
		l.mu.Lock()
		l.stages = append(l.stages, Stage(s))
		l.mu.Unlock()
	}
}
func (l *stageLog) Info(_, _ string, _ map[string]interface{}) {}
func (l *stageLog) Warn(_, _ string, _ map[string]interface{}) {}
func (l *stageLog) Error(_, _ string, _ map[string]interface{}) {}
func (l *stageLog) Sync() error { return nil }

func (l *stageLog) Stages() []Stage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Stage(nil), l.stages...)
}

func TestPipeline_SequentialStageOrder(t *testing.T) {
	log := &stageLog{}
	p := NewPipeline(Evaluators{
		Analyst: fixed(70, "a"),
		Critic:  fixed(40, "b"),
		Arbiter: fixed(55, "c"),
	}, Config{Parallel: false, Timeout: time.Second}, log)

	p.Run(context.Background(), schema.CategoryText, Input{Campaign: testCampaign, Text: "doc"})

	assert.Equal(t, []Stage{StageAPending, StageBPending, StageArbitrating, StageDone}, log.Stages())
}

func TestPipeline_ParallelStagesLoggedByTheirOwnCalls(t *testing.T) {
	log := &stageLog{}
	var seenByA, seenByB []Stage
	analyst := EvaluatorFunc(func(context.Context, Request) (schema.Evaluation, error) {
		seenByA = log.Stages()
		return schema.Evaluation{Score: 70, Reason: "a"}, nil
	})
	critic := EvaluatorFunc(func(context.Context, Request) (schema.Evaluation, error) {
		seenByB = log.Stages()
		return schema.Evaluation{Score: 40, Reason: "b"}, nil
	})
	p := NewPipeline(Evaluators{
		Analyst: analyst,
		Critic:  critic,
		Arbiter: fixed(55, "c"),
	}, Config{Parallel: true, Timeout: time.Second}, log)

	p.Run(context.Background(), schema.CategoryText, Input{Campaign: testCampaign, Text: "doc"})

	stages := log.Stages()
	require.Len(t, stages, 4)
	assert.ElementsMatch(t, []Stage{StageAPending, StageBPending}, stages[:2])
	assert.Equal(t, []Stage{StageArbitrating, StageDone}, stages[2:])
	assert.Contains(t, seenByA, StageAPending)
	assert.Contains(t, seenByB, StageBPending)
	assert.NotContains(t, seenByA, StageArbitrating)
}

func TestPipeline_TextArbiterSeesAThenB(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		arb := &recorder{reply: schema.Evaluation{Score: 58, Reason: "balanced"}}
		p := NewPipeline(Evaluators{
			Analyst: fixed(70, "good coverage"),
			Critic:  fixed(40, "missing vendor"),
			Arbiter: arb,
		}, Config{Parallel: parallel, Timeout: time.Second}, logger.NewNop())

		res := p.Run(context.Background(), schema.CategoryText, Input{Campaign: testCampaign, Text: "some essay"})

		assert.Equal(t, schema.CategoryText, res.Category)
		assert.Equal(t, schema.Evaluation{Score: 70, Reason: "good coverage"}, res.A)
		assert.Equal(t, schema.Evaluation{Score: 40, Reason: "missing vendor"}, res.B)
		assert.Equal(t, schema.Evaluation{Score: 58, Reason: "balanced"}, res.Final)

		require.Len(t, arb.reqs, 1)
		assert.Equal(t, RoleArbiter, arb.reqs[0].Role)
		assert.Contains(t, arb.reqs[0].Prompt, "Evaluator A: 70 - good coverage\nEvaluator B: 40 - missing vendor")
	}
}

func TestPipeline_BothEvaluatorsFailArbiterStillRuns(t *testing.T) {
	arb := &recorder{reply: schema.Evaluation{Score: 20, Reason: "nothing to reconcile"}}
	p := NewPipeline(Evaluators{
		Analyst: failing(errors.New("connection refused")),
		Critic: EvaluatorFunc(func(context.Context, Request) (schema.Evaluation, error) {
			panic("critic exploded")
		}),
		Arbiter: arb,
	}, DefaultConfig(), logger.NewNop())

	res := p.Run(context.Background(), schema.CategoryText, Input{Campaign: testCampaign, Text: "x"})

	assert.Equal(t, schema.Failed("Evaluation failed"), res.A)
	assert.Equal(t, schema.Failed("Evaluation failed"), res.B)
	assert.Equal(t, schema.Evaluation{Score: 20, Reason: "nothing to reconcile"}, res.Final)
	require.Len(t, arb.reqs, 1)
	assert.Contains(t, arb.reqs[0].Prompt, "Evaluator A: 0 - Evaluation failed\nEvaluator B: 0 - Evaluation failed")
}

func TestPipeline_ArbiterFailureDegrades(t *testing.T) {
	p := NewPipeline(Evaluators{
		Analyst: fixed(70, "a"),
		Critic:  fixed(60, "b"),
		Arbiter: failing(errors.New("rate limited")),
	}, DefaultConfig(), logger.NewNop())

	res := p.Run(context.Background(), schema.CategoryCSV, Input{Campaign: testCampaign, Text: "a  b"})
	assert.Equal(t, schema.Failed("Arbitration failed"), res.Final)
}

func TestPipeline_MissingArbiterDegrades(t *testing.T) {
	p := NewPipeline(Evaluators{Analyst: fixed(70, "a"), Critic: fixed(60, "b")}, DefaultConfig(), logger.NewNop())
	res := p.Run(context.Background(), schema.CategoryText, Input{Text: "t"})
	assert.Equal(t, schema.Failed("Arbitration failed"), res.Final)
}

func TestPipeline_TimeoutDegrades(t *testing.T) {
	stuck := EvaluatorFunc(func(ctx context.Context, _ Request) (schema.Evaluation, error) {
		<-ctx.Done()
		return schema.Evaluation{Score: 99, Reason: "too late"}, nil
	})
	// ignores its context entirely
	deaf := EvaluatorFunc(func(context.Context, Request) (schema.Evaluation, error) {
		time.Sleep(time.Second)
		return schema.Evaluation{Score: 99, Reason: "too late"}, nil
	})

	p := NewPipeline(Evaluators{
		Analyst: stuck,
		Critic:  deaf,
		Arbiter: fixed(33, "reconciled"),
	}, Config{Parallel: true, Timeout: 30 * time.Millisecond}, logger.NewNop())

	start := time.Now()
	res := p.Run(context.Background(), schema.CategoryText, Input{Text: "t"})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, schema.Failed("Evaluation failed"), res.A)
	assert.Equal(t, schema.Failed("Evaluation failed"), res.B)
	assert.Equal(t, schema.Evaluation{Score: 33, Reason: "reconciled"}, res.Final)
}

func TestPipeline_OutOfRangeScoreDegrades(t *testing.T) {
	p := NewPipeline(Evaluators{
		Analyst: fixed(140, "over the top"),
		Critic:  fixed(60, "b"),
		Arbiter: fixed(50, "c"),
	}, DefaultConfig(), logger.NewNop())

	res := p.Run(context.Background(), schema.CategoryText, Input{Text: "t"})
	assert.Equal(t, schema.Failed("Evaluation failed"), res.A)
}

// Each evaluator blocks until the other one has started. That only resolves
// when A and B are in flight at the same time.
func TestPipeline_ParallelFanOut(t *testing.T) {
	build := func() Evaluator {
		var arrived sync.WaitGroup
		arrived.Add(2)
		bothIn := make(chan struct{})
		go func() {
			arrived.Wait()
			close(bothIn)
		}()
		return EvaluatorFunc(func(ctx context.Context, _ Request) (schema.Evaluation, error) {
			arrived.Done()
			select {
			case <-bothIn:
				return schema.Evaluation{Score: 80, Reason: "met"}, nil
			case <-ctx.Done():
				return schema.Evaluation{}, ctx.Err()
			}
		})
	}

	ev := build()
	p := NewPipeline(Evaluators{Analyst: ev, Critic: ev, Arbiter: fixed(80, "ok")},
		Config{Parallel: true, Timeout: 2 * time.Second}, logger.NewNop())
	res := p.Run(context.Background(), schema.CategoryText, Input{Text: "t"})
	assert.Equal(t, 80.0, res.A.Score)
	assert.Equal(t, 80.0, res.B.Score)

	// Sequential mode: A gives up waiting for B
	ev = build()
	p = NewPipeline(Evaluators{Analyst: ev, Critic: ev, Arbiter: fixed(80, "ok")},
		Config{Parallel: false, Timeout: 50 * time.Millisecond}, logger.NewNop())
	res = p.Run(context.Background(), schema.CategoryText, Input{Text: "t"})
	assert.Equal(t, schema.Failed("Evaluation failed"), res.A)
	assert.Equal(t, 80.0, res.B.Score)
}

// fakeProvider scripts replies per role via the system/user prompt
type fakeProvider struct {
	mu      sync.Mutex
	calls   int32
	history [][]llm.Message
	options []llm.Options
	reply   func(history []llm.Message) (string, error)
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	o := llm.Options{}
	for _, opt := range opts {
		opt(&o)
	}
	f.mu.Lock()
	f.history = append(f.history, history)
	f.options = append(f.options, o)
	f.mu.Unlock()
	return f.reply(history)
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func TestPipeline_ImageWorkflowThroughLLM(t *testing.T) {
	vision := &fakeProvider{reply: func(h []llm.Message) (string, error) {
		if h[0].Role == llm.RoleSystem {
			return "not sure", nil // evaluator B
		}
		return " 85 ", nil
	}}
	writer := &fakeProvider{reply: func([]llm.Message) (string, error) {
		return `{"score": 60, "reason": "A liked it, B was unreadable"}`, nil
	}}

	img := &llm.Image{MIMEType: "image/png", Base64: "iVBORw0KGgo="}
	p := NewPipeline(Evaluators{
		Analyst: NewLLMEvaluator(writer, "analyst"),
		Critic:  NewLLMEvaluator(writer, "critic"),
		Arbiter: NewLLMEvaluator(writer, "fast"),
		Vision:  NewLLMEvaluator(vision, "llava"),
	}, DefaultConfig(), logger.NewNop())

	res := p.Run(context.Background(), schema.CategoryImage, Input{Campaign: testCampaign, Image: img})

	assert.Equal(t, schema.CategoryImage, res.Category)
	assert.Equal(t, schema.Evaluation{Score: 85, Reason: "Image analysis"}, res.A)
	assert.Equal(t, schema.Evaluation{Score: 0, Reason: "Invalid response"}, res.B)
	assert.Equal(t, schema.Evaluation{Score: 60, Reason: "A liked it, B was unreadable"}, res.Final)

	require.Len(t, vision.history, 2)
	for i, h := range vision.history {
		user := h[len(h)-1]
		require.Len(t, user.Images, 1)
		assert.Equal(t, *img, user.Images[0])
		assert.Contains(t, user.Content, testCampaign.Description)
		assert.Equal(t, "llava", vision.options[i].Model)
		assert.Empty(t, vision.options[i].Format)
	}

	require.Len(t, writer.history, 1)
	assert.Equal(t, "fast", writer.options[0].Model)
	assert.Equal(t, llm.FormatJSON, writer.options[0].Format)
	assert.Contains(t, writer.history[0][1].Content, "A: 85 - Image analysis\nB: 0 - Invalid response")
}

func TestPipeline_ImageWithoutVisionUsesRoleEvaluators(t *testing.T) {
	p := NewPipeline(Evaluators{
		Analyst: fixed(70, "a"),
		Critic:  fixed(50, "b"),
		Arbiter: fixed(60, "c"),
	}, DefaultConfig(), logger.NewNop())

	res := p.Run(context.Background(), schema.CategoryImage, Input{Image: &llm.Image{Base64: "AA=="}})
	assert.Equal(t, 70.0, res.A.Score)
	assert.Equal(t, 50.0, res.B.Score)
}

func TestLLMEvaluator_MalformedStructuredReplyIsError(t *testing.T) {
	prov := &fakeProvider{reply: func([]llm.Message) (string, error) { return "I think 70", nil }}
	_, err := NewLLMEvaluator(prov, "m").Evaluate(context.Background(), TextWorkflow().EvaluatorA(Input{Text: "t"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestWorkflowFor(t *testing.T) {
	assert.Equal(t, schema.CategoryText, WorkflowFor(schema.CategoryUnknown).Category)
	assert.Equal(t, schema.CategoryText, WorkflowFor(schema.CategoryText).Category)
	assert.Equal(t, schema.CategoryCSV, WorkflowFor(schema.CategoryCSV).Category)
	assert.Equal(t, schema.CategoryImage, WorkflowFor(schema.CategoryImage).Category)

	in := Input{Campaign: testCampaign, Text: "name  price"}
	a := CSVWorkflow().EvaluatorA(in)
	assert.Contains(t, a.Prompt, "Dataset:\nname  price")
	assert.Contains(t, a.Prompt, testCampaign.Requirements)
	assert.Equal(t, OutputStructured, a.Output)

	b := TextWorkflow().EvaluatorB(in)
	assert.Contains(t, b.Prompt, "As Critical Evaluator B")
	assert.Equal(t, RoleEvaluatorB, b.Role)
}
