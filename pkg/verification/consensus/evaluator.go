package consensus

import (
	"context"
	"fmt"

	"ai-verification-be/pkg/llm"
	"ai-verification-be/pkg/verification/schema"
)

// OutputFormat is the reply shape an evaluator is asked for
type OutputFormat int

const (
	// OutputStructured replies are JSON objects {"score", "reason"}
	OutputStructured OutputFormat = iota
	// OutputNumeric replies are a bare number
	OutputNumeric
)

// Request is one role-framed scoring call
type Request struct {
	Role          string
	System        string
	Prompt        string
	Image         *llm.Image
	Output        OutputFormat
	NumericReason string // reason attached to a parsed numeric reply
}

// Evaluator is the external scoring capability. Any error is treated by the
// pipeline as a failed stage.
type Evaluator interface {
	Evaluate(ctx context.Context, req Request) (schema.Evaluation, error)
}

// EvaluatorFunc adapts a plain function to Evaluator
type EvaluatorFunc func(ctx context.Context, req Request) (schema.Evaluation, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, req Request) (schema.Evaluation, error) {
	return f(ctx, req)
}

// LLMEvaluator asks a chat model for a score, pinned to one model per role
type LLMEvaluator struct {
	provider  llm.LLMProvider
	model     string
	maxTokens int
}

var _ Evaluator = (*LLMEvaluator)(nil)

func NewLLMEvaluator(provider llm.LLMProvider, model string) *LLMEvaluator {
	return &LLMEvaluator{
		provider:  provider,
		model:     model,
		maxTokens: 400,
	}
}

func (e *LLMEvaluator) Evaluate(ctx context.Context, req Request) (schema.Evaluation, error) {
	var history []llm.Message
	if req.System != "" {
		history = append(history, llm.Message{Role: llm.RoleSystem, Content: req.System})
	}
	user := llm.Message{Role: llm.RoleUser, Content: req.Prompt}
	if req.Image != nil {
		user.Images = []llm.Image{*req.Image}
	}
	history = append(history, user)

	opts := []llm.Option{llm.WithMaxTokens(e.maxTokens)}
	if e.model != "" {
		opts = append(opts, llm.WithModel(e.model))
	}
	if req.Output == OutputStructured {
		opts = append(opts, llm.WithJSONFormat())
	}

	reply, err := e.provider.Chat(ctx, history, opts...)
	if err != nil {
		return schema.Evaluation{}, fmt.Errorf("%s: chat: %w", req.Role, err)
	}

	if req.Output == OutputNumeric {
		return ParseNumeric(reply, req.NumericReason), nil
	}

	eval, err := ParseStructured(reply)
	if err != nil {
		return schema.Evaluation{}, fmt.Errorf("%s: %w", req.Role, err)
	}
	return eval, nil
}
