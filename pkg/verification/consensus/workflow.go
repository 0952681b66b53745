package consensus

import (
	"fmt"

	"ai-verification-be/internal/constant"
	"ai-verification-be/pkg/llm"
	"ai-verification-be/pkg/verification/schema"
)

const (
	RoleEvaluatorA = "evaluator_a"
	RoleEvaluatorB = "evaluator_b"
	RoleArbiter    = "arbiter"
)

// Input is the extracted content plus the campaign it is scored against
type Input struct {
	Campaign schema.Campaign
	Text     string
	Image    *llm.Image
}

// Workflow holds the category specific prompts. Every workflow has the same
// shape: A and B score the input, the arbiter reconciles (A, B).
type Workflow struct {
	Category   schema.Category
	EvaluatorA func(in Input) Request
	EvaluatorB func(in Input) Request
	Arbiter    func(a, b schema.Evaluation) Request
}

func structured(role, system, prompt string) Request {
	return Request{
		Role:   role,
		System: system,
		Prompt: prompt + "\n\n" + constant.EvaluationJSONInstruction,
		Output: OutputStructured,
	}
}

func TextWorkflow() Workflow {
	return Workflow{
		Category: schema.CategoryText,
		EvaluatorA: func(in Input) Request {
			return structured(RoleEvaluatorA, constant.TextEvaluatorASystemPrompt,
				fmt.Sprintf(constant.TextEvaluatorAPrompt, in.Campaign.Description, in.Campaign.Requirements, in.Text))
		},
		EvaluatorB: func(in Input) Request {
			return structured(RoleEvaluatorB, constant.TextEvaluatorBSystemPrompt,
				fmt.Sprintf(constant.TextEvaluatorBPrompt, in.Campaign.Description, in.Campaign.Requirements, in.Text))
		},
		Arbiter: func(a, b schema.Evaluation) Request {
			return structured(RoleArbiter, constant.ArbiterSystemPrompt,
				fmt.Sprintf(constant.TextArbiterPrompt, a.Score, a.Reason, b.Score, b.Reason))
		},
	}
}

func CSVWorkflow() Workflow {
	return Workflow{
		Category: schema.CategoryCSV,
		EvaluatorA: func(in Input) Request {
			return structured(RoleEvaluatorA, constant.CSVEvaluatorASystemPrompt,
				fmt.Sprintf(constant.CSVEvaluatorAPrompt, in.Campaign.Description, in.Campaign.Requirements, in.Text))
		},
		EvaluatorB: func(in Input) Request {
			return structured(RoleEvaluatorB, constant.CSVEvaluatorBSystemPrompt,
				fmt.Sprintf(constant.CSVEvaluatorBPrompt, in.Campaign.Description, in.Campaign.Requirements, in.Text))
		},
		Arbiter: func(a, b schema.Evaluation) Request {
			return structured(RoleArbiter, constant.ArbiterSystemPrompt,
				fmt.Sprintf(constant.CSVArbiterPrompt, a.Score, a.Reason, b.Score, b.Reason))
		},
	}
}

func ImageWorkflow() Workflow {
	return Workflow{
		Category: schema.CategoryImage,
		EvaluatorA: func(in Input) Request {
			return Request{
				Role:          RoleEvaluatorA,
				Prompt:        fmt.Sprintf(constant.ImageEvaluatorAPrompt, in.Campaign.Description) + "\n" + constant.ImageNumericInstruction,
				Image:         in.Image,
				Output:        OutputNumeric,
				NumericReason: schema.ReasonImageAnalysis,
			}
		},
		EvaluatorB: func(in Input) Request {
			return Request{
				Role:          RoleEvaluatorB,
				System:        constant.ImageEvaluatorBSystemPrompt,
				Prompt:        fmt.Sprintf(constant.ImageEvaluatorBPrompt, in.Campaign.Description) + "\n" + constant.ImageNumericInstruction,
				Image:         in.Image,
				Output:        OutputNumeric,
				NumericReason: schema.ReasonVisualAnalysis,
			}
		},
		Arbiter: func(a, b schema.Evaluation) Request {
			return structured(RoleArbiter, constant.ArbiterSystemPrompt,
				fmt.Sprintf(constant.ImageArbiterPrompt, a.Score, a.Reason, b.Score, b.Reason))
		},
	}
}

// WorkflowFor picks the workflow for a category; unknown content goes to text
func WorkflowFor(c schema.Category) Workflow {
	switch c.Workflow() {
	case schema.CategoryImage:
		return ImageWorkflow()
	case schema.CategoryCSV:
		return CSVWorkflow()
	default:
		return TextWorkflow()
	}
}
