package consensus

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ai-verification-be/pkg/verification/schema"

	"github.com/go-playground/validator/v10"
)

var ErrMalformedReply = errors.New("malformed evaluator reply")

var validate = validator.New()

// flexScore accepts 72, 72.5 and "72"
type flexScore float64

func (f *flexScore) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("score %s: %w", string(b), err)
	}
	*f = flexScore(v)
	return nil
}

type structuredReply struct {
	Score  *flexScore `json:"score" validate:"required"`
	Reason string     `json:"reason" validate:"required"`
}

// ParseStructured reads {"score","reason"} out of a model reply. Code fences
// and prose around the object are tolerated.
func ParseStructured(reply string) (schema.Evaluation, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return schema.Evaluation{}, fmt.Errorf("%w: no JSON object", ErrMalformedReply)
	}

	var out structuredReply
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return schema.Evaluation{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	out.Reason = strings.TrimSpace(out.Reason)
	if err := validate.Struct(out); err != nil {
		return schema.Evaluation{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	eval := schema.Evaluation{Score: float64(*out.Score), Reason: out.Reason}
	if !InRange(eval.Score) {
		return schema.Evaluation{}, fmt.Errorf("%w: score %v out of range", ErrMalformedReply, eval.Score)
	}
	return eval, nil
}

// ParseNumeric turns a bare numeric reply into an Evaluation. Anything that
// is not a number in [0,100] becomes {0, "Invalid response"}.
func ParseNumeric(reply, reason string) schema.Evaluation {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil || !InRange(v) {
		return schema.Failed(schema.ReasonInvalidResponse)
	}
	return schema.Evaluation{Score: v, Reason: reason}
}

// InRange reports whether a score is a finite value in [0,100]
func InRange(score float64) bool {
	return !math.IsNaN(score) && score >= 0 && score <= 100
}
