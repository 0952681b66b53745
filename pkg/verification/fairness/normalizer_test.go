package fairness

import (
	"math/rand/v2"
	"testing"

	"ai-verification-be/pkg/verification/fingerprint"
	"ai-verification-be/pkg/verification/schema"

	"github.com/stretchr/testify/assert"
)

func TestAdjust_Example(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	adj := n.Adjust(50, 1.00)
	assert.InDelta(t, 65.0, adj.Adjusted, 1e-9)
	assert.InDelta(t, 65.0, adj.Final, 1e-9)
}

func TestAdjust_Saturation(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	tests := []struct {
		name        string
		raw         float64
		wantLowSat  bool // factor 0.95
		wantHighSat bool // factor 1.05
	}{
		{"upper bound", 100, true, true},
		{"above saturation boundary", 80.8, true, true},
		{"between boundaries", 76, true, false},
		{"below floor boundary", 73.0, false, false},
		{"low", 20, false, false},
		{"zero", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low := n.Adjust(tt.raw, DefaultMinFactor).Final
			high := n.Adjust(tt.raw, DefaultMaxFactor).Final
			assert.Equal(t, tt.wantLowSat, low == 100.0, "low factor result %v", low)
			assert.Equal(t, tt.wantHighSat, high == 100.0, "high factor result %v", high)
		})
	}
}

func TestNormalize_FinalAlwaysInRange(t *testing.T) {
	n := NewNormalizerWithSource(DefaultConfig(), rand.NewPCG(1, 2))
	fp := fingerprint.FromBytes([]byte("x"))

	for raw := 0.0; raw <= 100; raw += 0.5 {
		for i := 0; i < 20; i++ {
			got, adj := n.Normalize(schema.Evaluation{Score: raw, Reason: "r"}, fp)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 100.0)
			assert.GreaterOrEqual(t, adj.Factor, DefaultMinFactor)
			assert.LessOrEqual(t, adj.Factor, DefaultMaxFactor)
		}
	}
}

func TestNormalize_Reason(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	fp := fingerprint.FromBytes([]byte("x"))

	ok, _ := n.Normalize(schema.Evaluation{Score: 40, Reason: "fine"}, fp)
	assert.Equal(t, schema.ReasonSuccess, ok.Reason)

	failed, _ := n.Normalize(schema.Failed(schema.ReasonArbitrationFailed), fp)
	assert.Equal(t, 0.0, failed.Score)
	assert.Equal(t, schema.ReasonArbitrationFailed, failed.Reason)
}

func TestDraw_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Deterministic = true
	n := NewNormalizer(cfg)
	fp := fingerprint.FromBytes([]byte("audit me"))

	first := n.Draw(fp)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, n.Draw(fp))
	}
	assert.NotEqual(t, first, n.Draw(fingerprint.FromBytes([]byte("other"))))
}

func TestNewNormalizer_FillsDefaults(t *testing.T) {
	n := NewNormalizer(Config{})
	assert.InDelta(t, 65.0, n.Adjust(50, 1).Final, 1e-9)
	f := n.Draw(fingerprint.Fingerprint{})
	assert.GreaterOrEqual(t, f, DefaultMinFactor)
	assert.LessOrEqual(t, f, DefaultMaxFactor)
}
