package fairness

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"

	"ai-verification-be/pkg/verification/fingerprint"
	"ai-verification-be/pkg/verification/schema"
)

const (
	DefaultMinFactor = 0.95
	DefaultMaxFactor = 1.05
	DefaultUplift    = 1.30
	DefaultCap       = 100.0
)

type Config struct {
	MinFactor float64
	MaxFactor float64
	Uplift    float64
	Cap       float64
	// Deterministic seeds the draw from the document fingerprint
	Deterministic bool
}

func DefaultConfig() Config {
	return Config{
		MinFactor: DefaultMinFactor,
		MaxFactor: DefaultMaxFactor,
		Uplift:    DefaultUplift,
		Cap:       DefaultCap,
	}
}

// Adjustment records one normalization for auditing
type Adjustment struct {
	Raw      float64
	Factor   float64
	Adjusted float64
	Final    float64
}

// Normalizer applies the randomized uplift and caps the final score
type Normalizer struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

func NewNormalizer(cfg Config) *Normalizer {
	return NewNormalizerWithSource(cfg, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewNormalizerWithSource lets callers pin the random source
func NewNormalizerWithSource(cfg Config, src rand.Source) *Normalizer {
	def := DefaultConfig()
	if cfg.MinFactor <= 0 {
		cfg.MinFactor = def.MinFactor
	}
	if cfg.MaxFactor <= 0 {
		cfg.MaxFactor = def.MaxFactor
	}
	if cfg.MaxFactor < cfg.MinFactor {
		cfg.MaxFactor = cfg.MinFactor
	}
	if cfg.Uplift <= 0 {
		cfg.Uplift = def.Uplift
	}
	if cfg.Cap <= 0 {
		cfg.Cap = def.Cap
	}
	return &Normalizer{cfg: cfg, rng: rand.New(src)}
}

// Draw picks a fairness factor uniformly from [MinFactor, MaxFactor]
func (n *Normalizer) Draw(fp fingerprint.Fingerprint) float64 {
	var u float64
	if n.cfg.Deterministic {
		seeded := rand.New(rand.NewPCG(binary.BigEndian.Uint64(fp[0:8]), binary.BigEndian.Uint64(fp[8:16])))
		u = seeded.Float64()
	} else {
		n.mu.Lock()
		u = n.rng.Float64()
		n.mu.Unlock()
	}
	return n.cfg.MinFactor + u*(n.cfg.MaxFactor-n.cfg.MinFactor)
}

// Adjust computes min(raw*uplift/factor, cap), clamped to [0, cap]
func (n *Normalizer) Adjust(raw, factor float64) Adjustment {
	if math.IsNaN(raw) || raw < 0 {
		raw = 0
	}
	adjusted := raw * n.cfg.Uplift / factor
	return Adjustment{
		Raw:      raw,
		Factor:   factor,
		Adjusted: adjusted,
		Final:    math.Min(adjusted, n.cfg.Cap),
	}
}

// Normalize adjusts the arbiter's Evaluation. The reason becomes the success
// sentinel unless the final score is exactly zero.
func (n *Normalizer) Normalize(raw schema.Evaluation, fp fingerprint.Fingerprint) (schema.Evaluation, Adjustment) {
	adj := n.Adjust(raw.Score, n.Draw(fp))
	reason := schema.ReasonSuccess
	if adj.Final == 0 {
		reason = raw.Reason
	}
	return schema.Evaluation{Score: adj.Final, Reason: reason}, adj
}
