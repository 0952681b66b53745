// Package verification scores contribution documents against a campaign:
// fingerprint, cache lookup, dispatch, extraction, A/B/arbiter consensus and
// fairness normalization.
package verification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/llm"
	"ai-verification-be/pkg/verification/cache"
	"ai-verification-be/pkg/verification/consensus"
	"ai-verification-be/pkg/verification/dispatch"
	"ai-verification-be/pkg/verification/extract"
	"ai-verification-be/pkg/verification/fairness"
	"ai-verification-be/pkg/verification/fingerprint"
	"ai-verification-be/pkg/verification/schema"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrFingerprint wraps any failure to read or hash a document
	ErrFingerprint = errors.New("fingerprint failed")
	// ErrCache wraps result cache I/O failures
	ErrCache = errors.New("result cache failed")
)

// Scorer runs the consensus workflow for one category
type Scorer interface {
	Run(ctx context.Context, category schema.Category, in consensus.Input) consensus.Result
}

// Completion describes one computed (non-cached) verification
type Completion struct {
	CampaignID     string
	Submitter      string
	DocumentName   string
	Fingerprint    fingerprint.Fingerprint
	CacheKey       string
	Route          dispatch.Route
	Consensus      consensus.Result
	Adjustment     fairness.Adjustment
	Result         schema.Evaluation
	ExtractionFail bool
	Duration       time.Duration
	CompletedAt    time.Time
}

// CompletionHook observes finished computations. Hooks must not block.
type CompletionHook func(ctx context.Context, c Completion)

type Config struct {
	// SingleFlight collapses concurrent computations of one cache key
	SingleFlight bool
}

type Verifier struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	extractor  *extract.Extractor
	scorer     Scorer
	normalizer *fairness.Normalizer
	cache      *cache.ResultCache
	hooks      []CompletionHook
	group      singleflight.Group
	logger     logger.ILogger
	tracer     trace.Tracer
}

func NewVerifier(
	cfg Config,
	dispatcher *dispatch.Dispatcher,
	extractor *extract.Extractor,
	scorer Scorer,
	normalizer *fairness.Normalizer,
	resultCache *cache.ResultCache,
	log logger.ILogger,
	hooks ...CompletionHook,
) *Verifier {
	return &Verifier{
		cfg:        cfg,
		dispatcher: dispatcher,
		extractor:  extractor,
		scorer:     scorer,
		normalizer: normalizer,
		cache:      resultCache,
		hooks:      hooks,
		logger:     log,
		tracer:     otel.Tracer("ai-verification-be/verification"),
	}
}

// OnComplete registers another completion hook. Not safe to call while
// verifications are in flight.
func (v *Verifier) OnComplete(hook CompletionHook) {
	v.hooks = append(v.hooks, hook)
}

// Verify scores document bytes for a submitter. Only fingerprint and cache
// failures are returned as errors; everything else is a scored Evaluation.
func (v *Verifier) Verify(ctx context.Context, campaign schema.Campaign, data []byte, name, submitter string) (schema.Evaluation, error) {
	fp, err := fingerprint.FromReader(bytes.NewReader(data))
	if err != nil {
		return schema.Evaluation{}, fmt.Errorf("%w: %w", ErrFingerprint, err)
	}
	load := func() ([]byte, error) { return data, nil }
	return v.resolve(ctx, campaign, cache.Key{Submitter: submitter, Fingerprint: fp}, name, load)
}

// VerifyFile streams the file through the fingerprinter and only reads it
// into memory on a cache miss.
func (v *Verifier) VerifyFile(ctx context.Context, campaign schema.Campaign, path, submitter string) (schema.Evaluation, error) {
	fp, err := fingerprint.FromFile(path)
	if err != nil {
		return schema.Evaluation{}, fmt.Errorf("%w: %w", ErrFingerprint, err)
	}
	load := func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrFingerprint, path, err)
		}
		return data, nil
	}
	return v.resolve(ctx, campaign, cache.Key{Submitter: submitter, Fingerprint: fp}, path, load)
}

// Outcome is delivered by VerifyAsync
type Outcome struct {
	Evaluation schema.Evaluation
	Err        error
}

// VerifyAsync runs Verify on its own goroutine. The channel receives exactly
// one Outcome and is then closed.
func (v *Verifier) VerifyAsync(ctx context.Context, campaign schema.Campaign, data []byte, name, submitter string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		eval, err := v.Verify(ctx, campaign, data, name, submitter)
		out <- Outcome{Evaluation: eval, Err: err}
	}()
	return out
}

func (v *Verifier) resolve(ctx context.Context, campaign schema.Campaign, key cache.Key, name string, load func() ([]byte, error)) (schema.Evaluation, error) {
	ctx, span := v.tracer.Start(ctx, "verification.Verify", trace.WithAttributes(
		attribute.String("verification.campaign_id", campaign.ID),
		attribute.String("verification.fingerprint", key.Fingerprint.String()),
	))
	defer span.End()

	cached, ok, err := v.cache.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cache lookup")
		return schema.Evaluation{}, fmt.Errorf("%w: %w", ErrCache, err)
	}
	if ok {
		span.SetAttributes(attribute.Bool("verification.cache_hit", true))
		v.logger.Info("VERIFIER", "Cache hit", map[string]interface{}{
			"cache_key": v.cache.StoreKey(key),
			"score":     cached.Score,
		})
		return cached, nil
	}

	compute := func() (schema.Evaluation, error) {
		data, err := load()
		if err != nil {
			return schema.Evaluation{}, err
		}
		return v.compute(ctx, campaign, key, name, data)
	}

	if !v.cfg.SingleFlight {
		eval, err := compute()
		return v.finish(span, eval, err)
	}

	res, err, shared := v.group.Do(v.cache.StoreKey(key), func() (interface{}, error) {
		// A flight that finished between our lookup and Do already stored its score
		if cached, ok, err := v.cache.Get(ctx, key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCache, err)
		} else if ok {
			return cached, nil
		}
		eval, err := compute()
		return eval, err
	})
	span.SetAttributes(attribute.Bool("verification.shared", shared))
	if err != nil {
		return v.finish(span, schema.Evaluation{}, err)
	}
	return v.finish(span, res.(schema.Evaluation), nil)
}

func (v *Verifier) finish(span trace.Span, eval schema.Evaluation, err error) (schema.Evaluation, error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return schema.Evaluation{}, err
	}
	span.SetAttributes(attribute.Float64("verification.score", eval.Score))
	return eval, nil
}

func (v *Verifier) compute(ctx context.Context, campaign schema.Campaign, key cache.Key, name string, data []byte) (schema.Evaluation, error) {
	// Callers sharing this computation must not lose it to the first caller's cancellation
	ctx = context.WithoutCancel(ctx)
	started := time.Now()

	route := v.dispatcher.Route(schema.Document{Name: name, Data: data})
	workflow := route.Category.Workflow()

	_, extractSpan := v.tracer.Start(ctx, "verification.Extract", trace.WithAttributes(
		attribute.String("verification.category", string(route.Category)),
		attribute.String("verification.format", string(route.Format)),
	))
	payload := v.extractor.Extract(ctx, route, data)
	extractSpan.End()

	var result consensus.Result
	extractionFailed := payload.Empty()
	if extractionFailed {
		reason := extract.FailureReason(workflow)
		v.logger.Warn("VERIFIER", "Extraction produced no content", map[string]interface{}{
			"document": name,
			"category": string(route.Category),
			"reason":   reason,
		})
		result = consensus.Result{Category: workflow, Final: schema.Failed(reason)}
	} else {
		in := consensus.Input{Campaign: campaign, Text: payload.Text}
		if payload.ImageBase64 != "" {
			in.Image = &llm.Image{MIMEType: payload.MIMEType, Base64: payload.ImageBase64}
		}
		scoreCtx, scoreSpan := v.tracer.Start(ctx, "verification.Consensus")
		result = v.scorer.Run(scoreCtx, route.Category, in)
		scoreSpan.SetAttributes(attribute.Float64("verification.raw_score", result.Final.Score))
		scoreSpan.End()
	}

	final, adj := v.normalizer.Normalize(result.Final, key.Fingerprint)

	if err := v.cache.Put(ctx, key, final.Score); err != nil {
		return schema.Evaluation{}, fmt.Errorf("%w: %w", ErrCache, err)
	}

	v.logger.Info("VERIFIER", "Verification completed", map[string]interface{}{
		"cache_key": v.cache.StoreKey(key),
		"category":  string(route.Category),
		"raw_score": result.Final.Score,
		"factor":    adj.Factor,
		"score":     final.Score,
	})

	completion := Completion{
		CampaignID:     campaign.ID,
		Submitter:      key.Submitter,
		DocumentName:   name,
		Fingerprint:    key.Fingerprint,
		CacheKey:       v.cache.StoreKey(key),
		Route:          route,
		Consensus:      result,
		Adjustment:     adj,
		Result:         final,
		ExtractionFail: extractionFailed,
		Duration:       time.Since(started),
		CompletedAt:    time.Now(),
	}
	for _, hook := range v.hooks {
		hook(ctx, completion)
	}

	return final, nil
}
