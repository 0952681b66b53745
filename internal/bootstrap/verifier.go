package bootstrap

import (
	"fmt"

	"ai-verification-be/internal/config"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/llm/factory"
	"ai-verification-be/pkg/verification"
	"ai-verification-be/pkg/verification/cache"
	"ai-verification-be/pkg/verification/consensus"
	"ai-verification-be/pkg/verification/dispatch"
	"ai-verification-be/pkg/verification/extract"
	"ai-verification-be/pkg/verification/fairness"
)

// NewVerifier assembles the scoring core on top of an already chosen cache
// store. Shared by the REST container and the CLI.
func NewVerifier(cfg *config.Config, store cache.Store, log logger.ILogger) (*verification.Verifier, error) {
	provider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	log.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"analyst":  cfg.Ai.AnalystModel,
		"critic":   cfg.Ai.CriticModel,
		"arbiter":  cfg.Ai.ArbiterModel,
		"vision":   cfg.Ai.VisionModel,
	})

	pipeline := consensus.NewPipeline(
		consensus.Evaluators{
			Analyst: consensus.NewLLMEvaluator(provider, cfg.Ai.AnalystModel),
			Critic:  consensus.NewLLMEvaluator(provider, cfg.Ai.CriticModel),
			Arbiter: consensus.NewLLMEvaluator(provider, cfg.Ai.ArbiterModel),
			Vision:  consensus.NewLLMEvaluator(provider, cfg.Ai.VisionModel),
		},
		consensus.Config{
			Parallel: cfg.Verification.ParallelEvaluators,
			Timeout:  cfg.Verification.EvaluatorTimeout,
		},
		log,
	)

	extractor := extract.NewExtractor(extract.Config{
		MaxChars:     cfg.Verification.MaxContentChars,
		AntiwordPath: cfg.Verification.AntiwordPath,
	}, log)

	normalizer := fairness.NewNormalizer(fairness.Config{
		MinFactor:     cfg.Verification.FairnessMin,
		MaxFactor:     cfg.Verification.FairnessMax,
		Uplift:        cfg.Verification.FairnessUplift,
		Cap:           cfg.Verification.FairnessCap,
		Deterministic: cfg.Verification.DeterministicFactor,
	})

	resultCache := cache.NewResultCache(
		store,
		cfg.Verification.CacheTTL,
		cache.Scope(cfg.Verification.CacheScope),
	)

	return verification.NewVerifier(
		verification.Config{SingleFlight: cfg.Verification.SingleFlight},
		dispatch.NewDispatcher(),
		extractor,
		pipeline,
		normalizer,
		resultCache,
		log,
	), nil
}
