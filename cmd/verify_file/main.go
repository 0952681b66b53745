package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ai-verification-be/internal/bootstrap"
	"ai-verification-be/internal/config"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/verification/cache"
	"ai-verification-be/pkg/verification/schema"
)

func main() {
	file := flag.String("file", "", "document to verify")
	campaignID := flag.String("campaign", "local", "campaign id")
	description := flag.String("description", "", "campaign description")
	requirements := flag.String("requirements", "", "campaign data requirements")
	submitter := flag.String("submitter", "cli", "submitter id used for cache scoping")
	verbose := flag.Bool("v", false, "log pipeline stages to stderr")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: verify_file -file <path> -description <text> -requirements <text>")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.NewConsoleLogger(*verbose)
	defer log.Sync()

	verifier, err := bootstrap.NewVerifier(cfg, cache.NewMemoryStore(cfg.Verification.CacheTTL), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	campaign := schema.Campaign{
		ID:           *campaignID,
		Description:  *description,
		Requirements: *requirements,
	}

	eval, err := verifier.VerifyFile(context.Background(), campaign, *file, *submitter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(eval)
}
