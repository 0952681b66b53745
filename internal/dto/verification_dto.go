package dto

import "time"

// VerifyContributionRequest is the multipart form of the verify endpoint.
// File bytes are attached by the controller after parsing.
type VerifyContributionRequest struct {
	OnchainCampaignId string `form:"onchain_campaign_id" validate:"required,max=128"`
	WalletAddress     string `form:"wallet_address" validate:"required,max=128"`
	FileName          string `form:"-" validate:"required"`
	Data              []byte `form:"-"`
}

type VerifyContributionResponse struct {
	VerificationScore  float64 `json:"verification_score"`
	VerificationReason string  `json:"verification_reason"`
}

// VerificationCompletedMessage travels on the in-process bus after every
// computed (non-cached) verification
type VerificationCompletedMessage struct {
	CampaignId       string    `json:"campaign_id"`
	Submitter        string    `json:"submitter"`
	DocumentName     string    `json:"document_name"`
	Fingerprint      string    `json:"fingerprint"`
	CacheKey         string    `json:"cache_key"`
	Category         string    `json:"category"`
	Format           string    `json:"format"`
	MimeType         string    `json:"mime_type"`
	ScoreA           float64   `json:"score_a"`
	ReasonA          string    `json:"reason_a"`
	ScoreB           float64   `json:"score_b"`
	ReasonB          string    `json:"reason_b"`
	RawScore         float64   `json:"raw_score"`
	RawReason        string    `json:"raw_reason"`
	FairnessFactor   float64   `json:"fairness_factor"`
	FinalScore       float64   `json:"final_score"`
	FinalReason      string    `json:"final_reason"`
	ExtractionFailed bool      `json:"extraction_failed"`
	DurationMs       int64     `json:"duration_ms"`
	CompletedAt      time.Time `json:"completed_at"`
}
