package service

import (
	"context"
	"encoding/json"

	"ai-verification-be/internal/dto"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/verification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	SendVerificationCompleted(ctx context.Context, msg dto.VerificationCompletedMessage) error
	// OnVerificationCompleted matches verification.CompletionHook
	OnVerificationCompleted(ctx context.Context, c verification.Completion)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (ps *publisherService) SendVerificationCompleted(ctx context.Context, msg dto.VerificationCompletedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, m)
}

func (ps *publisherService) OnVerificationCompleted(ctx context.Context, c verification.Completion) {
	if err := ps.SendVerificationCompleted(ctx, ToCompletedMessage(c)); err != nil {
		ps.logger.Error("PUBLISHER", "Failed to publish verification completion", map[string]interface{}{
			"cache_key": c.CacheKey,
			"error":     err.Error(),
		})
	}
}

func ToCompletedMessage(c verification.Completion) dto.VerificationCompletedMessage {
	return dto.VerificationCompletedMessage{
		CampaignId:       c.CampaignID,
		Submitter:        c.Submitter,
		DocumentName:     c.DocumentName,
		Fingerprint:      c.Fingerprint.String(),
		CacheKey:         c.CacheKey,
		Category:         string(c.Route.Category),
		Format:           string(c.Route.Format),
		MimeType:         c.Route.MIMEType,
		ScoreA:           c.Consensus.A.Score,
		ReasonA:          c.Consensus.A.Reason,
		ScoreB:           c.Consensus.B.Score,
		ReasonB:          c.Consensus.B.Reason,
		RawScore:         c.Consensus.Final.Score,
		RawReason:        c.Consensus.Final.Reason,
		FairnessFactor:   c.Adjustment.Factor,
		FinalScore:       c.Result.Score,
		FinalReason:      c.Result.Reason,
		ExtractionFailed: c.ExtractionFail,
		DurationMs:       c.Duration.Milliseconds(),
		CompletedAt:      c.CompletedAt,
	}
}
