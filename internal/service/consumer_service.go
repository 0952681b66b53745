package service

import (
	"context"
	"encoding/json"

	"ai-verification-be/internal/dto"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher forwards domain events off-process (NATS in production)
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	auditLogger logger.ILogger
	logger      logger.ILogger
	events      EventPublisher
}

// NewConsumerService wires the completion topic to the audit log and the
// outbound event bus. eventPublisher may be nil when NATS is unavailable.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
	log logger.ILogger,
	eventPublisher EventPublisher,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		auditLogger: auditLogger,
		logger:      log,
		events:      eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.VerificationCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal completion message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"campaign_id":       payload.CampaignId,
		"submitter":         payload.Submitter,
		"document_name":     payload.DocumentName,
		"fingerprint":       payload.Fingerprint,
		"cache_key":         payload.CacheKey,
		"category":          payload.Category,
		"format":            payload.Format,
		"score_a":           payload.ScoreA,
		"reason_a":          payload.ReasonA,
		"score_b":           payload.ScoreB,
		"reason_b":          payload.ReasonB,
		"raw_score":         payload.RawScore,
		"fairness_factor":   payload.FairnessFactor,
		"final_score":       payload.FinalScore,
		"final_reason":      payload.FinalReason,
		"extraction_failed": payload.ExtractionFailed,
		"duration_ms":       payload.DurationMs,
	}
	cs.auditLogger.Info("AUDIT", "Verification completed", details)

	if cs.events != nil {
		event := events.NewContributionVerifiedEvent(msg.UUID, map[string]interface{}{
			"onchain_campaign_id":   payload.CampaignId,
			"wallet_address":        payload.Submitter,
			"fingerprint":           payload.Fingerprint,
			"verification_score":    payload.FinalScore,
			"verification_reason":   payload.FinalReason,
			"verification_category": payload.Category,
		}, payload.CompletedAt)

		// Audit already has the record; a NATS outage must not replay it
		if err := cs.events.Publish(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to publish CONTRIBUTION_VERIFIED", map[string]interface{}{
				"cache_key": payload.CacheKey,
				"error":     err.Error(),
			})
		}
	}

	msg.Ack()
}
