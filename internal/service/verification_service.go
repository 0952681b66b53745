package service

import (
	"context"
	"errors"
	"fmt"

	"ai-verification-be/internal/dto"
	"ai-verification-be/internal/mapper"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/internal/repository/specification"
	"ai-verification-be/internal/repository/unitofwork"
	"ai-verification-be/pkg/verification/schema"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// ContributionVerifier is the scoring core (verification.Verifier)
type ContributionVerifier interface {
	Verify(ctx context.Context, campaign schema.Campaign, data []byte, name, submitter string) (schema.Evaluation, error)
}

type IVerificationService interface {
	VerifyContribution(ctx context.Context, req *dto.VerifyContributionRequest) (*dto.VerifyContributionResponse, error)
}

type verificationService struct {
	uowFactory unitofwork.RepositoryFactory
	verifier   ContributionVerifier
	mapper     *mapper.CampaignMapper
	logger     logger.ILogger
}

func NewVerificationService(
	uowFactory unitofwork.RepositoryFactory,
	verifier ContributionVerifier,
	log logger.ILogger,
) IVerificationService {
	return &verificationService{
		uowFactory: uowFactory,
		verifier:   verifier,
		mapper:     mapper.NewCampaignMapper(),
		logger:     log,
	}
}

func (s *verificationService) VerifyContribution(ctx context.Context, req *dto.VerifyContributionRequest) (*dto.VerifyContributionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	campaign, err := uow.CampaignRepository().FindOne(ctx,
		specification.ByOnchainCampaignID{OnchainCampaignID: req.OnchainCampaignId},
	)
	if err != nil {
		return nil, fmt.Errorf("find campaign %s: %w", req.OnchainCampaignId, err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	s.logger.Info("VERIFICATION", "Verifying contribution", map[string]interface{}{
		"onchain_campaign_id": req.OnchainCampaignId,
		"wallet_address":      req.WalletAddress,
		"file_name":           req.FileName,
		"size_bytes":          len(req.Data),
	})

	eval, err := s.verifier.Verify(ctx, s.mapper.ToVerificationCampaign(campaign), req.Data, req.FileName, req.WalletAddress)
	if err != nil {
		s.logger.Error("VERIFICATION", "Verification failed", map[string]interface{}{
			"onchain_campaign_id": req.OnchainCampaignId,
			"error":               err.Error(),
		})
		return nil, err
	}

	return &dto.VerifyContributionResponse{
		VerificationScore:  eval.Score,
		VerificationReason: eval.Reason,
	}, nil
}
