package contract

import (
	"context"

	"ai-verification-be/internal/entity"
	"ai-verification-be/internal/repository/specification"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Campaign, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
