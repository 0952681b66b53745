package implementation

import (
	"context"
	"errors"

	"ai-verification-be/internal/entity"
	"ai-verification-be/internal/mapper"
	"ai-verification-be/internal/model"
	"ai-verification-be/internal/repository/contract"
	"ai-verification-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CampaignRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CampaignMapper
}

func NewCampaignRepository(db *gorm.DB) contract.CampaignRepository {
	return &CampaignRepositoryImpl{
		db:     db,
		mapper: mapper.NewCampaignMapper(),
	}
}

func (r *CampaignRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CampaignRepositoryImpl) Create(ctx context.Context, campaign *entity.Campaign) error {
	m := r.mapper.ToModel(campaign)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*campaign = *r.mapper.ToEntity(m)
	return nil
}

// FindOne returns nil, nil when nothing matches
func (r *CampaignRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Campaign, error) {
	var m model.Campaign
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CampaignRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Campaign{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
