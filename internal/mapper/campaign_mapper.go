package mapper

import (
	"strings"
	"time"

	"ai-verification-be/internal/entity"
	"ai-verification-be/internal/model"
	"ai-verification-be/pkg/verification/schema"

	"gorm.io/gorm"
)

type CampaignMapper struct{}

func NewCampaignMapper() *CampaignMapper {
	return &CampaignMapper{}
}

func (m *CampaignMapper) ToEntity(c *model.Campaign) *entity.Campaign {
	if c == nil {
		return nil
	}
	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Campaign{
		Id:                   c.Id,
		OnchainCampaignId:    c.OnchainCampaignId,
		CreatorWalletAddress: c.CreatorWalletAddress,
		Title:                c.Title,
		Description:          c.Description,
		CampaignType:         c.CampaignType,
		DataRequirements:     c.DataRequirements,
		QualityCriteria:      c.QualityCriteria,
		IsCsvOnlyCampaign:    c.IsCsvOnlyCampaign,
		IsActive:             c.IsActive,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            updatedAt,
		DeletedAt:            deletedAt,
		IsDeleted:            c.DeletedAt.Valid,
	}
}

func (m *CampaignMapper) ToModel(c *entity.Campaign) *model.Campaign {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Campaign{
		Id:                   c.Id,
		OnchainCampaignId:    c.OnchainCampaignId,
		CreatorWalletAddress: c.CreatorWalletAddress,
		Title:                c.Title,
		Description:          c.Description,
		CampaignType:         c.CampaignType,
		DataRequirements:     c.DataRequirements,
		QualityCriteria:      c.QualityCriteria,
		IsCsvOnlyCampaign:    c.IsCsvOnlyCampaign,
		IsActive:             c.IsActive,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            updatedAt,
		DeletedAt:            deletedAt,
	}
}

// ToVerificationCampaign builds the read-only view the scoring pipeline uses.
// Quality criteria, when present, are appended to the data requirements.
func (m *CampaignMapper) ToVerificationCampaign(c *entity.Campaign) schema.Campaign {
	if c == nil {
		return schema.Campaign{}
	}
	requirements := strings.TrimSpace(c.DataRequirements)
	if q := strings.TrimSpace(c.QualityCriteria); q != "" {
		if requirements != "" {
			requirements += "\n"
		}
		requirements += "Quality criteria: " + q
	}
	return schema.Campaign{
		ID:           c.OnchainCampaignId,
		Description:  c.Description,
		Requirements: requirements,
	}
}
