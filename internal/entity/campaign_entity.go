package entity

import (
	"time"

	"github.com/google/uuid"
)

type Campaign struct {
	Id                   uuid.UUID
	OnchainCampaignId    string
	CreatorWalletAddress string
	Title                string
	Description          string
	CampaignType         string
	DataRequirements     string
	QualityCriteria      string
	IsCsvOnlyCampaign    bool
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            *time.Time
	DeletedAt            *time.Time
	IsDeleted            bool
}
