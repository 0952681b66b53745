package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign is the read side of the campaigns table. The verification service
// never writes it outside of migrations and seeding.
type Campaign struct {
	Id                   uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OnchainCampaignId    string         `gorm:"type:varchar(128);not null;uniqueIndex"`
	CreatorWalletAddress string         `gorm:"type:varchar(128);index"`
	Title                string         `gorm:"type:varchar(255);index"`
	Description          string         `gorm:"type:text"`
	CampaignType         string         `gorm:"type:varchar(64);index"`
	DataRequirements     string         `gorm:"type:text"`
	QualityCriteria      string         `gorm:"type:text"`
	IsCsvOnlyCampaign    bool           `gorm:"default:false;index"`
	IsActive             bool           `gorm:"default:true"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
