package specification

import "gorm.io/gorm"

// ByOnchainCampaignID matches the id the contract assigned to a campaign
type ByOnchainCampaignID struct {
	OnchainCampaignID string
}

func (s ByOnchainCampaignID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("onchain_campaign_id = ?", s.OnchainCampaignID)
}
