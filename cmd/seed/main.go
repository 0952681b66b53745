package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"ai-verification-be/internal/config"
	"ai-verification-be/internal/entity"
	"ai-verification-be/internal/repository/specification"
	"ai-verification-be/internal/repository/unitofwork"
	"ai-verification-be/pkg/database"
)

type seedCampaign struct {
	OnchainCampaignId    string `json:"onchain_campaign_id"`
	CreatorWalletAddress string `json:"creator_wallet_address"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	CampaignType         string `json:"campaign_type"`
	DataRequirements     string `json:"data_requirements"`
	QualityCriteria      string `json:"quality_criteria"`
	IsCsvOnlyCampaign    bool   `json:"is_csv_only_campaign"`
}

var defaultCampaigns = []seedCampaign{
	{
		OnchainCampaignId:    "1",
		CreatorWalletAddress: "0x0000000000000000000000000000000000000001",
		Title:                "Street food price survey",
		Description:          "Collect menu prices from street food vendors in your city.",
		CampaignType:         "survey",
		DataRequirements:     "Vendor name, dish, price and date of purchase for at least 10 vendors.",
		QualityCriteria:      "Prices must be legible and recent.",
		IsCsvOnlyCampaign:    true,
	},
	{
		OnchainCampaignId:    "2",
		CreatorWalletAddress: "0x0000000000000000000000000000000000000001",
		Title:                "Storefront photos",
		Description:          "Photograph storefronts showing opening hours.",
		CampaignType:         "image",
		DataRequirements:     "A clear daylight photo with the opening hours sign visible.",
		QualityCriteria:      "No blur, no people in focus.",
	},
}

func main() {
	file := flag.String("file", "", "JSON array of campaigns (defaults to built-in samples)")
	flag.Parse()

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	campaigns := defaultCampaigns
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Error: read %s: %v", *file, err)
		}
		if err := json.Unmarshal(raw, &campaigns); err != nil {
			log.Fatalf("Error: parse %s: %v", *file, err)
		}
	}

	ctx := context.Background()
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).CampaignRepository()

	log.Println("Seeding campaigns...")
	for _, c := range campaigns {
		n, err := repo.Count(ctx, specification.ByOnchainCampaignID{OnchainCampaignID: c.OnchainCampaignId})
		if err != nil {
			log.Fatalf("Error: count campaign %s: %v", c.OnchainCampaignId, err)
		}
		if n > 0 {
			log.Printf("Campaign '%s' already exists, skipping...", c.OnchainCampaignId)
			continue
		}

		err = repo.Create(ctx, &entity.Campaign{
			OnchainCampaignId:    c.OnchainCampaignId,
			CreatorWalletAddress: c.CreatorWalletAddress,
			Title:                c.Title,
			Description:          c.Description,
			CampaignType:         c.CampaignType,
			DataRequirements:     c.DataRequirements,
			QualityCriteria:      c.QualityCriteria,
			IsCsvOnlyCampaign:    c.IsCsvOnlyCampaign,
			IsActive:             true,
		})
		if err != nil {
			log.Fatalf("Error: create campaign %s: %v", c.OnchainCampaignId, err)
		}
		log.Printf("Created campaign '%s' (%s)", c.OnchainCampaignId, c.Title)
	}
}
