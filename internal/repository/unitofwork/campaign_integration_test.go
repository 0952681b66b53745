package unitofwork

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-verification-be/internal/entity"
	"ai-verification-be/internal/model"
	"ai-verification-be/internal/repository/specification"
	"ai-verification-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRepository_Integration(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Campaign{}))

	ctx := context.Background()
	uow := NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)

	// Everything below is rolled back
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	onchainID := "it-" + uuid.New().String()
	campaign := &entity.Campaign{
		OnchainCampaignId: onchainID,
		Title:             "Integration Campaign",
		Description:       "Photos of bus stops",
		DataRequirements:  "Timetable must be readable",
		QualityCriteria:   "Daylight only",
		IsActive:          true,
	}
	require.NoError(t, uow.CampaignRepository().Create(ctx, campaign))
	assert.NotEqual(t, uuid.Nil, campaign.Id)

	t.Run("FindOne by onchain id", func(t *testing.T) {
		found, err := uow.CampaignRepository().FindOne(ctx, specification.ByOnchainCampaignID{OnchainCampaignID: onchainID})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Photos of bus stops", found.Description)
	})

	t.Run("FindOne miss returns nil", func(t *testing.T) {
		found, err := uow.CampaignRepository().FindOne(ctx, specification.ByOnchainCampaignID{OnchainCampaignID: "missing-" + onchainID})
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Count", func(t *testing.T) {
		n, err := uow.CampaignRepository().Count(ctx, specification.ByOnchainCampaignID{OnchainCampaignID: onchainID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
