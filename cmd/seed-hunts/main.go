package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/database"
	"github.com/lakbayapp/lakbay-backend/internal/logger"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/repository"
	"github.com/lakbayapp/lakbay-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	huntRepo := repository.NewHuntRepository(pool)
	catalogService := service.NewCatalogService(huntRepo, rdb, log)

	fmt.Println("=== Seeding Demo Hunt: Cebu Heritage Walk ===")

	demo := demoHunt()
	if err := demo.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Demo hunt definition is invalid")
	}

	if err := huntRepo.Create(ctx, demo); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo hunt")
	}
	fmt.Printf("Created hunt %s (%d clues, %d points)\n", demo.ID, len(demo.Clues), demo.TotalPoints())

	if err := catalogService.Publish(ctx, demo.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish demo hunt")
	}
	fmt.Println("Published and cached. Done.")
}

// demoHunt builds a four-stop walk through downtown Cebu covering every
// clue type.
func demoHunt() *model.Hunt {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Hunt{
		ID:                       uuid.New(),
		Title:                    "Cebu Heritage Walk",
		Description:              "Follow the oldest streets of Cebu from the cross of Magellan to the gates of Fort San Pedro.",
		Difficulty:               model.DifficultyEasy,
		EstimatedDurationMinutes: 90,
		Status:                   model.HuntStatusDraft,
		CreatedAt:                now,
		UpdatedAt:                now,
		Clues: []model.Clue{
			{
				ID:          uuid.New(),
				Order:       0,
				Type:        model.ClueTypeLocation,
				Title:       "Where the cross was planted",
				Description: "Find the kiosk that shelters a cross older than the city itself.",
				Hint:        "It stands between the basilica and the city hall.",
				Points:      50,
				Criteria:    model.CompletionCriteria{RequiresGPS: true},
				Location: &model.LocationSpec{
					TargetLatitude:  10.2937,
					TargetLongitude: 123.9068,
					RadiusMeters:    15,
				},
			},
			{
				ID:          uuid.New(),
				Order:       1,
				Type:        model.ClueTypeQuestion,
				Title:       "The oldest image",
				Description: "Inside the basilica rests a gift from an explorer to a queen.",
				Hint:        "The gift was given at a baptism in 1521.",
				Points:      75,
				Criteria:    model.CompletionCriteria{RequiresAnswer: true},
				Question: &model.QuestionSpec{
					QuestionText:       "Which explorer gave the Santo Nino image to Queen Juana?",
					Options:            []string{"Miguel Lopez de Legazpi", "Ferdinand Magellan"},
					CorrectAnswerIndex: 1,
					Explanation:        "Magellan presented the image in 1521 after the baptism of Rajah Humabon and Queen Juana.",
				},
			},
			{
				ID:          uuid.New(),
				Order:       2,
				Type:        model.ClueTypePhoto,
				Title:       "Walls of coral stone",
				Description: "Capture the oldest triangular fort in the country.",
				Points:      60,
				Criteria:    model.CompletionCriteria{RequiresPhoto: true},
				Photo: &model.PhotoSpec{
					Instruction:      "Photograph the main gate of Fort San Pedro with its plaque visible.",
					RequiredElements: []string{"gate", "plaque"},
				},
			},
			{
				ID:          uuid.New(),
				Order:       3,
				Type:        model.ClueTypeArScan,
				Title:       "The heritage monument",
				Description: "Scan the tableau of Cebu's history at Parian.",
				Hint:        "Look for the largest bronze and concrete scene on the plaza.",
				Points:      80,
				Criteria:    model.CompletionCriteria{},
				ArScan: &model.ArScanSpec{
					TargetObjectName: "Heritage of Cebu Monument",
					ReferenceURL:     "https://lakbay.app/ar/heritage-monument",
				},
			},
		},
	}
}
