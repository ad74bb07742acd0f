package main

import (
	"context"
	"log"
	"time"

	"github.com/johnquangdev/lasto/internal/adapter/repository"
	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/infrastructure/database"
	"github.com/johnquangdev/lasto/pkg/config"
)

func main() {
	log.Println("🚀 Seeding sample transcripts...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("📦 Connecting to database...")
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if _, err := database.Migrate(db, cfg.Database.Driver); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	repo := repository.NewTranscriptRepository(db)
	now := time.Now().UTC()

	diarized := entities.NewTranscriptItem("Planning call", now.Add(-2*time.Hour))
	diarized.AssemblyID = "sample"
	diarized.Utterances = []entities.Utterance{
		{Speaker: "A", Text: "Let's go over the release plan."},
		{Speaker: "B", Text: "The migration is ready, only the docs are missing."},
		{Speaker: "A", Text: "Good, then we ship on Friday."},
	}
	diarized.SpeakerNames = map[string]string{"A": "SPEAKER A", "B": "SPEAKER B"}

	edited := entities.NewTranscriptItem("Interview notes", now)
	edited.Content = "ANNA:\nHow long have you worked with Go?\n\nMAREK:\nAbout five years.\n"
	edited.SpeakerNames = map[string]string{"spk_anna": "ANNA"}

	ctx := context.Background()
	for _, item := range []*entities.TranscriptItem{diarized, edited} {
		if err := repo.Save(ctx, item); err != nil {
			log.Fatalf("Failed to save %q: %v", item.Title, err)
		}
		log.Printf("✅ Saved %s (%s)", item.Title, item.ID)
	}
}
