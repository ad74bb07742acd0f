package main

import (
	"flag"
	"log"
	"os"

	"github.com/johnquangdev/lasto/internal/infrastructure/database"
	"github.com/johnquangdev/lasto/pkg/config"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "only connect and report the configured driver")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if *dryRun {
		log.Printf("✅ Connected to %s, no migrations applied", cfg.Database.Driver)
		return
	}

	log.Println("🔄 Applying embedded migrations...")
	n, err := database.Migrate(db, cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
	os.Exit(0)
}
