package main

import (
	"log"

	"github.com/meetingdash/meeting-reconciler/internal/infrastructure/database"
	"github.com/meetingdash/meeting-reconciler/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("✅ Database connected successfully")
	log.Println("🔄 Applying migrations from migrations/ directory...")

	n, err := database.RunMigrations(db, "migrations")
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}
