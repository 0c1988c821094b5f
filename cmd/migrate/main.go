package main

import (
	"log"

	"prediction-game/internal/config"
	"prediction-game/internal/database"
	"prediction-game/internal/models"

	"github.com/google/uuid"
)

// biharCandidates is the seed list for the CM candidate picker. Seeding is
// idempotent: candidates are matched by name and state.
var biharCandidates = []models.CMCandidate{
	{Name: "Nitish Kumar", Party: "JDU", State: "Bihar"},
	{Name: "Tejashwi Yadav", Party: "RJD", State: "Bihar"},
	{Name: "Samrat Choudhary", Party: "BJP", State: "Bihar"},
	{Name: "Chirag Paswan", Party: "LJP", State: "Bihar"},
	{Name: "Rajesh Ram", Party: "INC", State: "Bihar"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	for _, candidate := range biharCandidates {
		var existing models.CMCandidate
		err := db.Where("name = ? AND state = ?", candidate.Name, candidate.State).
			First(&existing).Error
		if err == nil {
			continue
		}
		candidate.ID = uuid.New()
		if err := db.Create(&candidate).Error; err != nil {
			log.Fatalf("Failed to seed candidate %s: %v", candidate.Name, err)
		}
		log.Printf("Seeded CM candidate: %s (%s)", candidate.Name, candidate.Party)
	}

	log.Println("Migrations and seed data applied successfully")
}
