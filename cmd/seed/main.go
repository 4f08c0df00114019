// Seeds the games catalog. Safe to run repeatedly: existing slugs are
// left untouched.
package main

import (
	"log"

	"github.com/arcadehub/api/internal/config"
	"github.com/arcadehub/api/internal/database"
	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/scoring"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	games := []model.Game{
		{Name: "Fifteen Puzzle", Slug: scoring.SlugPuzzle, ScoringLogic: scoring.LogicMovesTime, CoverURL: "/covers/fifteen-puzzle.png"},
		{Name: "Guess the Pokemon", Slug: scoring.SlugSequence, ScoringLogic: scoring.LogicGuessesCorrectTotal, CoverURL: "/covers/guess-the-pokemon.png"},
		{Name: "Typing Test", Slug: scoring.SlugTyping, ScoringLogic: scoring.LogicWPMTime, CoverURL: "/covers/typing-test.png"},
		// Played against the local AI; no server-validated scores.
		{Name: "Tic-Tac-Toe", Slug: "tic-tac-toe", CoverURL: "/covers/tic-tac-toe.png"},
	}

	for _, game := range games {
		var existing model.Game
		err := db.Where("slug = ?", game.Slug).First(&existing).Error
		if err == nil {
			log.Printf("Game %q already seeded, skipping", game.Slug)
			continue
		}
		if err := db.Create(&game).Error; err != nil {
			log.Fatalf("Failed to seed game %q: %v", game.Slug, err)
		}
		log.Printf("Seeded game %q (%s)", game.Slug, game.ScoringLogic)
	}
}
