package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/arcadehub/api/internal/cache"
	"github.com/arcadehub/api/internal/config"
	"github.com/arcadehub/api/internal/database"
	"github.com/arcadehub/api/internal/handler"
	"github.com/arcadehub/api/internal/middleware"
	"github.com/arcadehub/api/internal/rank"
	"github.com/arcadehub/api/internal/scoring"
	"github.com/arcadehub/api/internal/session"
	"github.com/arcadehub/api/internal/species"
	"github.com/arcadehub/api/internal/wordlist"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		// Continue without Redis cache (fail-open)
		redisCache = nil
	}

	// Generation data: typing-test word lists and the species catalog
	words, err := wordlist.Load(cfg.WordListDir)
	if err != nil {
		log.Fatalf("Failed to load word lists: %v", err)
	}
	catalog, err := species.Load(cfg.SpeciesListPath)
	if err != nil {
		log.Fatalf("Failed to load species catalog: %v", err)
	}

	// Scoring strategies and registry
	registry := scoring.NewRegistry(db,
		scoring.NewPuzzleStrategy(),
		scoring.NewSequenceStrategy(catalog),
		scoring.NewTypingStrategy(),
	)
	if err := registry.Refresh(context.Background()); err != nil {
		log.Printf("Warning: Failed to build strategy registry: %v", err)
	}

	// Session issue/validate pipeline
	sessionStore := session.NewStore(db)
	generator := session.NewGenerator(sessionStore, words, catalog, cfg.StateSecret, cfg.SessionTTL)
	uploader := rank.NewUploader(sessionStore, registry, rank.NewGormScoreStore(db), rank.NewGormUserStore(db), redisCache)
	leaderboard := rank.NewLeaderboard(rank.NewGormScoreLister(db), registry, redisCache, cfg.LeaderboardTTL, cfg.LeaderboardLimit)

	// Initialize handlers
	gameHandler := handler.NewGameHandler(db)
	sessionHandler := handler.NewSessionHandler(generator)
	scoreHandler := handler.NewScoreHandler(db, uploader, leaderboard)
	adminHandler := handler.NewAdminHandler(registry)

	// Periodic cleanup of expired sessions; reads already treat expired
	// rows as missing, this reclaims storage.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := database.PurgeExpiredSessions(db); err != nil {
				log.Printf("Warning: session purge failed: %v", err)
			} else if n > 0 {
				log.Printf("Purged %d expired game sessions", n)
			}
		}
	}()

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.Use(middleware.MetricsMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminEmails := splitEmails(cfg.AdminEmails)

	// API routes
	api := r.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	{
		// Games catalog
		api.GET("/games", gameHandler.List)

		// Sessions + results
		api.POST("/games/:slug/session", sessionHandler.Create)
		api.POST("/games/:slug/results", scoreHandler.Submit)

		// Leaderboards and profiles
		api.GET("/scores/:gameId", scoreHandler.List)
		api.GET("/users/:id/scores", scoreHandler.UserScores)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware(cfg.JWTSecret, adminEmails))
	{
		admin.POST("/registry/refresh", adminHandler.RefreshRegistry)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func splitEmails(raw string) []string {
	var emails []string
	for _, email := range strings.Split(raw, ",") {
		if email = strings.TrimSpace(email); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
