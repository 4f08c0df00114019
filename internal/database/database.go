package database

import (
	"github.com/arcadehub/api/internal/config"
	"github.com/arcadehub/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique-index collisions as gorm.ErrDuplicatedKey, which
		// the score store's concurrent-insert retry depends on.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Game{},
		&model.User{},
		&model.GameSession{},
		&model.Score{},
	)
	if err != nil {
		return err
	}

	// One canonical score per (user, game); this index also guards the
	// orchestrator's concurrent-first-submission race.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_scores_user_game ON scores(user_id, game_id)")

	// Expired sessions are garbage; the index keeps the periodic purge cheap.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_game_sessions_expiry ON game_sessions(expiry)")

	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry. Reads already
// treat expired rows as not found; this just reclaims space.
func PurgeExpiredSessions(db *gorm.DB) (int64, error) {
	result := db.Exec("DELETE FROM game_sessions WHERE expiry < NOW()")
	return result.RowsAffected, result.Error
}
