// Package session issues and stores game sessions: server-chosen initial
// state plus an integrity hash, consumed exactly once by validation.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create persists a new session. The session id must be returned to the
// caller only after this succeeds.
func (s *Store) Create(ctx context.Context, sess *model.GameSession) error {
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return fmt.Errorf("create game session: %w", err)
	}
	return nil
}

// GetActive loads a session by id. Expired sessions are indistinguishable
// from missing ones; both return ErrSessionNotFound.
func (s *Store) GetActive(ctx context.Context, id string) (*model.GameSession, error) {
	var sess model.GameSession
	err := s.db.WithContext(ctx).
		Where("id = ? AND expiry > ?", id, time.Now()).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scoring.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game session: %w", err)
	}
	return &sess, nil
}

// MarkValidated sets gameplay and validatedResults exactly once. The
// conditional update is the at-most-once guard: two concurrent validations
// race on the same row and exactly one sees RowsAffected == 1.
func (s *Store) MarkValidated(ctx context.Context, id string, gameplay, results datatypes.JSON) error {
	result := s.db.WithContext(ctx).
		Model(&model.GameSession{}).
		Where("id = ? AND validated_results IS NULL", id).
		Updates(map[string]interface{}{
			"gameplay":          gameplay,
			"validated_results": results,
		})
	if result.Error != nil {
		return fmt.Errorf("mark session validated: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return scoring.ErrSessionAlreadyValidated
	}
	return nil
}
