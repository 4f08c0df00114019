// Package rank runs the score upload pipeline and the leaderboard queries
// on top of the scoring strategies.
package rank

import (
	"context"
	"errors"
	"fmt"

	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore is the slice of the session package the uploader needs.
type SessionStore interface {
	GetActive(ctx context.Context, id string) (*model.GameSession, error)
	MarkValidated(ctx context.Context, id string, gameplay, results datatypes.JSON) error
}

// StrategyResolver resolves scoring bindings; implemented by
// scoring.Registry.
type StrategyResolver interface {
	BySlug(ctx context.Context, slug string) (scoring.Binding, error)
	ByGameID(ctx context.Context, gameID string) (scoring.Binding, error)
}

// ScoreStore persists at most one canonical score per (user, game).
type ScoreStore interface {
	// SaveBest atomically creates the score, replaces it when better
	// reports the candidate wins, or leaves it unchanged.
	SaveBest(ctx context.Context, userID, gameID, variant string, candidate datatypes.JSON,
		better func(existing datatypes.JSON) (bool, error)) (UploadResult, *model.Score, error)
}

// UserStore covers the user bookkeeping the pipeline touches.
type UserStore interface {
	AddStrike(ctx context.Context, userID string) error
	AppendScoreID(ctx context.Context, userID, scoreID string) error
}

// ScoreLister feeds the leaderboard with denormalized rows.
type ScoreLister interface {
	ListByGame(ctx context.Context, gameID string) ([]scoring.Entry, error)
}

// GormScoreStore implements ScoreStore on Postgres. The row lock plus the
// scores(user_id, game_id) unique index make compare-then-write atomic:
// concurrent submissions either serialize on the lock or collide on the
// index, and the loser retries down the update path.
type GormScoreStore struct {
	db *gorm.DB
}

func NewGormScoreStore(db *gorm.DB) *GormScoreStore {
	return &GormScoreStore{db: db}
}

func (s *GormScoreStore) SaveBest(ctx context.Context, userID, gameID, variant string, candidate datatypes.JSON,
	better func(existing datatypes.JSON) (bool, error)) (UploadResult, *model.Score, error) {

	result, score, err := s.saveBestOnce(ctx, userID, gameID, variant, candidate, better)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a concurrent first-insert race; the row exists now.
		result, score, err = s.saveBestOnce(ctx, userID, gameID, variant, candidate, better)
	}
	return result, score, err
}

func (s *GormScoreStore) saveBestOnce(ctx context.Context, userID, gameID, variant string, candidate datatypes.JSON,
	better func(existing datatypes.JSON) (bool, error)) (UploadResult, *model.Score, error) {

	var out *model.Score
	var result UploadResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Score
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND game_id = ?", userID, gameID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			score := model.Score{
				UserID:    userID,
				GameID:    gameID,
				ScoreData: candidate,
				Variant:   variant,
			}
			if err := tx.Create(&score).Error; err != nil {
				return err
			}
			result, out = ResultCreated, &score
			return nil
		}
		if err != nil {
			return err
		}

		wins, err := better(existing.ScoreData)
		if err != nil {
			return err
		}
		if !wins {
			result, out = ResultUnchanged, &existing
			return nil
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"score_data": candidate,
			"variant":    variant,
		}).Error; err != nil {
			return err
		}
		existing.ScoreData = candidate
		existing.Variant = variant
		result, out = ResultUpdated, &existing
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return result, out, nil
}

// GormUserStore implements UserStore on Postgres.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) AddStrike(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("strikes", gorm.Expr("strikes + 1")).Error
}

func (s *GormUserStore) AppendScoreID(ctx context.Context, userID, scoreID string) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("score_ids", gorm.Expr("array_append(score_ids, ?)", scoreID)).Error
}

// GormScoreLister implements ScoreLister with a join over users, so a
// leaderboard page renders without per-row lookups.
type GormScoreLister struct {
	db *gorm.DB
}

func NewGormScoreLister(db *gorm.DB) *GormScoreLister {
	return &GormScoreLister{db: db}
}

func (l *GormScoreLister) ListByGame(ctx context.Context, gameID string) ([]scoring.Entry, error) {
	var scores []model.Score
	err := l.db.WithContext(ctx).
		Preload("User").
		Where("game_id = ?", gameID).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	entries := make([]scoring.Entry, len(scores))
	for i, sc := range scores {
		entries[i] = scoring.Entry{
			ScoreID:   sc.ID,
			UserID:    sc.UserID,
			Nickname:  sc.User.Nickname,
			AvatarURL: sc.User.AvatarURL,
			Variant:   sc.Variant,
			ScoreData: sc.ScoreData,
			UpdatedAt: sc.UpdatedAt,
		}
	}
	return entries, nil
}
