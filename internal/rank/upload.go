package rank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/arcadehub/api/internal/cache"
	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/scoring"
	"gorm.io/datatypes"
)

// UploadResult names the outcome of a score submission.
type UploadResult string

const (
	ResultCreated   UploadResult = "created"
	ResultUpdated   UploadResult = "updated"
	ResultUnchanged UploadResult = "unchanged"
	// ResultValidated means the play checked out but the player is a
	// guest, so nothing was stored.
	ResultValidated UploadResult = "validated"
)

// Submission is a client's claimed play for one session.
type Submission struct {
	GameSessionID string
	Trace         json.RawMessage
}

// Upload is the validated outcome plus the stored score, if any.
type Upload struct {
	Result  UploadResult
	Score   *model.Score
	Outcome *scoring.Outcome
}

// Uploader is the end-to-end pipeline: resolve strategy, validate against
// the session, consume the session, and keep the best score per
// (user, game).
type Uploader struct {
	sessions SessionStore
	registry StrategyResolver
	scores   ScoreStore
	users    UserStore
	cache    *cache.RedisCache
}

func NewUploader(sessions SessionStore, registry StrategyResolver, scores ScoreStore, users UserStore, redisCache *cache.RedisCache) *Uploader {
	return &Uploader{
		sessions: sessions,
		registry: registry,
		scores:   scores,
		users:    users,
		cache:    redisCache,
	}
}

// Upload validates a submission and stores the canonical score when it
// beats the user's stored one. Cheat rejections increment the user's
// strike counter; the specific heuristic is logged server-side only.
func (u *Uploader) Upload(ctx context.Context, userID, gameSlug string, sub Submission) (*Upload, error) {
	binding, err := u.registry.BySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	sess, err := u.sessions.GetActive(ctx, sub.GameSessionID)
	if err != nil {
		return nil, err
	}
	if sess.GameSlug != gameSlug {
		// A session for another game never resolves here.
		return nil, fmt.Errorf("%w: session %s belongs to %s", scoring.ErrSessionNotFound, sess.ID, sess.GameSlug)
	}
	if len(sess.ValidatedResults) > 0 {
		return nil, scoring.ErrSessionAlreadyValidated
	}

	outcome, err := binding.Strategy.Validate(sess, sub.Trace)
	if err != nil {
		if errors.Is(err, scoring.ErrScoreInvalid) {
			log.Printf("score rejected for session %s (game %s, user %s): %v", sess.ID, gameSlug, userID, err)
			if userID != "" && userID != model.GuestID {
				if strikeErr := u.users.AddStrike(ctx, userID); strikeErr != nil {
					log.Printf("Warning: failed to record strike for user %s: %v", userID, strikeErr)
				}
			}
		}
		return nil, err
	}

	// Consuming the session before storing the score keeps resubmission
	// of the same trace impossible even if the score write fails.
	if err := u.sessions.MarkValidated(ctx, sess.ID, datatypes.JSON(sub.Trace), outcome.Results); err != nil {
		return nil, err
	}

	if userID == "" || userID == model.GuestID {
		return &Upload{Result: ResultValidated, Outcome: outcome}, nil
	}

	result, score, err := u.scores.SaveBest(ctx, userID, binding.Game.ID, sess.Variant, outcome.ScoreData,
		func(existing datatypes.JSON) (bool, error) {
			return binding.Strategy.Better(existing, outcome.ScoreData)
		})
	if err != nil {
		return nil, err
	}

	if result == ResultCreated {
		if err := u.users.AppendScoreID(ctx, userID, score.ID); err != nil {
			log.Printf("Warning: failed to append score %s to user %s: %v", score.ID, userID, err)
		}
	}
	if result != ResultUnchanged && u.cache != nil {
		if err := u.cache.DeleteByPrefix(ctx, cache.LeaderboardPrefix(binding.Game.ID)); err != nil {
			log.Printf("Warning: failed to invalidate leaderboard cache for game %s: %v", binding.Game.ID, err)
		}
	}

	return &Upload{Result: result, Score: score, Outcome: outcome}, nil
}
