package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arcadehub/api/internal/gamestate"
	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/scoring"
	"github.com/arcadehub/api/internal/species"
	"github.com/arcadehub/api/internal/wordlist"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	typingWordCount      = 200
	sequenceLength       = 20
	typingDefaultVariant = "30"
)

// Creator is the persistence dependency of the generator.
type Creator interface {
	Create(ctx context.Context, sess *model.GameSession) error
}

// Generator produces unpredictable initial state for a requested game and
// persists the session before the id leaves the server.
type Generator struct {
	store   Creator
	words   *wordlist.Library
	catalog *species.Catalog
	secret  []byte
	ttl     time.Duration
}

func NewGenerator(store Creator, words *wordlist.Library, catalog *species.Catalog, secret string, ttl time.Duration) *Generator {
	return &Generator{
		store:   store,
		words:   words,
		catalog: catalog,
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// NewSession generates state for gameSlug, hashes it, and persists the
// session. On persistence failure no session id is exposed.
func (g *Generator) NewSession(ctx context.Context, gameSlug, ownerID, variant, language string) (*model.GameSession, error) {
	state, variant, params, err := g.generateState(gameSlug, variant, language)
	if err != nil {
		return nil, err
	}

	hash, err := gamestate.IntegrityHash(g.secret, state, variant, params)
	if err != nil {
		return nil, err
	}

	if ownerID == "" {
		ownerID = model.GuestID
	}

	now := time.Now()
	sess := &model.GameSession{
		ID:            uuid.NewString(),
		GameSlug:      gameSlug,
		OwnerID:       ownerID,
		State:         datatypes.JSON(state),
		IntegrityHash: hash,
		Variant:       variant,
		CreatedAt:     now,
		Expiry:        now.Add(g.ttl),
	}
	if err := g.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// generateState returns the state payload plus the normalized variant and
// hash params for the game. Params capture generation inputs (language)
// that are not part of the state itself but must be tamper-evident.
func (g *Generator) generateState(gameSlug, variant, language string) (json.RawMessage, string, string, error) {
	switch gameSlug {
	case scoring.SlugPuzzle:
		state, err := json.Marshal(scoring.PuzzleState{Board: gamestate.NewBoard()})
		return state, "", "", err

	case scoring.SlugSequence:
		ids := gamestate.DrawDistinct(1, g.catalog.MaxID(), sequenceLength)
		state, err := json.Marshal(scoring.SequenceState{Sequence: ids})
		return state, "", "", err

	case scoring.SlugTyping:
		if variant == "" {
			variant = typingDefaultVariant
		}
		if d, err := strconv.Atoi(variant); err != nil || d <= 0 {
			return nil, "", "", fmt.Errorf("%w: bad duration variant %q", scoring.ErrInvalidGame, variant)
		}
		lang := strings.ToLower(strings.TrimSpace(language))
		if lang == "" {
			lang = wordlist.DefaultLanguage
		}
		words, known := g.words.Words(lang)
		if !known {
			lang = wordlist.DefaultLanguage
		}
		state, err := json.Marshal(scoring.TypingState{
			Words:    gamestate.DrawWords(words, typingWordCount),
			Language: lang,
		})
		return state, variant, lang, err

	default:
		return nil, "", "", fmt.Errorf("%w: slug %s", scoring.ErrInvalidGame, gameSlug)
	}
}
