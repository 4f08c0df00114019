// Package scoring implements the anti-cheat validation and ranking
// pipeline: one strategy per scoring logic, each recomputing results from
// the session's own server-generated state and defining how validated
// scores compare and rank.
package scoring

import (
	"encoding/json"
	"time"

	"github.com/arcadehub/api/internal/model"
	"gorm.io/datatypes"
)

// Scoring logic identifiers, as stored on games.scoring_logic.
const (
	LogicMovesTime           = "moves_time"
	LogicGuessesCorrectTotal = "guesses_correct_total"
	LogicWPMTime             = "wpm_time"
)

// Game slugs for the games with server-issued sessions.
const (
	SlugPuzzle   = "fifteen-puzzle"
	SlugSequence = "guess-the-pokemon"
	SlugTyping   = "typing-test"
)

// Outcome is a validator's recomputation of a submitted play. ScoreData is
// the canonical leaderboard payload; Results is the full detail persisted
// on the session.
type Outcome struct {
	ScoreData datatypes.JSON
	Results   datatypes.JSON
}

// Entry is a denormalized leaderboard row handed to a strategy's Sort.
type Entry struct {
	ScoreID   string         `json:"scoreId"`
	UserID    string         `json:"userId"`
	Nickname  string         `json:"nickname"`
	AvatarURL string         `json:"avatarUrl,omitempty"`
	GameName  string         `json:"gameName"`
	CoverURL  string         `json:"coverUrl,omitempty"`
	Variant   string         `json:"variant,omitempty"`
	ScoreData datatypes.JSON `json:"scoreData"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Strategy is the per-game-kind triple the registry dispatches on.
//
// Validate never trusts client aggregates: it replays the trace against the
// session's state and fails with ErrScoreInvalid when the replay disagrees
// or automation heuristics fire. Better and Sort must agree: sorting any
// two entries places the one Better would pick first.
type Strategy interface {
	// Logic returns the scoring logic identifier this strategy handles.
	Logic() string

	// Validate recomputes the canonical outcome for a session and trace.
	Validate(sess *model.GameSession, trace json.RawMessage) (*Outcome, error)

	// Better reports whether candidate strictly beats existing.
	Better(existing, candidate datatypes.JSON) (bool, error)

	// Sort orders entries best-first, stably.
	Sort(entries []Entry)
}

// PuzzleState is the board payload of a fifteen-puzzle session.
type PuzzleState struct {
	Board []int `json:"board"`
}

// SequenceState is the id sequence payload of a guess-the-entity session.
type SequenceState struct {
	Sequence []int `json:"sequence"`
}

// TypingState is the word payload of a typing-test session.
type TypingState struct {
	Words    []string `json:"words"`
	Language string   `json:"language"`
}
