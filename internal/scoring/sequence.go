package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/species"
	"gorm.io/datatypes"
)

const (
	// A round cannot plausibly finish faster than this.
	sequenceMinElapsed = 10 * time.Second
	// Keystroke heuristics: humans don't type this regularly or this fast.
	sequenceMinMeanIntervalMillis = 80.0
	sequenceMinIntervalVariance   = 15.0
	sequenceMinTypingMillis       = 300
)

type SequenceGuess struct {
	Guess      string  `json:"guess"`
	Keystrokes []int64 `json:"keystrokes"`
}

type SequenceTrace struct {
	Guesses []SequenceGuess `json:"guesses"`
}

type SequenceScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type sequenceResults struct {
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	PerGuess []bool `json:"perGuess"`
}

// SequenceStrategy scores the guess-the-entity game. The value function
// correct x (correct/total)^1.1 rewards both volume and precision, so
// guessing fewer high-confidence entries beats spraying low-confidence
// ones.
type SequenceStrategy struct {
	catalog *species.Catalog
	now     func() time.Time
}

func NewSequenceStrategy(catalog *species.Catalog) *SequenceStrategy {
	return &SequenceStrategy{catalog: catalog, now: time.Now}
}

func (s *SequenceStrategy) Logic() string {
	return LogicGuessesCorrectTotal
}

func (s *SequenceStrategy) Validate(sess *model.GameSession, trace json.RawMessage) (*Outcome, error) {
	var state SequenceState
	if err := json.Unmarshal(sess.State, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	if len(state.Sequence) == 0 {
		return nil, fmt.Errorf("session %s has an empty sequence", sess.ID)
	}

	now := s.now()
	elapsed := now.Sub(sess.CreatedAt)
	if elapsed < sequenceMinElapsed {
		return nil, fmt.Errorf("%w: submitted after %s, floor is %s", ErrScoreInvalid, elapsed, sequenceMinElapsed)
	}
	if now.After(sess.Expiry) {
		return nil, ErrSessionNotFound
	}

	var t SequenceTrace
	if err := json.Unmarshal(trace, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraceMalformed, err)
	}
	if len(t.Guesses) == 0 {
		return nil, fmt.Errorf("%w: no guesses", ErrTraceMalformed)
	}
	if len(t.Guesses) != len(state.Sequence) {
		return nil, fmt.Errorf("%w: %d guesses for %d entries", ErrTraceMalformed, len(t.Guesses), len(state.Sequence))
	}

	var flags []string
	correct := 0
	perGuess := make([]bool, len(t.Guesses))
	for i, guess := range t.Guesses {
		if s.catalog.Matches(state.Sequence[i], guess.Guess) {
			correct++
			perGuess[i] = true
		}
		if reason := inspectKeystrokes(guess); reason != "" {
			flags = append(flags, fmt.Sprintf("guess %d: %s", i, reason))
		}
	}

	if len(flags) > 0 {
		return nil, fmt.Errorf("%w: automation suspected: %s", ErrScoreInvalid, strings.Join(flags, "; "))
	}

	score, err := json.Marshal(SequenceScore{Correct: correct, Total: len(state.Sequence)})
	if err != nil {
		return nil, err
	}
	results, err := json.Marshal(sequenceResults{
		Correct:  correct,
		Total:    len(state.Sequence),
		PerGuess: perGuess,
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{ScoreData: score, Results: results}, nil
}

// inspectKeystrokes flags inter-keystroke timing that is too fast or too
// uniform for a human. Skipped guesses (no typing) carry no signal.
func inspectKeystrokes(guess SequenceGuess) string {
	if strings.TrimSpace(guess.Guess) == "" || len(guess.Keystrokes) < 2 {
		return ""
	}

	intervals := make([]float64, 0, len(guess.Keystrokes)-1)
	for i := 1; i < len(guess.Keystrokes); i++ {
		d := guess.Keystrokes[i] - guess.Keystrokes[i-1]
		if d < 0 {
			return "non-monotonic keystroke timestamps"
		}
		intervals = append(intervals, float64(d))
	}

	total := guess.Keystrokes[len(guess.Keystrokes)-1] - guess.Keystrokes[0]
	if total < sequenceMinTypingMillis {
		return fmt.Sprintf("typed in %dms", total)
	}

	mean := 0.0
	for _, d := range intervals {
		mean += d
	}
	mean /= float64(len(intervals))
	if mean < sequenceMinMeanIntervalMillis {
		return fmt.Sprintf("mean interval %.1fms", mean)
	}

	if len(intervals) >= 3 {
		variance := 0.0
		for _, d := range intervals {
			variance += (d - mean) * (d - mean)
		}
		variance /= float64(len(intervals))
		if variance < sequenceMinIntervalVariance {
			return fmt.Sprintf("interval variance %.1f", variance)
		}
	}
	return ""
}

// SequenceValue is the penalized hit-rate used for comparison and ranking.
func SequenceValue(correct, total int) float64 {
	if total == 0 || correct == 0 {
		return 0
	}
	return float64(correct) * math.Pow(float64(correct)/float64(total), 1.1)
}

func (s *SequenceStrategy) Better(existing, candidate datatypes.JSON) (bool, error) {
	var e, c SequenceScore
	if err := json.Unmarshal(existing, &e); err != nil {
		return false, err
	}
	if err := json.Unmarshal(candidate, &c); err != nil {
		return false, err
	}
	return sequenceRanksAbove(c, e), nil
}

func sequenceRanksAbove(a, b SequenceScore) bool {
	return SequenceValue(a.Correct, a.Total) > SequenceValue(b.Correct, b.Total)
}

func (s *SequenceStrategy) Sort(entries []Entry) {
	sortEntries(entries, decodeAll[SequenceScore](entries), sequenceRanksAbove)
}
