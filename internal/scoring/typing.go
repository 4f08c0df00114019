package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/arcadehub/api/internal/model"
	"gorm.io/datatypes"
)

const (
	// Duration variant (seconds) used when a session carries none.
	typingDefaultDuration = 30
	// A sustained mean inter-keystroke spacing below this is not human.
	typingMinMeanSpacingMillis = 40.0

	keyBackspace = "Backspace"
	keySpace     = " "
)

type TypingKeystroke struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

type TypingTrace struct {
	Keystrokes []TypingKeystroke `json:"keystrokes"`
}

type TypingScore struct {
	WPM         float64 `json:"wpm"`
	Accuracy    float64 `json:"accuracy"`
	Raw         float64 `json:"raw"`
	Consistency float64 `json:"consistency"`
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Hits        int     `json:"hits"`
	Mistakes    int     `json:"mistakes"`
	Missed      int     `json:"missed"`
}

// TypingStrategy scores the typing test. Comparison rule: higher wpm wins,
// ties broken by higher accuracy. The observed upstream behavior never
// specified one; last-write-wins was not assumed intentional.
type TypingStrategy struct{}

func NewTypingStrategy() *TypingStrategy {
	return &TypingStrategy{}
}

func (s *TypingStrategy) Logic() string {
	return LogicWPMTime
}

func (s *TypingStrategy) Validate(sess *model.GameSession, trace json.RawMessage) (*Outcome, error) {
	var state TypingState
	if err := json.Unmarshal(sess.State, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	if len(state.Words) == 0 {
		return nil, fmt.Errorf("session %s has no words", sess.ID)
	}

	var t TypingTrace
	if err := json.Unmarshal(trace, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraceMalformed, err)
	}
	if len(t.Keystrokes) == 0 {
		return nil, fmt.Errorf("%w: no keystrokes", ErrTraceMalformed)
	}

	duration := typingDefaultDuration
	if sess.Variant != "" {
		d, err := strconv.Atoi(sess.Variant)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("session %s has bad duration variant %q", sess.ID, sess.Variant)
		}
		duration = d
	}

	score, err := computeTypingScore(state.Words, t.Keystrokes, duration)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(score)
	if err != nil {
		return nil, err
	}
	// The canonical score carries the full metric set already.
	return &Outcome{ScoreData: payload, Results: payload}, nil
}

// computeTypingScore walks the keystroke log word by word against the
// expected words. A space closes the current word (unreached expected
// characters count as missed); a backspace undoes the last counted
// character and decrements its standing counter, while the cumulative
// hit/mistake counters keep their history.
func computeTypingScore(words []string, keystrokes []TypingKeystroke, durationSeconds int) (*TypingScore, error) {
	var correct, incorrect, hits, mistakes, missed, typed int
	wordIdx := 0
	var marks []bool // per typed char of the current word: correct or not

	var prev int64
	for i, ks := range keystrokes {
		if i > 0 && ks.Timestamp < prev {
			return nil, fmt.Errorf("%w: non-monotonic timestamps at keystroke %d", ErrScoreInvalid, i)
		}
		prev = ks.Timestamp

		switch ks.Key {
		case keyBackspace:
			if n := len(marks); n > 0 {
				if marks[n-1] {
					correct--
				} else {
					incorrect--
				}
				marks = marks[:n-1]
			}
		case keySpace:
			typed++
			if wordIdx >= len(words) {
				continue
			}
			if short := len(words[wordIdx]) - len(marks); short > 0 {
				missed += short
			}
			wordIdx++
			marks = marks[:0]
		default:
			typed++
			if len(ks.Key) != 1 || wordIdx >= len(words) {
				continue
			}
			expected := words[wordIdx]
			pos := len(marks)
			hit := pos < len(expected) && expected[pos:pos+1] == ks.Key
			marks = append(marks, hit)
			hits++
			if hit {
				correct++
			} else {
				incorrect++
				mistakes++
			}
		}
	}

	minutes := float64(durationSeconds) / 60

	spacings := make([]float64, 0, len(keystrokes)-1)
	for i := 1; i < len(keystrokes); i++ {
		spacings = append(spacings, float64(keystrokes[i].Timestamp-keystrokes[i-1].Timestamp))
	}
	mean, stddev := meanStddev(spacings)
	if len(spacings) >= 5 && mean < typingMinMeanSpacingMillis {
		return nil, fmt.Errorf("%w: mean keystroke spacing %.1fms", ErrScoreInvalid, mean)
	}

	consistency := 0.0
	if mean > 0 {
		consistency = math.Max(0, 1-stddev/mean) * 100
	}
	accuracy := 0.0
	if hits > 0 {
		accuracy = float64(hits-mistakes) / float64(hits) * 100
	}

	return &TypingScore{
		WPM:         truncate2(float64(correct) / 5 / minutes),
		Raw:         truncate2(float64(typed) / 5 / minutes),
		Accuracy:    truncate2(accuracy),
		Consistency: truncate2(consistency),
		Correct:     correct,
		Incorrect:   incorrect,
		Hits:        hits,
		Mistakes:    mistakes,
		Missed:      missed,
	}, nil
}

func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func truncate2(v float64) float64 {
	return math.Trunc(v*100) / 100
}

func (s *TypingStrategy) Better(existing, candidate datatypes.JSON) (bool, error) {
	var e, c TypingScore
	if err := json.Unmarshal(existing, &e); err != nil {
		return false, err
	}
	if err := json.Unmarshal(candidate, &c); err != nil {
		return false, err
	}
	return typingRanksAbove(c, e), nil
}

func typingRanksAbove(a, b TypingScore) bool {
	if a.WPM != b.WPM {
		return a.WPM > b.WPM
	}
	return a.Accuracy > b.Accuracy
}

func (s *TypingStrategy) Sort(entries []Entry) {
	sortEntries(entries, decodeAll[TypingScore](entries), typingRanksAbove)
}
