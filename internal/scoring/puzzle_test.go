package scoring

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/arcadehub/api/internal/model"
	"gorm.io/datatypes"
)

func puzzleSession(t *testing.T, board []int) *model.GameSession {
	t.Helper()
	state, err := json.Marshal(PuzzleState{Board: board})
	if err != nil {
		t.Fatal(err)
	}
	return &model.GameSession{ID: "sess-1", GameSlug: SlugPuzzle, State: datatypes.JSON(state)}
}

// oneFromSolved is the solved board with the last two cells swapped; a
// single move (from 15 into the blank at 14) solves it.
func oneFromSolved() []int {
	return []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 15, 14}
}

func marshalTrace(t *testing.T, trace PuzzleTrace) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(trace)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestPuzzleValidateAccepts(t *testing.T) {
	s := NewPuzzleStrategy()
	// Blank at 13: two moves walk it to the bottom-right corner.
	board := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 15, 13, 14}
	sess := puzzleSession(t, board)

	trace := marshalTrace(t, PuzzleTrace{
		Moves: []PuzzleMove{
			{From: 14, To: 13, Timestamp: 1000},
			{From: 15, To: 14, Timestamp: 1500},
		},
		Time: 0.5,
	})

	outcome, err := s.Validate(sess, trace)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var score PuzzleScore
	if err := json.Unmarshal(outcome.ScoreData, &score); err != nil {
		t.Fatal(err)
	}
	if score.Moves != 2 || score.Time != 0.5 {
		t.Errorf("canonical score = %+v, want {2 0.5}", score)
	}
}

func TestPuzzleValidateRejectsIllegalMoves(t *testing.T) {
	s := NewPuzzleStrategy()

	tests := []struct {
		name  string
		moves []PuzzleMove
	}{
		{"swap not targeting blank", []PuzzleMove{{From: 0, To: 1, Timestamp: 1000}}},
		{"non-adjacent swap", []PuzzleMove{{From: 0, To: 14, Timestamp: 1000}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := puzzleSession(t, oneFromSolved())
			_, err := s.Validate(sess, marshalTrace(t, PuzzleTrace{Moves: tt.moves, Time: 1}))
			if !errors.Is(err, ErrScoreInvalid) {
				t.Errorf("got %v, want ErrScoreInvalid", err)
			}
		})
	}
}

func TestPuzzleValidateRejectsNonMonotonicTimestamps(t *testing.T) {
	s := NewPuzzleStrategy()
	board := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 15, 13, 14}
	sess := puzzleSession(t, board)

	trace := marshalTrace(t, PuzzleTrace{
		Moves: []PuzzleMove{
			{From: 14, To: 13, Timestamp: 2000},
			{From: 15, To: 14, Timestamp: 1000},
		},
		Time: 1,
	})
	if _, err := s.Validate(sess, trace); !errors.Is(err, ErrScoreInvalid) {
		t.Errorf("got %v, want ErrScoreInvalid", err)
	}
}

func TestPuzzleValidateRejectsClaimedTimeDrift(t *testing.T) {
	s := NewPuzzleStrategy()
	sess := puzzleSession(t, oneFromSolved())

	// Timestamps span 0s but the claim says 10s.
	trace := marshalTrace(t, PuzzleTrace{
		Moves: []PuzzleMove{{From: 15, To: 14, Timestamp: 1000}},
		Time:  10,
	})
	if _, err := s.Validate(sess, trace); !errors.Is(err, ErrScoreInvalid) {
		t.Errorf("got %v, want ErrScoreInvalid", err)
	}
}

func TestPuzzleValidateRejectsRapidMoves(t *testing.T) {
	s := NewPuzzleStrategy()
	sess := puzzleSession(t, oneFromSolved())

	// Solve, then shuttle the same tile back and forth at 50ms spacing:
	// ends solved but with ten sub-100ms moves.
	moves := []PuzzleMove{{From: 15, To: 14, Timestamp: 1000}}
	ts := int64(1000)
	for i := 0; i < 5; i++ {
		ts += 50
		moves = append(moves, PuzzleMove{From: 14, To: 15, Timestamp: ts})
		ts += 50
		moves = append(moves, PuzzleMove{From: 15, To: 14, Timestamp: ts})
	}
	trace := marshalTrace(t, PuzzleTrace{Moves: moves, Time: 0.5})
	if _, err := s.Validate(sess, trace); !errors.Is(err, ErrScoreInvalid) {
		t.Errorf("got %v, want ErrScoreInvalid", err)
	}
}

func TestPuzzleValidateRejectsUnsolvedFinalBoard(t *testing.T) {
	s := NewPuzzleStrategy()
	sess := puzzleSession(t, oneFromSolved())

	// Legal move that leaves the board scrambled.
	trace := marshalTrace(t, PuzzleTrace{
		Moves: []PuzzleMove{{From: 10, To: 14, Timestamp: 1000}},
		Time:  0,
	})
	if _, err := s.Validate(sess, trace); !errors.Is(err, ErrScoreInvalid) {
		t.Errorf("got %v, want ErrScoreInvalid", err)
	}
}

func TestPuzzleValidateRejectsMalformedTrace(t *testing.T) {
	s := NewPuzzleStrategy()
	sess := puzzleSession(t, oneFromSolved())

	for _, raw := range []string{`{"moves":[],"time":1}`, `not json`, `{"moves":[{"from":-1,"to":99,"timestamp":0}],"time":1}`} {
		if _, err := s.Validate(sess, json.RawMessage(raw)); !errors.Is(err, ErrTraceMalformed) {
			t.Errorf("trace %q: got %v, want ErrTraceMalformed", raw, err)
		}
	}
}

func TestPuzzleReplayDeterministic(t *testing.T) {
	board := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 15, 13, 14}
	moves := []PuzzleMove{
		{From: 14, To: 13, Timestamp: 1000},
		{From: 15, To: 14, Timestamp: 1500},
	}

	first, _, err := replayMoves(board, moves)
	if err != nil {
		t.Fatalf("replayMoves: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, _, err := replayMoves(board, moves)
		if err != nil {
			t.Fatalf("replayMoves: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("replay diverged: %v vs %v", first, again)
		}
	}
}

func TestPuzzleBetter(t *testing.T) {
	s := NewPuzzleStrategy()

	tests := []struct {
		name                string
		existing, candidate PuzzleScore
		want                bool
	}{
		{"worse time despite fewer moves", PuzzleScore{Moves: 40, Time: 120}, PuzzleScore{Moves: 30, Time: 125}, false},
		{"better time", PuzzleScore{Moves: 40, Time: 120}, PuzzleScore{Moves: 60, Time: 110}, true},
		{"equal time fewer moves", PuzzleScore{Moves: 40, Time: 120}, PuzzleScore{Moves: 35, Time: 120}, true},
		{"identical", PuzzleScore{Moves: 40, Time: 120}, PuzzleScore{Moves: 40, Time: 120}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Better(mustJSON(t, tt.existing), mustJSON(t, tt.candidate))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Better = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPuzzleSortAgreesWithBetter(t *testing.T) {
	s := NewPuzzleStrategy()
	scores := []PuzzleScore{
		{Moves: 40, Time: 120},
		{Moves: 30, Time: 125},
		{Moves: 35, Time: 120},
		{Moves: 80, Time: 95.5},
		{Moves: 80, Time: 95.5},
	}

	for i := range scores {
		for j := range scores {
			if i == j {
				continue
			}
			a, b := mustJSON(t, scores[i]), mustJSON(t, scores[j])
			better, err := s.Better(a, b)
			if err != nil {
				t.Fatal(err)
			}
			if !better {
				continue
			}
			entries := []Entry{{ScoreID: "a", ScoreData: a}, {ScoreID: "b", ScoreData: b}}
			s.Sort(entries)
			if entries[0].ScoreID != "b" {
				t.Errorf("Better(%v, %v) is true but sort put the loser first", scores[i], scores[j])
			}
		}
	}
}

func mustJSON(t *testing.T, v interface{}) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return datatypes.JSON(raw)
}
