package scoring

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/arcadehub/api/internal/gamestate"
	"github.com/arcadehub/api/internal/model"
	"gorm.io/datatypes"
)

const (
	// Claimed time may drift from the move timestamps by at most this much.
	puzzleTimeBufferSeconds = 1.5
	// Moves spaced closer than this are counted as suspicious.
	puzzleFastMoveMillis = 100
	// More fast moves than this is taken as automation.
	puzzleMaxFastMoves = 8
)

type PuzzleMove struct {
	From      int   `json:"from"`
	To        int   `json:"to"`
	Timestamp int64 `json:"timestamp"`
}

type PuzzleTrace struct {
	Moves []PuzzleMove `json:"moves"`
	Time  float64      `json:"time"`
}

type PuzzleScore struct {
	Moves int     `json:"moves"`
	Time  float64 `json:"time"`
}

type puzzleResults struct {
	Moves          int     `json:"moves"`
	Time           float64 `json:"time"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
	FastMoves      int     `json:"fastMoves"`
}

// PuzzleStrategy scores the sliding puzzle: ascending time, then ascending
// moves. Validation replays every move against the session's board.
type PuzzleStrategy struct{}

func NewPuzzleStrategy() *PuzzleStrategy {
	return &PuzzleStrategy{}
}

func (s *PuzzleStrategy) Logic() string {
	return LogicMovesTime
}

func (s *PuzzleStrategy) Validate(sess *model.GameSession, trace json.RawMessage) (*Outcome, error) {
	var state PuzzleState
	if err := json.Unmarshal(sess.State, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	if len(state.Board) != gamestate.BoardTiles {
		return nil, fmt.Errorf("session %s has %d tiles, want %d", sess.ID, len(state.Board), gamestate.BoardTiles)
	}

	var t PuzzleTrace
	if err := json.Unmarshal(trace, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraceMalformed, err)
	}
	if len(t.Moves) == 0 {
		return nil, fmt.Errorf("%w: no moves", ErrTraceMalformed)
	}
	if t.Time < 0 {
		return nil, fmt.Errorf("%w: negative time", ErrTraceMalformed)
	}

	board, fastMoves, err := replayMoves(state.Board, t.Moves)
	if err != nil {
		return nil, err
	}

	for i, tile := range board {
		if tile != i {
			return nil, fmt.Errorf("%w: final board not solved", ErrScoreInvalid)
		}
	}

	if fastMoves > puzzleMaxFastMoves {
		return nil, fmt.Errorf("%w: %d moves under %dms", ErrScoreInvalid, fastMoves, puzzleFastMoveMillis)
	}

	elapsed := float64(t.Moves[len(t.Moves)-1].Timestamp-t.Moves[0].Timestamp) / 1000
	if math.Abs(elapsed-t.Time) > puzzleTimeBufferSeconds {
		return nil, fmt.Errorf("%w: claimed %.2fs but timestamps span %.2fs", ErrScoreInvalid, t.Time, elapsed)
	}

	score, err := json.Marshal(PuzzleScore{Moves: len(t.Moves), Time: t.Time})
	if err != nil {
		return nil, err
	}
	results, err := json.Marshal(puzzleResults{
		Moves:          len(t.Moves),
		Time:           t.Time,
		ElapsedSeconds: elapsed,
		FastMoves:      fastMoves,
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{ScoreData: score, Results: results}, nil
}

// replayMoves applies each (from, to) swap against a copy of the initial
// board, failing on out-of-range cells, swaps not involving the blank,
// non-adjacent swaps, or non-monotonic timestamps. Returns the final board
// and the count of sub-puzzleFastMoveMillis moves.
func replayMoves(initial []int, moves []PuzzleMove) ([]int, int, error) {
	board := append([]int(nil), initial...)
	blank := -1
	for i, tile := range board {
		if tile == gamestate.BlankTile {
			blank = i
			break
		}
	}
	if blank < 0 {
		return nil, 0, fmt.Errorf("board has no blank tile")
	}

	fast := 0
	var prev int64
	for i, mv := range moves {
		if mv.From < 0 || mv.From >= len(board) || mv.To < 0 || mv.To >= len(board) {
			return nil, 0, fmt.Errorf("%w: move %d out of range", ErrTraceMalformed, i)
		}
		if mv.To != blank {
			return nil, 0, fmt.Errorf("%w: move %d does not target the blank", ErrScoreInvalid, i)
		}
		if !adjacentCells(mv.From, mv.To, gamestate.BoardWidth) {
			return nil, 0, fmt.Errorf("%w: move %d is not an adjacent swap", ErrScoreInvalid, i)
		}
		board[mv.From], board[mv.To] = board[mv.To], board[mv.From]
		blank = mv.From

		if i > 0 {
			if mv.Timestamp < prev {
				return nil, 0, fmt.Errorf("%w: non-monotonic timestamps at move %d", ErrScoreInvalid, i)
			}
			if mv.Timestamp-prev < puzzleFastMoveMillis {
				fast++
			}
		}
		prev = mv.Timestamp
	}
	return board, fast, nil
}

func adjacentCells(a, b, width int) bool {
	dr := a/width - b/width
	dc := a%width - b%width
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

func (s *PuzzleStrategy) Better(existing, candidate datatypes.JSON) (bool, error) {
	var e, c PuzzleScore
	if err := json.Unmarshal(existing, &e); err != nil {
		return false, err
	}
	if err := json.Unmarshal(candidate, &c); err != nil {
		return false, err
	}
	return puzzleRanksAbove(c, e), nil
}

// puzzleRanksAbove: fewer seconds wins outright; among equal times, fewer
// moves wins.
func puzzleRanksAbove(a, b PuzzleScore) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Moves < b.Moves
}

func (s *PuzzleStrategy) Sort(entries []Entry) {
	sortEntries(entries, decodeAll[PuzzleScore](entries), puzzleRanksAbove)
}
