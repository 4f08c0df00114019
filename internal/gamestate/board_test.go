package gamestate

import (
	"testing"
)

func TestNewBoardAlwaysSolvable(t *testing.T) {
	for i := 0; i < 10000; i++ {
		board := NewBoard()
		if len(board) != BoardTiles {
			t.Fatalf("board %d has %d tiles, want %d", i, len(board), BoardTiles)
		}
		if !Solvable(board, BoardWidth) {
			t.Fatalf("board %d is not solvable: %v", i, board)
		}
	}
}

func TestNewBoardIsPermutation(t *testing.T) {
	board := NewBoard()
	seen := make(map[int]bool, len(board))
	for _, tile := range board {
		if tile < 0 || tile >= BoardTiles {
			t.Fatalf("tile %d out of range", tile)
		}
		if seen[tile] {
			t.Fatalf("tile %d appears twice", tile)
		}
		seen[tile] = true
	}
}

func TestSolvableKnownBoards(t *testing.T) {
	tests := []struct {
		name  string
		board []int
		want  bool
	}{
		{
			// Already solved: zero inversions, blank on the bottom row
			// (rowFromBottom=1, odd).
			name:  "solved board",
			board: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			want:  true,
		},
		{
			// Swapping two adjacent tiles flips inversion parity without
			// moving the blank.
			name:  "single swap unsolvable",
			board: []int{1, 0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			want:  false,
		},
		{
			// Zero inversions with the blank on an even row from the
			// bottom violates the even-width rule.
			name:  "blank on even row zero inversions",
			board: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 11, 12, 13, 14},
			want:  false,
		},
		{
			// Odd inversions with the blank on an even row from the
			// bottom is the solvable odd/even combination.
			name:  "odd inversions blank on even row",
			board: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 12, 13, 14, 11},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Solvable(tt.board, BoardWidth); got != tt.want {
				t.Errorf("Solvable(%v) = %v, want %v", tt.board, got, tt.want)
			}
		})
	}
}

func TestDrawDistinct(t *testing.T) {
	ids := DrawDistinct(1, 151, 20)
	if len(ids) != 20 {
		t.Fatalf("got %d ids, want 20", len(ids))
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id < 1 || id > 151 {
			t.Errorf("id %d out of range [1,151]", id)
		}
		if seen[id] {
			t.Errorf("id %d drawn twice", id)
		}
		seen[id] = true
	}
}

func TestDrawDistinctClampsToRange(t *testing.T) {
	ids := DrawDistinct(1, 5, 20)
	if len(ids) != 5 {
		t.Fatalf("got %d ids, want the full range of 5", len(ids))
	}
}

func TestDrawWords(t *testing.T) {
	list := []string{"alpha", "beta", "gamma"}
	words := DrawWords(list, 50)
	if len(words) != 50 {
		t.Fatalf("got %d words, want 50", len(words))
	}
	allowed := map[string]bool{"alpha": true, "beta": true, "gamma": true}
	for _, w := range words {
		if !allowed[w] {
			t.Fatalf("word %q not in source list", w)
		}
	}
}
