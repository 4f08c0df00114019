package gamestate

import (
	"math/rand"
)

const (
	// BoardWidth is the sliding puzzle grid width (4x4 board).
	BoardWidth = 4
	// BoardTiles is the total tile count including the blank.
	BoardTiles = BoardWidth * BoardWidth
	// BlankTile is the empty cell sentinel; the solved board is
	// [0..BoardTiles-1] in ascending order, blank last.
	BlankTile = BoardTiles - 1
)

// NewBoard returns a uniformly random solvable permutation of the puzzle
// tiles. Unsolvable shuffles are rejected; roughly half of all permutations
// are solvable, so the loop terminates after ~2 iterations in expectation.
func NewBoard() []int {
	board := make([]int, BoardTiles)
	for i := range board {
		board[i] = i
	}
	for {
		rand.Shuffle(len(board), func(i, j int) {
			board[i], board[j] = board[j], board[i]
		})
		if Solvable(board, BoardWidth) {
			return board
		}
	}
}

// Solvable reports whether a sliding puzzle board can reach sorted order,
// using the standard 15-puzzle parity rule. The blank is the highest tile
// value and is ignored when counting inversions.
func Solvable(board []int, width int) bool {
	blank := len(board) - 1
	inversions := 0
	blankIndex := -1
	for i, a := range board {
		if a == blank {
			blankIndex = i
			continue
		}
		for _, b := range board[i+1:] {
			if b == blank {
				continue
			}
			if a > b {
				inversions++
			}
		}
	}
	if blankIndex < 0 {
		return false
	}

	if width%2 == 1 {
		return inversions%2 == 0
	}

	rows := len(board) / width
	emptyRowFromBottom := rows - blankIndex/width
	if inversions%2 == 0 {
		return emptyRowFromBottom%2 == 1
	}
	return emptyRowFromBottom%2 == 0
}
