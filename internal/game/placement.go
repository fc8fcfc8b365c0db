// internal/game/placement.go
//
// Ground-truth placement generation.
// Shuffles the 64 squares with an unbiased Fisher–Yates shuffle, then draws
// the requested number of white and black squares from the front without
// replacement. Each drawn square gets a uniformly random kind of the
// required color.

package game

import (
	"math/rand"

	"github.com/mlindgren/blindboard/internal/board"
)

// GeneratePlacement produces a ground-truth placement with exactly white
// white pieces and black black pieces on distinct squares.
// Returns ErrInvalidConfig if the counts are negative or exceed the board.
func GeneratePlacement(rng *rand.Rand, white, black int) (Placement, error) {
	// bound each count before comparing the sum so huge values can't wrap
	if white < 0 || black < 0 || white > board.Size || black > board.Size-white {
		return nil, ErrInvalidConfig
	}

	sqs := board.Squares()
	rng.Shuffle(len(sqs), func(i, j int) { sqs[i], sqs[j] = sqs[j], sqs[i] })

	out := make(Placement, white+black)
	for i := 0; i < white; i++ {
		out[sqs[i]] = randomPiece(rng, board.White)
	}
	for i := white; i < white+black; i++ {
		out[sqs[i]] = randomPiece(rng, board.Black)
	}
	return out, nil
}

// randomPiece draws a uniformly random kind of the given color.
// All six kinds are equally likely; board.Piece.Weight is reserved for
// weighted variants and deliberately unused here.
func randomPiece(rng *rand.Rand, c board.Color) board.Piece {
	return board.Piece{Color: c, Kind: board.Kinds[rng.Intn(len(board.Kinds))]}
}
