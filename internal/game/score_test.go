package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlindgren/blindboard/internal/board"
)

var (
	wK = board.Piece{Color: board.White, Kind: board.King}
	wQ = board.Piece{Color: board.White, Kind: board.Queen}
	bK = board.Piece{Color: board.Black, Kind: board.King}
	bP = board.Piece{Color: board.Black, Kind: board.Pawn}
)

func TestScoreClassifiesEverySquare(t *testing.T) {
	truth := Placement{"e1": wK, "e8": bK}
	guesses := Placement{"e1": wK, "e8": wQ, "a1": bP}

	res := Score(truth, guesses)

	require.Equal(t, 1, res.CorrectCount)
	require.Equal(t, 2, res.Total)
	require.Equal(t, map[board.Square]Verdict{
		"e1": VerdictCorrect,
		"e8": VerdictWrongPiece,
		"a1": VerdictExtraneous,
	}, res.PerSquare)
}

func TestScoreMissing(t *testing.T) {
	truth := Placement{"d4": wQ, "f6": bP}
	res := Score(truth, Placement{})

	require.Equal(t, 0, res.CorrectCount)
	require.Equal(t, 2, res.Total)
	require.Equal(t, VerdictMissing, res.PerSquare["d4"])
	require.Equal(t, VerdictMissing, res.PerSquare["f6"])
}

func TestScoreEmptyRound(t *testing.T) {
	res := Score(Placement{}, Placement{})
	require.Equal(t, 0, res.CorrectCount)
	require.Equal(t, 0, res.Total)
	require.Empty(t, res.PerSquare)
}

// Correct ∪ WrongPiece ∪ Missing must exactly partition the ground-truth
// squares, and Extraneous must exactly equal guessed squares outside it.
func TestScorePartitionsSquares(t *testing.T) {
	truth := Placement{"a1": wK, "b2": wQ, "c3": bK, "d4": bP}
	guesses := Placement{"a1": wK, "b2": bK, "h8": wQ, "g7": bP}

	res := Score(truth, guesses)

	for sq := range truth {
		v := res.PerSquare[sq]
		require.Contains(t, []Verdict{VerdictCorrect, VerdictWrongPiece, VerdictMissing}, v, "square %s", sq)
	}
	for sq := range guesses {
		if _, inTruth := truth[sq]; !inTruth {
			require.Equal(t, VerdictExtraneous, res.PerSquare[sq], "square %s", sq)
		}
	}
	require.Len(t, res.PerSquare, 6) // 4 truth squares + 2 extraneous
}

func TestScoreIsPureAndIdempotent(t *testing.T) {
	truth := Placement{"e1": wK, "e8": bK}
	guesses := Placement{"e1": wK, "a1": bP}

	first := Score(truth, guesses)
	second := Score(truth, guesses)

	require.Equal(t, first, second)
	// inputs untouched
	require.Equal(t, Placement{"e1": wK, "e8": bK}, truth)
	require.Equal(t, Placement{"e1": wK, "a1": bP}, guesses)
}
