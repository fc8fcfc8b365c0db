// internal/game/score.go
//
// Scoring pass for a finished round.
//
// Classification per ground-truth square S holding piece P:
//   - correct:     guesses[S] == P
//   - wrong_piece: guesses[S] exists but differs from P
//   - missing:     no guess at S
// Any guessed square not present in the ground truth is extraneous.
//
// Score is a pure function over its inputs: it never mutates either map, so
// scoring the same frozen round twice yields identical results.

package game

import "github.com/mlindgren/blindboard/internal/board"

// Score compares the player's guesses against the ground truth and classifies
// every involved square. Total is the ground-truth size; a 0-of-0 round scores
// vacuously with an empty classification.
func Score(truth, guesses Placement) *Result {
	res := &Result{
		PerSquare: make(map[board.Square]Verdict, len(truth)+len(guesses)),
		Total:     len(truth),
	}
	for sq, want := range truth {
		got, ok := guesses[sq]
		switch {
		case !ok:
			res.PerSquare[sq] = VerdictMissing
		case got == want:
			res.PerSquare[sq] = VerdictCorrect
			res.CorrectCount++
		default:
			res.PerSquare[sq] = VerdictWrongPiece
		}
	}
	for sq := range guesses {
		if _, ok := truth[sq]; !ok {
			res.PerSquare[sq] = VerdictExtraneous
		}
	}
	return res
}
