// internal/game/types.go
//
// Core type definitions for the memory-game engine.
// Defines:
//   - Phase: lifecycle of a round (setup/memorizing/placing/scored).
//   - Placement: square → piece assignment (ground truth or player guesses).
//   - Verdict/Result: per-square scoring classification.
//   - Sentinel errors for the engine's two failure modes.

package game

import (
	"errors"

	"github.com/mlindgren/blindboard/internal/board"
)

var ErrInvalidConfig = errors.New("piece counts exceed board capacity")
var ErrNotSelectable = errors.New("nothing selected")
var ErrNoRound = errors.New("no active round")

// Phase is the round lifecycle state.
// Possible values:
//   - "setup":      idle, no round generated yet.
//   - "memorizing": board visible, countdown running, input disabled.
//   - "placing":    board hidden, input enabled, no timer.
//   - "scored":     terminal display of results; restart returns to memorizing.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseMemorizing Phase = "memorizing"
	PhasePlacing    Phase = "placing"
	PhaseScored     Phase = "scored"
)

// Placement maps squares to pieces. At most one piece per square; a square
// absent from the map is empty.
type Placement map[board.Square]board.Piece

// clone returns a shallow copy so callers can't mutate engine state.
func (p Placement) clone() Placement {
	out := make(Placement, len(p))
	for sq, pc := range p {
		out[sq] = pc
	}
	return out
}

// Verdict classifies one square after scoring.
type Verdict string

const (
	VerdictCorrect    Verdict = "correct"
	VerdictWrongPiece Verdict = "wrong_piece"
	VerdictMissing    Verdict = "missing"
	VerdictExtraneous Verdict = "extraneous"
)

// Result is the outcome of scoring a round.
type Result struct {
	PerSquare    map[board.Square]Verdict `json:"perSquare"`
	CorrectCount int                      `json:"correctCount"`
	Total        int                      `json:"total"`
}

// Placed reports a single accepted guess.
type Placed struct {
	Square board.Square `json:"square"`
	Piece  board.Piece  `json:"piece"`
}

// TickInfo is returned by Session.Tick. RemainingSeconds is the value that was
// current when the tick fired (so a displayed "0" precedes the phase change).
type TickInfo struct {
	RemainingSeconds int  `json:"remainingSeconds"`
	PhaseChanged     bool `json:"phaseChanged"`
}
