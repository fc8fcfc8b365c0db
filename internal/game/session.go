// internal/game/session.go
//
// A Session owns the full state of one player's round:
//   - the ground-truth placement generated at round start,
//   - the player's guesses and active piece selection,
//   - the memorize-phase countdown.
//
// Phase transitions:
//   - Start: (any phase) → memorizing. Generates fresh ground truth, clears
//     guesses, resets the countdown. Restarting while memorizing cancels the
//     prior countdown first, so at most one countdown is ever live.
//   - Tick: memorizing → placing once the countdown runs out.
//   - Check: memorizing/placing → scored.
//
// The countdown is a ticker goroutine owned by the session and cancelled
// deterministically on restart, Check, or Dispose. A zero TickEvery disables
// the driver entirely; callers (and tests) then invoke Tick themselves.
//
// All state lives behind one mutex; every event is processed atomically.

package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/mlindgren/blindboard/internal/board"
)

// DefaultMemorizeSeconds is the countdown length when none is configured.
const DefaultMemorizeSeconds = 15

// Config controls session behavior.
type Config struct {
	MemorizeSeconds int           // countdown length; <0 falls back to the default
	TickEvery       time.Duration // countdown resolution; 0 disables the driver
	Seed            int64         // rng seed; 0 means time-seeded
}

// Session is the state of a single round, safe for concurrent use.
type Session struct {
	ID string

	mu           sync.Mutex
	cfg          Config
	rng          *mrand.Rand
	phase        Phase
	truth        Placement
	guesses      Placement
	selected     *board.Piece
	remaining    int
	result       *Result
	whiteCount   int
	blackCount   int
	cancelTicker context.CancelFunc
}

// NewSession constructs an idle session in the setup phase.
func NewSession(cfg Config) *Session {
	if cfg.MemorizeSeconds < 0 {
		cfg.MemorizeSeconds = DefaultMemorizeSeconds
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Session{
		ID:      randomID(),
		cfg:     cfg,
		rng:     mrand.New(mrand.NewSource(seed)),
		phase:   PhaseSetup,
		guesses: Placement{},
	}
}

// SetMemorizeSeconds changes the configured countdown length. It takes effect
// on the next Start; a countdown already running is unaffected.
func (s *Session) SetMemorizeSeconds(secs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if secs < 0 {
		secs = DefaultMemorizeSeconds
	}
	s.cfg.MemorizeSeconds = secs
}

// Start configures and begins a round: fresh ground truth, cleared guesses,
// countdown reset to the configured duration. On ErrInvalidConfig no state
// changes and any running round continues untouched.
func (s *Session) Start(white, black int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	truth, err := GeneratePlacement(s.rng, white, black)
	if err != nil {
		return err
	}

	s.stopCountdownLocked()
	s.truth = truth
	s.guesses = Placement{}
	s.selected = nil
	s.result = nil
	s.remaining = s.cfg.MemorizeSeconds
	s.whiteCount, s.blackCount = white, black
	s.phase = PhaseMemorizing

	if s.cfg.TickEvery > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelTicker = cancel
		go s.runCountdown(ctx)
	}
	return nil
}

// runCountdown drives the countdown until the phase changes or the round is
// cancelled. The context is re-checked under the session lock so a tick that
// raced with a restart can never touch the fresh round's state.
func (s *Session) runCountdown(ctx context.Context) {
	t := time.NewTicker(s.cfg.TickEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			if ctx.Err() != nil {
				s.mu.Unlock()
				return
			}
			info := s.tickLocked()
			s.mu.Unlock()
			if info.PhaseChanged {
				return
			}
		}
	}
}

// Tick advances the memorize countdown by one second. The reported
// RemainingSeconds is the pre-decrement value, so "0" is surfaced on the same
// tick that flips the phase to placing. Outside memorizing it is a no-op.
func (s *Session) Tick() TickInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

func (s *Session) tickLocked() TickInfo {
	if s.phase != PhaseMemorizing {
		return TickInfo{RemainingSeconds: s.remaining}
	}
	shown := s.remaining
	s.remaining--
	if s.remaining < 0 {
		s.remaining = 0
		s.phase = PhasePlacing
		s.stopCountdownLocked()
		return TickInfo{RemainingSeconds: shown, PhaseChanged: true}
	}
	return TickInfo{RemainingSeconds: shown}
}

// Select toggles the active piece selection: selecting the active piece again
// clears it, selecting another replaces it. Honored only while placing.
// Returns the selection after the event (nil means none).
func (s *Session) Select(p board.Piece) *board.Piece {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlacing {
		return copyPiece(s.selected)
	}
	if s.selected != nil && *s.selected == p {
		s.selected = nil
	} else {
		pc := p
		s.selected = &pc
	}
	return copyPiece(s.selected)
}

// PlaceAt records the active selection as the guess for sq, overwriting any
// prior guess there. Outside the placing phase, or with nothing selected,
// it returns ErrNotSelectable and mutates nothing.
func (s *Session) PlaceAt(sq board.Square) (Placed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlacing || s.selected == nil {
		return Placed{}, ErrNotSelectable
	}
	s.guesses[sq] = *s.selected
	return Placed{Square: sq, Piece: *s.selected}, nil
}

// Check scores the round and freezes it. Callable from memorizing (the
// countdown is cancelled) or placing; calling it again on a scored round
// returns the same result. Ground truth is never mutated by scoring.
func (s *Session) Check() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseSetup:
		return nil, ErrNoRound
	case PhaseScored:
		return s.result, nil
	}
	s.stopCountdownLocked()
	s.remaining = 0
	s.result = Score(s.truth, s.guesses)
	s.selected = nil
	s.phase = PhaseScored
	return s.result, nil
}

// Dispose cancels any live countdown. The session is unusable for ticking
// afterwards until restarted.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
}

// Phase reports the current round phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Remaining reports the countdown seconds left in the memorize phase.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Selected returns the active piece selection, or nil.
func (s *Session) Selected() *board.Piece {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPiece(s.selected)
}

// GroundTruth returns the generated placement. It is exposed while memorizing
// (the player is looking at it) and after scoring; during placing it stays
// hidden and ok is false.
func (s *Session) GroundTruth() (Placement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseMemorizing && s.phase != PhaseScored {
		return nil, false
	}
	return s.truth.clone(), true
}

// UserPlacement returns a copy of the player's current guesses.
func (s *Session) UserPlacement() Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guesses.clone()
}

// Result returns the scoring result once the round is scored.
func (s *Session) Result() (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// Counts reports the configured (white, black) piece counts for the round.
func (s *Session) Counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.whiteCount, s.blackCount
}

// stopCountdownLocked cancels the live countdown, if any. Callers hold s.mu.
func (s *Session) stopCountdownLocked() {
	if s.cancelTicker != nil {
		s.cancelTicker()
		s.cancelTicker = nil
	}
}

func copyPiece(p *board.Piece) *board.Piece {
	if p == nil {
		return nil
	}
	pc := *p
	return &pc
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
