// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Board" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's board (creates or reuses session)
//   - POST /daily/check       → score today's board and persist the result
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user gets one scored attempt per day (enforced by DB + in-memory
// session). The board itself is deterministic: every player on a given date
// sees the same placement, derived from HMAC(salt, date) seeding the
// generator. Selection and placement go through the normal /round endpoints.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlindgren/blindboard/internal/daily"
	"github.com/mlindgren/blindboard/internal/game"
)

// Daily board composition. Same for everyone, every day.
const (
	dailyWhite = 4
	dailyBlack = 4
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily board.
type dailySession struct {
	RoundID  string
	UserID   string
	Date     string
	Start    time.Time
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/check", dd.handleCheck)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	RoundID          string         `json:"roundId"`
	Date             string         `json:"date"`
	Played           bool           `json:"played"`
	RemainingSeconds int            `json:"remainingSeconds,omitempty"`
	Board            game.Placement `json:"board,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return RoundID + board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	now := time.Now().UTC()
	date := daily.DateKey(now)

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	if ds, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		sess, err := d.srv.store.Get(r.Context(), ds.RoundID)
		if err == nil {
			truth, _ := sess.GroundTruth()
			_ = json.NewEncoder(w).Encode(dailyNewRes{
				RoundID: ds.RoundID, Date: date, Played: false,
				RemainingSeconds: sess.Remaining(), Board: truth,
			})
			return
		}
		// session evaporated (restart); fall through and rebuild it
		d.mu.Lock()
		delete(d.sessions, key)
	}
	d.mu.Unlock()

	sess := game.NewSession(game.Config{
		MemorizeSeconds: envInt("MEMORIZE_SECONDS", game.DefaultMemorizeSeconds),
		TickEvery:       d.srv.tickEvery,
		Seed:            daily.BoardSeed(now, d.salt),
	})
	if err := sess.Start(dailyWhite, dailyBlack); err != nil {
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	d.mu.Lock()
	d.sessions[key] = &dailySession{
		RoundID: sess.ID,
		UserID:  uid,
		Date:    date,
		Start:   time.Now(),
	}
	d.mu.Unlock()

	truth, _ := sess.GroundTruth()
	_ = json.NewEncoder(w).Encode(dailyNewRes{
		RoundID: sess.ID, Date: date, Played: false,
		RemainingSeconds: sess.Remaining(), Board: truth,
	})
}

// -----------------------------------------------------------------------------
// /daily/check

// dailyCheckReq is the request payload for /daily/check.
type dailyCheckReq struct {
	RoundID string `json:"roundId"`
}

// dailyCheckRes is the response payload for /daily/check.
type dailyCheckRes struct {
	Result *game.Result `json:"result"`
	State  string       `json:"state"` // scored | locked
}

// handleCheck scores today's board for the caller and persists the result.
// A second check for the same date is locked.
func (d *dailyServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyCheckReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	date := daily.DateKey(time.Now().UTC())

	// Find session. Finished is read under the same lock that writes it.
	key := uid + "|" + date
	d.mu.Lock()
	ds, ok := d.sessions[key]
	var roundID string
	var finished bool
	if ok {
		roundID, finished = ds.RoundID, ds.Finished
	}
	d.mu.Unlock()
	if !ok || roundID != p.RoundID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	if finished {
		_ = json.NewEncoder(w).Encode(dailyCheckRes{State: "locked"})
		return
	}

	sess, err := d.srv.store.Get(r.Context(), ds.RoundID)
	if err != nil {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	res, err := sess.Check()
	if err != nil {
		http.Error(w, `{"error":"no_round"}`, http.StatusConflict)
		return
	}

	d.mu.Lock()
	ds.Finished = true
	d.mu.Unlock()

	elapsed := int(time.Since(ds.Start).Milliseconds())
	_ = d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: date, Correct: res.CorrectCount, Total: res.Total, ElapsedMs: elapsed,
	})
	_ = json.NewEncoder(w).Encode(dailyCheckRes{Result: res, State: "scored"})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now().UTC())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
