package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/mlindgren/blindboard/internal/board"
	"github.com/mlindgren/blindboard/internal/game"
	"github.com/mlindgren/blindboard/internal/store"
)

// newTestServer builds a Server over an in-memory SQLite DB with the real
// schema applied. Countdowns are driven manually (tickEvery = 0).
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every pooled conn to :memory: is its own database; keep just one
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	s := New(store.NewMemoryStore(), db)
	s.tickEvery = 0
	return s
}

// doJSON performs a request against the router, carrying any cookies given.
func doJSON(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRoundRejectsInvalidConfiguration(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []map[string]any{
		{"white": 40, "black": 30},
		{"white": math.MaxInt64, "black": 1}, // sum wraps; must still 400
	} {
		rec := doJSON(t, s, http.MethodPost, "/round/new", body, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_configuration")
	}

	// nothing was created
	var cnt int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(1) FROM rounds`).Scan(&cnt))
	require.Equal(t, 0, cnt)
}

func TestRoundStateNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/round/state?roundId=nope", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceRejectsUnknownSquare(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/round/place",
		map[string]any{"roundId": "x", "square": "j9"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectRejectsUnknownPiece(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/round/select",
		map[string]any{"roundId": "x", "color": "red", "kind": "king"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoundFlow(t *testing.T) {
	s := newTestServer(t)

	zero := 0
	rec := doJSON(t, s, http.MethodPost, "/round/new",
		newRoundReq{White: 1, Black: 1, MemorizeSeconds: &zero}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()

	created := decode[newRoundRes](t, rec)
	require.NotEmpty(t, created.RoundID)
	require.Equal(t, game.PhaseMemorizing, created.Phase)
	require.Len(t, created.Board, 2)

	// placing before the memorize phase ends is a no-op
	var truthSq board.Square
	var truthPiece board.Piece
	for sq, pc := range created.Board {
		truthSq, truthPiece = sq, pc
		break
	}
	rec = doJSON(t, s, http.MethodPost, "/round/place",
		placeReq{RoundID: created.RoundID, Square: truthSq}, cookies)
	require.Equal(t, http.StatusConflict, rec.Code)

	// drive the countdown to the placing phase
	sess, err := s.store.Get(context.Background(), created.RoundID)
	require.NoError(t, err)
	info := sess.Tick()
	require.True(t, info.PhaseChanged)

	// still nothing selected
	rec = doJSON(t, s, http.MethodPost, "/round/place",
		placeReq{RoundID: created.RoundID, Square: truthSq}, cookies)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "not_selectable")

	// select the piece that really belongs on truthSq, then place it there
	rec = doJSON(t, s, http.MethodPost, "/round/select",
		selectReq{RoundID: created.RoundID, Color: truthPiece.Color, Kind: truthPiece.Kind}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	sel := decode[selectRes](t, rec)
	require.NotNil(t, sel.Selected)
	require.Equal(t, truthPiece, *sel.Selected)

	rec = doJSON(t, s, http.MethodPost, "/round/place",
		placeReq{RoundID: created.RoundID, Square: truthSq}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	placed := decode[game.Placed](t, rec)
	require.Equal(t, truthSq, placed.Square)

	// check: one of two squares is right, the other is missing
	rec = doJSON(t, s, http.MethodPost, "/round/check",
		checkReq{RoundID: created.RoundID}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[game.Result](t, rec)
	require.Equal(t, 1, res.CorrectCount)
	require.Equal(t, 2, res.Total)
	require.Equal(t, game.VerdictCorrect, res.PerSquare[truthSq])

	// state reflects the scored round and reveals the board again
	rec = doJSON(t, s, http.MethodGet, "/round/state?roundId="+created.RoundID, nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[stateRes](t, rec)
	require.Equal(t, game.PhaseScored, st.Phase)
	require.NotNil(t, st.Result)
	require.Len(t, st.Board, 2)

	// round history row is finished
	var status string
	var correct int
	require.NoError(t, s.db.QueryRow(`SELECT status, correct FROM rounds WHERE id=?`, created.RoundID).
		Scan(&status, &correct))
	require.Equal(t, "scored", status)
	require.Equal(t, 1, correct)
}

func TestRestartReusesSession(t *testing.T) {
	s := newTestServer(t)

	zero := 0
	rec := doJSON(t, s, http.MethodPost, "/round/new",
		newRoundReq{White: 2, Black: 0, MemorizeSeconds: &zero}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[newRoundRes](t, rec)
	cookies := rec.Result().Cookies()

	sess, err := s.store.Get(context.Background(), created.RoundID)
	require.NoError(t, err)
	sess.Tick()
	_, err = sess.Check()
	require.NoError(t, err)

	// restart the same session: scored → memorizing with a fresh board and
	// the newly requested countdown length
	three := 3
	rec = doJSON(t, s, http.MethodPost, "/round/new",
		newRoundReq{RoundID: created.RoundID, White: 3, Black: 3, MemorizeSeconds: &three}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	restarted := decode[newRoundRes](t, rec)
	require.Equal(t, created.RoundID, restarted.RoundID)
	require.Equal(t, game.PhaseMemorizing, restarted.Phase)
	require.Equal(t, 3, restarted.RemainingSeconds)
	require.Len(t, restarted.Board, 6)
}

func TestDailyFlow(t *testing.T) {
	s := newTestServer(t)
	t.Setenv("MEMORIZE_SECONDS", "0")

	rec := doJSON(t, s, http.MethodPost, "/daily/new", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "guest gets an anonymous cookie")

	first := decode[dailyNewRes](t, rec)
	require.False(t, first.Played)
	require.NotEmpty(t, first.RoundID)
	require.Len(t, first.Board, dailyWhite+dailyBlack)

	// same player, same day → same session
	rec = doJSON(t, s, http.MethodPost, "/daily/new", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[dailyNewRes](t, rec)
	require.Equal(t, first.RoundID, again.RoundID)

	// score it
	sess, err := s.store.Get(context.Background(), first.RoundID)
	require.NoError(t, err)
	for sess.Phase() == game.PhaseMemorizing {
		sess.Tick()
	}
	rec = doJSON(t, s, http.MethodPost, "/daily/check",
		dailyCheckReq{RoundID: first.RoundID}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	checked := decode[dailyCheckRes](t, rec)
	require.Equal(t, "scored", checked.State)
	require.Equal(t, dailyWhite+dailyBlack, checked.Result.Total)

	// a second attempt the same day is locked out
	rec = doJSON(t, s, http.MethodPost, "/daily/new", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	locked := decode[dailyNewRes](t, rec)
	require.True(t, locked.Played)

	// and so is re-checking the already scored session
	rec = doJSON(t, s, http.MethodPost, "/daily/check",
		dailyCheckReq{RoundID: first.RoundID}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "locked", decode[dailyCheckRes](t, rec).State)

	// and the result shows on the leaderboard
	rec = doJSON(t, s, http.MethodGet, "/daily/leaderboard", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
}

func TestSignupStatsAndHistory(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/auth/signup",
		map[string]string{"Username": "casper", "Password": "hunter2hunter2"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()

	rec = doJSON(t, s, http.MethodGet, "/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[authUser](t, rec)
	require.Equal(t, "casper", me.Username)

	// an empty round scores 0 of 0, which counts as played but not perfect
	zero := 0
	rec = doJSON(t, s, http.MethodPost, "/round/new",
		newRoundReq{White: 0, Black: 0, MemorizeSeconds: &zero}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[newRoundRes](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/round/check",
		checkReq{RoundID: created.RoundID}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/stats/me", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	require.EqualValues(t, 1, stats["roundsPlayed"])
	require.EqualValues(t, 0, stats["perfectRounds"])

	rec = doJSON(t, s, http.MethodGet, "/rounds/mine", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), created.RoundID)
}

func TestStatsRequireAuth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/stats/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
