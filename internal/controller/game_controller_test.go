package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/game"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/service"
	"github.com/Tejaaswini/zeroking/internal/store"
	"github.com/Tejaaswini/zeroking/internal/testutil"
	"github.com/Tejaaswini/zeroking/internal/ws"
	"github.com/Tejaaswini/zeroking/internal/zkid/zkidtest"
)

const (
	domain   = "uni.edu"
	whiteKey = "white-key"
	blackKey = "black-key"
)

func newTestApp(t *testing.T) (*fiber.App, *service.GameService) {
	t.Helper()
	ledger, err := store.Open("")
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	gs := service.NewGameService(service.NewGameManager(ledger, zkidtest.Verifier{}, domain))
	app := fiber.New()
	Register(app, NewGameController(gs, 50*time.Millisecond), NewWebSocketController(gs), []string{"*"})
	return app, gs
}

func doJSON(t *testing.T, app *fiber.App, method, path, key string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		testutil.AssertNoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-Player-Key", key)
	}
	resp, err := app.Test(req, -1)
	testutil.AssertNoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func startGame(t *testing.T, app *fiber.App, fen string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/game/start", whiteKey, startRequest{
		WhiteKey: whiteKey,
		BlackKey: blackKey,
		FEN:      fen,
	})
	testutil.AssertEqual(t, status, fiber.StatusCreated)
	id, _ := body["game_id"].(string)
	testutil.AssertTrue(t, id != "", "game_id missing from %v", body)
	return id
}

func movePayload(t *testing.T, gs *service.GameService, gameID, uci, key string) ws.MovePayload {
	t.Helper()
	snap, err := gs.Snapshot(gameID)
	testutil.AssertNoError(t, err)
	st := game.StatementFor(gameID, snap.State, testutil.MustParseMove(t, uci), key, domain)
	return ws.MovePayload{Move: uci, Proof: zkidtest.Token(st)}
}

func actionPayload(t *testing.T, gs *service.GameService, gameID string, action model.LifecycleAction, key string) ws.ActionPayload {
	t.Helper()
	snap, err := gs.Snapshot(gameID)
	testutil.AssertNoError(t, err)
	st := game.ActionStatementFor(gameID, snap.State, snap.Actions, action, key, domain)
	return ws.ActionPayload{Proof: zkidtest.Token(st)}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, body["status"], "ok")
}

func TestPlayerKeyRequired(t *testing.T) {
	app, _ := newTestApp(t)
	status, _ := doJSON(t, app, http.MethodGet, "/api/game/", "", nil)
	testutil.AssertEqual(t, status, fiber.StatusUnauthorized)
}

func TestMoveOverHTTP(t *testing.T) {
	app, gs := newTestApp(t)
	id := startGame(t, app, "")

	status, body := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", whiteKey,
		movePayload(t, gs, id, "e2e4", whiteKey))
	testutil.AssertEqual(t, status, fiber.StatusOK)
	result, _ := body["result"].(map[string]interface{})
	testutil.AssertEqual(t, result["accepted"], true)

	status, body = doJSON(t, app, http.MethodGet, "/api/game/"+id+"/fen", blackKey, nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, body["fen"], "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
}

func TestMoveErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		uci    string
		key    string
		proof  func(ws.MovePayload) ws.MovePayload
		status int
		reason errors.ErrorKind
	}{
		{
			name:   "illegal move",
			uci:    "e2e5",
			key:    whiteKey,
			status: fiber.StatusUnprocessableEntity,
			reason: errors.KindIllegalMove,
		},
		{
			name: "bad proof",
			uci:  "e2e4",
			key:  whiteKey,
			proof: func(p ws.MovePayload) ws.MovePayload {
				p.Proof = []byte("forged")
				return p
			},
			status: fiber.StatusUnauthorized,
			reason: errors.KindAuthorizationFailed,
		},
		{
			name:   "wrong seat",
			uci:    "e2e4",
			key:    blackKey,
			status: fiber.StatusUnauthorized,
			reason: errors.KindAuthorizationFailed,
		},
		{
			name:   "castle across an attacked square",
			fen:    testutil.CastleIntoRookFEN,
			uci:    "e1g1",
			key:    whiteKey,
			status: fiber.StatusConflict,
			reason: errors.KindIllegalCastle,
		},
		{
			name: "unparseable move",
			uci:  "e2e4",
			key:  whiteKey,
			proof: func(p ws.MovePayload) ws.MovePayload {
				p.Move = "zz"
				return p
			},
			status: fiber.StatusBadRequest,
			reason: errors.KindMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, gs := newTestApp(t)
			id := startGame(t, app, tt.fen)

			payload := movePayload(t, gs, id, tt.uci, tt.key)
			if tt.proof != nil {
				payload = tt.proof(payload)
			}
			status, body := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", tt.key, payload)
			testutil.AssertEqual(t, status, tt.status)
			result, _ := body["result"].(map[string]interface{})
			testutil.AssertEqual(t, result["accepted"], false)
			testutil.AssertEqual(t, result["reason"], string(tt.reason))
		})
	}
}

func TestUnknownGame(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := doJSON(t, app, http.MethodGet, "/api/game/nope", whiteKey, nil)
	testutil.AssertEqual(t, status, fiber.StatusNotFound)
	_, hasReason := body["reason"]
	testutil.AssertFalse(t, hasReason)
}

func TestDrawOverHTTP(t *testing.T) {
	app, gs := newTestApp(t)
	id := startGame(t, app, "")
	path := "/api/game/" + id

	status, _ := doJSON(t, app, http.MethodPost, path+"/draw/accept", blackKey,
		actionPayload(t, gs, id, model.ActionAcceptDraw, blackKey))
	testutil.AssertEqual(t, status, fiber.StatusConflict)

	status, body := doJSON(t, app, http.MethodPost, path+"/draw/offer", whiteKey,
		actionPayload(t, gs, id, model.ActionOfferDraw, whiteKey))
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, body["drawOfferedBy"], string(model.White))

	status, _ = doJSON(t, app, http.MethodPost, path+"/draw/offer", "outsider",
		actionPayload(t, gs, id, model.ActionOfferDraw, "outsider"))
	testutil.AssertEqual(t, status, fiber.StatusForbidden)

	status, body = doJSON(t, app, http.MethodPost, path+"/draw/accept", blackKey,
		actionPayload(t, gs, id, model.ActionAcceptDraw, blackKey))
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, body["status"], string(model.StatusDraw))

	status, _ = doJSON(t, app, http.MethodPost, path+"/resign", whiteKey,
		actionPayload(t, gs, id, model.ActionResign, whiteKey))
	testutil.AssertEqual(t, status, fiber.StatusConflict)
}

// A seat key read from the public snapshot is not enough to resign.
func TestResignNeedsProof(t *testing.T) {
	app, gs := newTestApp(t)
	id := startGame(t, app, "")

	_, snap := doJSON(t, app, http.MethodGet, "/api/game/"+id, "spectator", nil)
	players, _ := snap["players"].(map[string]interface{})
	white, _ := players["white"].(map[string]interface{})
	seat, _ := white["publicKey"].(string)
	testutil.AssertEqual(t, seat, whiteKey)

	status, body := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/resign", seat, nil)
	testutil.AssertEqual(t, status, fiber.StatusUnauthorized)
	testutil.AssertEqual(t, body["reason"], string(errors.KindAuthorizationFailed))

	status, _ = doJSON(t, app, http.MethodPost, "/api/game/"+id+"/resign", "spectator", ws.ActionPayload{
		PublicKey: seat,
		Proof:     []byte("forged"),
	})
	testutil.AssertEqual(t, status, fiber.StatusUnauthorized)

	result, err := gs.Snapshot(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, result.Status, model.StatusActive)
}

func TestMatchmakingOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/api/game/matchmaking/match", whiteKey, nil)
	testutil.AssertEqual(t, status, fiber.StatusAccepted)
	testutil.AssertEqual(t, body["status"], "queued")

	status, _ = doJSON(t, app, http.MethodPost, "/api/game/matchmaking/join", whiteKey, nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	status, _ = doJSON(t, app, http.MethodPost, "/api/game/matchmaking/join", whiteKey, nil)
	testutil.AssertEqual(t, status, fiber.StatusConflict)
}

func TestErrorStatus(t *testing.T) {
	testutil.AssertEqual(t, errorStatus(errors.NewMoveError("e2e4", errors.ErrIllegalCastle)), fiber.StatusConflict)
	testutil.AssertEqual(t, errorStatus(errors.Wrap(errors.ErrGameNotFound, "lookup")), fiber.StatusNotFound)
	testutil.AssertEqual(t, errorStatus(errors.ErrNoDrawOffer), fiber.StatusConflict)
	testutil.AssertEqual(t, errorStatus(stdError("boom")), fiber.StatusInternalServerError)
}

type stdError string

func (e stdError) Error() string { return string(e) }
