// service/game_manager.go
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/game"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/store"
	"github.com/Tejaaswini/zeroking/internal/ws"
	"github.com/Tejaaswini/zeroking/internal/zkid"
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	matches          map[string]model.MatchFoundEvent
	ledger           *store.Ledger
	verifier         zkid.Verifier
	requiredDomain   string
	mu               sync.RWMutex
}

func NewGameManager(ledger *store.Ledger, verifier zkid.Verifier, requiredDomain string) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		matches:          make(map[string]model.MatchFoundEvent),
		ledger:           ledger,
		verifier:         verifier,
		requiredDomain:   requiredDomain,
	}
}

// Restore loads every game in the ledger into memory, each at its latest
// committed state.
func (gm *GameManager) Restore() error {
	metas, err := gm.ledger.Games()
	if err != nil {
		return err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	for _, meta := range metas {
		latest, err := gm.ledger.Latest(meta.ID)
		if err != nil {
			return errors.Wrapf(err, "restore game %s", meta.ID)
		}
		g := model.RestoreGame(meta.ID, meta.WhiteKey, meta.BlackKey, latest.State, meta.Lifecycle)
		if latest.Ply.Move != nil {
			g.SetLastMove(*latest.Ply.Move)
		}
		gm.games[meta.ID] = g
	}
	log.Printf("restored %d games from the ledger", len(metas))
	return nil
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.MatchPlayers()
		}
	}
}

// MatchPlayers creates a game for every pair of queued players. The player
// who waited longer plays white.
func (gm *GameManager) MatchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID, err := gm.createGameLocked(player1.PublicKey, player2.PublicKey, model.NewGameState())
		if err != nil {
			log.Printf("failed to create game for matched players: %v", err)
			continue
		}

		gm.notifyMatch(player1.PublicKey, model.MatchFoundEvent{GameID: gameID, Color: model.White, Opponent: player2.PublicKey})
		gm.notifyMatch(player2.PublicKey, model.MatchFoundEvent{GameID: gameID, Color: model.Black, Opponent: player1.PublicKey})
	}
}

// notifyMatch records event for publicKey and wakes its waiter, if any.
// Callers hold gm.mu.
func (gm *GameManager) notifyMatch(publicKey string, event model.MatchFoundEvent) {
	gm.matches[publicKey] = event

	if ch, ok := gm.matchingChannels[publicKey]; ok {
		select {
		case ch <- event:
			log.Printf("sent match found event to key %s", shortKey(publicKey))
		default:
			log.Printf("failed to send match found event to key %s", shortKey(publicKey))
		}
		delete(gm.matchingChannels, publicKey)
		close(ch)
	}
}

// RegisterMatchmakingChannel makes ch the waiter for publicKey. A match
// already found is returned instead and ch is not registered.
func (gm *GameManager) RegisterMatchmakingChannel(publicKey string, ch chan model.MatchFoundEvent) (model.MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if event, ok := gm.matches[publicKey]; ok {
		delete(gm.matches, publicKey)
		return event, true
	}

	// A newer waiter replaces the old one.
	if existingCh, exists := gm.matchingChannels[publicKey]; exists {
		delete(gm.matchingChannels, publicKey)
		close(existingCh)
	}
	gm.matchingChannels[publicKey] = ch
	return model.MatchFoundEvent{}, false
}

func (gm *GameManager) UnregisterMatchmakingChannel(publicKey string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// Only remove our own channel; a newer waiter may have replaced it.
	if current, ok := gm.matchingChannels[publicKey]; ok && current == ch {
		delete(gm.matchingChannels, publicKey)
	}
}

// TakeMatch returns and forgets the match found for publicKey.
func (gm *GameManager) TakeMatch(publicKey string) (model.MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	event, ok := gm.matches[publicKey]
	if ok {
		delete(gm.matches, publicKey)
	}
	return event, ok
}

// WaitForMatch blocks until publicKey is paired or ctx is done.
func (gm *GameManager) WaitForMatch(ctx context.Context, publicKey string) (model.MatchFoundEvent, bool) {
	ch := make(chan model.MatchFoundEvent, 1)
	if event, ok := gm.RegisterMatchmakingChannel(publicKey, ch); ok {
		return event, true
	}
	defer gm.UnregisterMatchmakingChannel(publicKey, ch)

	select {
	case <-ctx.Done():
		return model.MatchFoundEvent{}, false
	case _, ok := <-ch:
		if !ok {
			return model.MatchFoundEvent{}, false
		}
		return gm.TakeMatch(publicKey)
	}
}

func (gm *GameManager) JoinMatchmaking(publicKey string) error {
	if publicKey == "" {
		return errors.Malformed("public key is required")
	}
	if err := gm.queue.AddPlayer(model.Player{PublicKey: publicKey}); err != nil {
		log.Printf("error adding key %s to matchmaking queue: %v", shortKey(publicKey), err)
		return err
	}
	return nil
}

func (gm *GameManager) CreateGame(whiteKey, blackKey string, state model.GameState) (string, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return gm.createGameLocked(whiteKey, blackKey, state)
}

func (gm *GameManager) createGameLocked(whiteKey, blackKey string, state model.GameState) (string, error) {
	if whiteKey == "" || blackKey == "" {
		return "", errors.Malformed("both public keys are required")
	}
	if whiteKey == blackKey {
		return "", errors.Malformed("a key cannot play both sides")
	}
	if err := state.Validate(); err != nil {
		return "", err
	}

	gameID := uuid.New().String()
	g := model.NewGame(gameID, whiteKey, blackKey, state)

	meta := store.GameMeta{ID: gameID, WhiteKey: whiteKey, BlackKey: blackKey, Lifecycle: g.Lifecycle()}
	if err := gm.ledger.SaveMeta(meta); err != nil {
		return "", errors.Wrap(err, "save game")
	}
	if err := gm.ledger.Append(gameID, store.Entry{Ply: model.InitialPly(state), State: state}); err != nil {
		return "", errors.Wrap(err, "save initial state")
	}

	gm.games[gameID] = g
	log.Printf("created game %s", gameID)
	return gameID, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	g, exists := gm.games[gameID]
	if !exists {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "game %s", gameID)
	}

	return g, nil
}

// ListGames returns the ids of all hosted games in sorted order.
func (gm *GameManager) ListGames() []string {
	gm.mu.RLock()
	ids := maps.Keys(gm.games)
	gm.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// MakeMove evaluates am in the game's session and commits the result to
// the ledger before the session advances.
func (gm *GameManager) MakeMove(gameID string, am model.AuthenticatedMove) (game.MoveResult, error) {
	g, err := gm.GetGame(gameID)
	if err != nil {
		return game.MoveResult{}, err
	}

	var result game.MoveResult
	_, err = g.MakeMove(am, func(s model.GameState) (model.GameState, error) {
		res, err := game.NewLogic(gameID, s, gm.verifier, gm.requiredDomain).Move(am)
		result = res
		if err != nil {
			return s, err
		}

		next := *res.NextState
		entry := store.Entry{Ply: model.NewPly(s, am.Move, next), State: next}
		if err := gm.ledger.Append(gameID, entry); err != nil {
			result = game.MoveResult{}
			return s, errors.Wrap(err, "commit move")
		}
		return next, nil
	})
	if err != nil {
		if result.Reason == errors.KindNone {
			result = game.MoveResult{Reason: errors.KindOf(err)}
		}
		log.Printf("game %s: move %s rejected: %v", gameID, am.Move, err)
		return result, err
	}

	return result, nil
}

// Act applies a draw or resign action and persists the new lifecycle flags.
// proof must attest the action for the game's current ply and action count.
func (gm *GameManager) Act(gameID string, proof model.PlayerZkProof, action model.LifecycleAction) (model.Lifecycle, error) {
	g, err := gm.GetGame(gameID)
	if err != nil {
		return model.Lifecycle{}, err
	}

	authorize := func(s model.GameState, l model.Lifecycle) error {
		return game.AuthorizeAction(gameID, s, l, action, proof, gm.verifier, gm.requiredDomain)
	}
	return g.Act(proof, action, authorize, func(l model.Lifecycle) error {
		meta, err := gm.ledger.LoadMeta(gameID)
		if err != nil {
			return err
		}
		meta.Lifecycle = l
		return gm.ledger.SaveMeta(meta)
	})
}

func (gm *GameManager) Snapshot(gameID string) (model.Snapshot, error) {
	g, err := gm.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return g.Snapshot(), nil
}

// GetGameState returns the latest state committed to the ledger.
func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	latest, err := gm.ledger.Latest(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return latest.State, nil
}

// History returns every committed ply of a game.
func (gm *GameManager) History(gameID string) ([]model.Ply, error) {
	if _, err := gm.GetGame(gameID); err != nil {
		return nil, err
	}
	entries, err := gm.ledger.History(gameID)
	if err != nil {
		return nil, err
	}
	plies := make([]model.Ply, 0, len(entries))
	for _, e := range entries {
		plies = append(plies, e.Ply)
	}
	return plies, nil
}

// RegisterConnection subscribes conn to the game's state pushes.
func (gm *GameManager) RegisterConnection(gameID string, publicKey string, conn *ws.Conn) error {
	g, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	g.RegisterConnection(publicKey, conn)
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID string, conn *ws.Conn) {
	g, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	g.UnregisterConnection(conn)
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
