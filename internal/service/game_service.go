package service

import (
	"context"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/game"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/ws"
)

// GameService is the façade the transport layer talks to.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// Start seeds a game between two public keys. An empty fen starts from the
// initial position.
func (gs *GameService) Start(whiteKey, blackKey, fen string) (string, error) {
	state := model.NewGameState()
	if fen != "" {
		var err error
		if state, err = model.ParseFEN(fen); err != nil {
			return "", err
		}
	}

	return gs.gameManager.CreateGame(whiteKey, blackKey, state)
}

func (gs *GameService) Move(gameID string, am model.AuthenticatedMove) (game.MoveResult, error) {
	return gs.gameManager.MakeMove(gameID, am)
}

// HandleMove decodes a transport move payload and runs it.
func (gs *GameService) HandleMove(gameID string, payload ws.MovePayload) (game.MoveResult, error) {
	am, err := AuthenticatedMoveFrom(payload)
	if err != nil {
		return game.MoveResult{Reason: errors.KindOf(err)}, err
	}
	return gs.Move(gameID, am)
}

// AuthenticatedMoveFrom converts a UCI move payload.
func AuthenticatedMoveFrom(payload ws.MovePayload) (model.AuthenticatedMove, error) {
	m, err := model.ParseMove(payload.Move)
	if err != nil {
		return model.AuthenticatedMove{}, err
	}
	return model.AuthenticatedMove{
		Move: m,
		PlayerProof: model.PlayerZkProof{
			PublicKey: payload.PublicKey,
			Proof:     payload.Proof,
		},
	}, nil
}

func (gs *GameService) OfferDraw(gameID string, proof model.PlayerZkProof) (model.Lifecycle, error) {
	return gs.gameManager.Act(gameID, proof, model.ActionOfferDraw)
}

func (gs *GameService) AcceptDraw(gameID string, proof model.PlayerZkProof) (model.Lifecycle, error) {
	return gs.gameManager.Act(gameID, proof, model.ActionAcceptDraw)
}

func (gs *GameService) RejectDraw(gameID string, proof model.PlayerZkProof) (model.Lifecycle, error) {
	return gs.gameManager.Act(gameID, proof, model.ActionRejectDraw)
}

func (gs *GameService) Resign(gameID string, proof model.PlayerZkProof) (model.Lifecycle, error) {
	return gs.gameManager.Act(gameID, proof, model.ActionResign)
}

// Act dispatches a lifecycle action by name.
func (gs *GameService) Act(gameID string, proof model.PlayerZkProof, action model.LifecycleAction) (model.Lifecycle, error) {
	return gs.gameManager.Act(gameID, proof, action)
}

// HandleAction runs a lifecycle action sent over a transport.
func (gs *GameService) HandleAction(gameID string, action model.LifecycleAction, payload ws.ActionPayload) (model.Lifecycle, error) {
	return gs.Act(gameID, model.PlayerZkProof{PublicKey: payload.PublicKey, Proof: payload.Proof}, action)
}

func (gs *GameService) GetFEN(gameID string) (string, error) {
	snap, err := gs.gameManager.Snapshot(gameID)
	if err != nil {
		return "", err
	}
	return snap.FEN, nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) Snapshot(gameID string) (model.Snapshot, error) {
	return gs.gameManager.Snapshot(gameID)
}

func (gs *GameService) History(gameID string) ([]model.Ply, error) {
	return gs.gameManager.History(gameID)
}

func (gs *GameService) ListGames() []string {
	return gs.gameManager.ListGames()
}

func (gs *GameService) JoinMatchmaking(publicKey string) error {
	return gs.gameManager.JoinMatchmaking(publicKey)
}

func (gs *GameService) WaitForMatch(ctx context.Context, publicKey string) (model.MatchFoundEvent, bool) {
	return gs.gameManager.WaitForMatch(ctx, publicKey)
}

func (gs *GameService) RegisterConnection(gameID string, publicKey string, conn *ws.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, publicKey, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, conn *ws.Conn) {
	gs.gameManager.UnregisterConnection(gameID, conn)
}
