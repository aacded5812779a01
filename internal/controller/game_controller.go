package controller

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/middleware"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/service"
	"github.com/Tejaaswini/zeroking/internal/ws"
)

type GameController struct {
	gameService *service.GameService
	matchWait   time.Duration
}

func NewGameController(gameService *service.GameService, matchWait time.Duration) *GameController {
	return &GameController{gameService: gameService, matchWait: matchWait}
}

type startRequest struct {
	WhiteKey string `json:"whiteKey"`
	BlackKey string `json:"blackKey"`
	FEN      string `json:"fen"`
}

func (gc *GameController) StartGame(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, errors.Malformed("start request: %v", err))
	}

	gameID, err := gc.gameService.Start(req.WhiteKey, req.BlackKey, req.FEN)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var payload ws.MovePayload
	if err := c.BodyParser(&payload); err != nil {
		return sendError(c, errors.Malformed("move request: %v", err))
	}
	if payload.PublicKey == "" {
		payload.PublicKey = middleware.PlayerKey(c)
	}

	result, err := gc.gameService.HandleMove(gameID, payload)
	if err != nil {
		status := errorStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Printf("game %s: move failed: %v", gameID, err)
			return sendError(c, err)
		}
		return c.Status(status).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}
	return c.JSON(fiber.Map{"result": result})
}

// Lifecycle returns the handler for a draw or resign action. The body
// carries the action proof.
func (gc *GameController) Lifecycle(action model.LifecycleAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("gameId")

		var payload ws.ActionPayload
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&payload); err != nil {
				return sendError(c, errors.Malformed("%s request: %v", action, err))
			}
		}
		if payload.PublicKey == "" {
			payload.PublicKey = middleware.PlayerKey(c)
		}

		lifecycle, err := gc.gameService.HandleAction(gameID, action, payload)
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(lifecycle)
	}
}

func (gc *GameController) GetGame(c *fiber.Ctx) error {
	snapshot, err := gc.gameService.Snapshot(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(snapshot)
}

func (gc *GameController) GetFEN(c *fiber.Ctx) error {
	fen, err := gc.gameService.GetFEN(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{"fen": fen})
}

func (gc *GameController) GetHistory(c *fiber.Ctx) error {
	plies, err := gc.gameService.History(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(plies)
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"games": gc.gameService.ListGames()})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerKey(c)); err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// WaitForMatch long-polls until the caller is paired or the wait times out.
func (gc *GameController) WaitForMatch(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), gc.matchWait)
	defer cancel()

	event, ok := gc.gameService.WaitForMatch(ctx, middleware.PlayerKey(c))
	if !ok {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "queued",
		})
	}
	return c.JSON(event)
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
