package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Tejaaswini/zeroking/internal/middleware"
	"github.com/Tejaaswini/zeroking/internal/model"
)

// Register mounts the REST and WebSocket routes on app.
func Register(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Get("/health", Health)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerKey())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerKey())

	// Game routes
	gameRoutes := api.Group("/game")
	gameRoutes.Get("/", gc.ListGames)
	gameRoutes.Post("/start", gc.StartGame)
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/match", gc.WaitForMatch)
	gameRoutes.Get("/:gameId", gc.GetGame)
	gameRoutes.Get("/:gameId/fen", gc.GetFEN)
	gameRoutes.Get("/:gameId/history", gc.GetHistory)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/draw/offer", gc.Lifecycle(model.ActionOfferDraw))
	gameRoutes.Post("/:gameId/draw/accept", gc.Lifecycle(model.ActionAcceptDraw))
	gameRoutes.Post("/:gameId/draw/reject", gc.Lifecycle(model.ActionRejectDraw))
	gameRoutes.Post("/:gameId/resign", gc.Lifecycle(model.ActionResign))
}
