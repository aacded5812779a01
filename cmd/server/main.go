package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Tejaaswini/zeroking/internal/config"
	"github.com/Tejaaswini/zeroking/internal/controller"
	"github.com/Tejaaswini/zeroking/internal/service"
	"github.com/Tejaaswini/zeroking/internal/store"
	"github.com/Tejaaswini/zeroking/internal/zkid"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ledger, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}
	defer ledger.Close()

	verifier, err := loadVerifier(cfg)
	if err != nil {
		log.Fatalf("load verifier: %v", err)
	}

	// Initialize services
	gameManager := service.NewGameManager(ledger, verifier, cfg.RequiredDomain)
	if err := gameManager.Restore(); err != nil {
		log.Fatalf("restore games: %v", err)
	}
	gameService := service.NewGameService(gameManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go gameManager.Run(ctx, cfg.MatchmakingInterval)

	app := fiber.New(fiber.Config{AppName: "zeroking"})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-Key",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize controllers
	gameController := controller.NewGameController(gameService, cfg.MatchWaitTimeout)
	wsController := controller.NewWebSocketController(gameService)
	controller.Register(app, gameController, wsController, cfg.AllowOrigins)

	go func() {
		<-ctx.Done()
		log.Printf("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(cfg.Addr); err != nil {
		log.Printf("listen: %v", err)
	}
}

// loadVerifier reads the configured verifying key, or runs a development
// setup and writes fresh keys to cfg.KeysDir.
func loadVerifier(cfg config.Config) (zkid.Verifier, error) {
	if cfg.VerifyingKeyPath != "" {
		return zkid.LoadVerifier(cfg.VerifyingKeyPath)
	}

	log.Printf("no verifying key configured, running development setup")
	keys, err := zkid.Setup()
	if err != nil {
		return nil, err
	}
	vkPath, err := zkid.SaveKeys(keys, cfg.KeysDir)
	if err != nil {
		return nil, err
	}
	log.Printf("wrote development keys; verifying key at %s", vkPath)
	return keys.Verifier(), nil
}
