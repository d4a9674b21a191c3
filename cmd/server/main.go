package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clawtown-server/internal/config"
	"clawtown-server/internal/engine"
	"clawtown-server/internal/gateway"
	"clawtown-server/internal/infrastructure/storage"
	"clawtown-server/internal/network"
	"clawtown-server/internal/server"
	"clawtown-server/internal/version"
	"clawtown-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: окружение CT_*, потом флаги
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration.")
	}

	var seed int64
	var addr string
	flag.Int64Var(&seed, "seed", 0, "World seed (0 for random)")
	flag.StringVar(&addr, "addr", "", "Listen address host:port (overrides CT_HOST/CT_PORT)")
	flag.Parse()

	if addr != "" {
		if err := cfg.SetAddr(addr); err != nil {
			logger.Log.WithError(err).Fatal("Invalid -addr.")
		}
	}

	logger.Log.Info("Starting Clawtown...")
	logger.Log.Info(version.Current().String())

	engineCfg := engine.NewConfig()
	engineCfg.TickInterval = cfg.World.TickInterval
	engineCfg.PersistInterval = cfg.World.PersistInterval
	switch {
	case seed != 0:
		engineCfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit world seed: %d", seed)
	case cfg.World.Seed != 0:
		engineCfg.Seed = cfg.World.Seed
		logger.Log.Infof("🎲 Using world seed from env: %d", cfg.World.Seed)
	default:
		logger.Log.Infof("🎲 Using random world seed: %d", engineCfg.Seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Хранилище прогресса: Postgres или память, опционально Redis сверху
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := storage.Open(openCtx, storage.Options{
		DatabaseURL:   cfg.Database.URL,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		CacheTTL:      cfg.Redis.CacheTTL,
	})
	cancel()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open progress store.")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close progress store.")
		}
	}()

	// 3. Ядро
	gw := gateway.New(gateway.Options{CodeTTL: cfg.World.JoinCodeTTL})
	gameService := engine.NewService(engineCfg, network.NewHub(network.DefaultBuffer), gw, store)
	if err := gameService.Start(false); err != nil {
		logger.Log.WithError(err).Fatal("Failed to start game service.")
	}

	// 4. HTTP и сокеты до сигнала
	srv := server.New(gameService, cfg)
	if err := srv.Run(ctx); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error.")
	}

	logger.Log.WithFields(logrus.Fields{
		"dropped_frames": gameService.Hub.Dropped(),
	}).Info("Shutting down...")
	gameService.Stop()
	logger.Log.Info("Done.")
}
