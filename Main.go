package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jarenkendrick14/Dropify/config"
	"github.com/jarenkendrick14/Dropify/jwt"
	"github.com/jarenkendrick14/Dropify/repository"
	"github.com/jarenkendrick14/Dropify/routers"
)

func main() {
	configPath := os.Getenv("DROPIFY_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.Secret == "" {
		log.Fatal("auth secret is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := repository.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = db.Client().Disconnect(context.Background())
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	rdb := config.SetupRedisConnection(cfg)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to ping Redis: %v", err)
	}

	router := routers.SetupRouters(
		[]byte(cfg.Auth.Secret),
		jwt.NewRedisTokenStore(rdb),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		repository.NewOrderRepository(db),
	)

	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
