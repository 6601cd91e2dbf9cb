package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sakshamjn/intervue/internal/cache"
	"github.com/sakshamjn/intervue/internal/config"
	"github.com/sakshamjn/intervue/internal/database"
	"github.com/sakshamjn/intervue/internal/groq"
	"github.com/sakshamjn/intervue/internal/handler"
	"github.com/sakshamjn/intervue/internal/interview"
	"github.com/sakshamjn/intervue/internal/logger"
	"github.com/sakshamjn/intervue/internal/repository"
	"github.com/sakshamjn/intervue/pkg"
	"go.uber.org/zap"
)

type application struct {
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	Interviews *interview.Service
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	pool, err := database.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleTime)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(ctx, rdb); err != nil {
		sugar.Fatal(err)
	}
	defer rdb.Close()

	crypto, err := pkg.NewCrypto(cfg.Crypto.Secret)
	if err != nil {
		sugar.Fatal(err)
	}

	groqClient := groq.NewClient(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.Timeout)
	repo := repository.NewRepository(pool)
	snapshots := cache.NewSessionCache(rdb, crypto)

	interviews := interview.NewService(log, groqClient, repo.Candidate, snapshots, cfg.Groq.Timeout)
	go interviews.Run(ctx)

	handlerApp := &handler.Handler{
		Logger:     log,
		Interviews: interviews,
		Repository: repo,
		JwtSecret:  cfg.JWT.Secret,
		JwtTTL:     cfg.JWT.AccessTokenTTL,
	}

	app := &application{
		DB:         pool,
		Redis:      rdb,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		Interviews: interviews,
		Handler:    handlerApp,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
