package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/auth"
	"github.com/spec-kit/pos-terminal/internal/config"
	"github.com/spec-kit/pos-terminal/internal/domain"
	"github.com/spec-kit/pos-terminal/internal/observability"
	"github.com/spec-kit/pos-terminal/internal/persistence"
	"github.com/spec-kit/pos-terminal/internal/repository"
	"github.com/spec-kit/pos-terminal/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	if err := seedAccount(ctx, cfg, accountRepo, logger); err != nil {
		logger.Fatal("failed to seed account", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	denylist := auth.NewDenylist(redis.Client)
	guard := server.NewGuard(tokens, denylist)
	metrics := observability.NewMetrics()

	app := fiber.New()
	server.RegisterMiddlewares(app, logger, metrics, cfg.Server.RequestTimeout())
	server.RegisterRoutes(app, server.RouteConfig{
		Health: server.NewHealthHandler(pool, redis),
		Auth:   server.NewAuthHandler(accountRepo, tokens, denylist),
		Users:  server.NewUsersHandler(accountRepo),
		Orders: server.NewOrdersHandler(orderRepo, menuRepo),
		Guard:  guard,
	})

	go func() {
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// seedAccount provisions the first login when the accounts table is empty,
// so a fresh install is usable without manual SQL.
func seedAccount(ctx context.Context, cfg *config.Config, accounts repository.AccountRepository, logger *zap.Logger) error {
	if cfg.Auth.SeedUserID == "" || cfg.Auth.SeedPassword == "" {
		return nil
	}

	count, err := accounts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Auth.SeedPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	account := &domain.Account{
		UserID:       cfg.Auth.SeedUserID,
		Name:         cfg.Auth.SeedName,
		PasswordHash: hash,
		Type:         cfg.Auth.SeedType,
	}
	if err := accounts.Create(ctx, account); err != nil {
		return err
	}
	logger.Info("seeded initial account", zap.String("userId", account.UserID))
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
