package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/riadaman/sanctrum-rest-api/internal/migrations"
	"github.com/riadaman/sanctrum-rest-api/internal/router"
	"github.com/riadaman/sanctrum-rest-api/internal/token"
	tokenrepo "github.com/riadaman/sanctrum-rest-api/internal/token/repo"
	"github.com/riadaman/sanctrum-rest-api/internal/user"
	userrepo "github.com/riadaman/sanctrum-rest-api/internal/user/repo"
	"github.com/riadaman/sanctrum-rest-api/pkg/database"
	"github.com/riadaman/sanctrum-rest-api/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting sanctrum-rest-api")

	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrations.Up(migrateCtx, sqlDB); err != nil {
		cancelMigrate()
		sugar.Fatalf("migrate: %v", err)
	}
	cancelMigrate()

	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	tokenCfg := token.ConfigFromEnv()
	if len(tokenCfg.Secret) == 0 {
		secret, err := token.RandomSecret()
		if err != nil {
			sugar.Fatalf("token secret: %v", err)
		}
		tokenCfg.Secret = secret
		sugar.Warn("TOKEN_SECRET not set; using a random key, issued tokens will not survive a restart")
	}
	tokenSvc, err := token.NewService(tokenrepo.NewTokenRepo(sqlxDB), tokenCfg)
	if err != nil {
		sugar.Fatalf("token service: %v", err)
	}
	userSvc := user.NewService(userrepo.NewUserRepo(sqlxDB), user.NewBcryptHasher(user.CostFromEnv()), tokenSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}
	handler := router.RegisterRoutes(sugar, user.NewHandler(userSvc, sugar), token.Guard(tokenSvc, sugar))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("listening", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
