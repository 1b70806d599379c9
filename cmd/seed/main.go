// Command seed creates the first Admin account, or resets the password and
// role of an existing one.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/silverledger/backend/internal/application/identity"
	"github.com/silverledger/backend/internal/infrastructure/auth"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var username, password string
	flag.StringVar(&username, "username", "admin", "Admin username")
	flag.StringVar(&password, "password", os.Getenv("SILVER_ADMIN_PASSWORD"), "Admin password (default: $SILVER_ADMIN_PASSWORD)")
	flag.Parse()

	if password == "" {
		fmt.Fprintln(os.Stderr, "a password is required: pass -password or set SILVER_ADMIN_PASSWORD")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	svc := identityapp.NewAuthService(persistence.NewGormUserRepository(db.DB), auth.NewJWTService(cfg.JWT), log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	user, err := svc.SeedAdmin(ctx, username, password)
	if err != nil {
		log.Fatal("Failed to seed admin", zap.Error(err))
	}
	log.Info("Admin ready", zap.String("id", user.ID), zap.String("username", user.Username))
}
