package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	migrationsPath, err = resolvePath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// create and list only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		files, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(files) == 0 {
			log.Info("No migrations found")
			return
		}
		for _, f := range files {
			fmt.Println("  -", f.BaseName())
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	m, db, err := migration.Open(&cfg.Database, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to open migrator", zap.Error(err))
	}
	defer func() {
		_ = m.Close()
		_ = db.Close()
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		n := intArg(log, args, "step count", "migrate step <n>")
		err = m.Steps(n)
	case "goto":
		n := intArg(log, args, "version", "migrate goto <version>")
		if n < 0 {
			log.Fatal("Version cannot be negative", zap.Int("value", n))
		}
		err = m.GoTo(uint(n))
	case "force":
		n := intArg(log, args, "version", "migrate force <version>")
		log.Warn("Forcing migration version, the schema is not changed")
		err = m.Force(n)
	case "version":
		var status migration.Status
		status, err = m.Version()
		if err == nil {
			if status.Version == 0 {
				log.Info("No migrations applied")
			} else {
				log.Info("Current migration version",
					zap.Uint("version", status.Version),
					zap.Bool("dirty", status.Dirty),
				)
			}
		}
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// resolvePath picks the migrations directory: the flag, ./migrations, or
// migrations next to the binary's repository root
func resolvePath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

func intArg(log *zap.Logger, args []string, what, usage string) int {
	if len(args) < 2 {
		log.Fatal("Missing "+what, zap.String("usage", usage))
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("Invalid "+what, zap.String("value", args[1]))
	}
	return n
}

func printUsage() {
	fmt.Println(`Silver ledger database migrations (postgres)

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Set the recorded version without running SQL
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml and SILVER_DATABASE_* variables.`)
}
