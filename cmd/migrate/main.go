package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dvloznov/wealthsense/internal/config"
	"github.com/dvloznov/wealthsense/internal/logger"
	"github.com/dvloznov/wealthsense/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)

	dbPath := flag.String("db", cfg.SQLiteDBPath, "Path to the SQLite database (or set SQLITE_DB_PATH env)")
	down := flag.Bool("down", false, "Revert all migrations (drops stored data)")
	version := flag.Bool("version", false, "Print the applied schema version and exit")
	flag.Parse()

	action := "up"
	switch {
	case *version:
		action = "version"
	case *down:
		action = "down"
	}

	log.Info().Str("db", *dbPath).Str("action", action).Msg("Running migrations")
	if err := run(*dbPath, action, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func run(dbPath, action string, out io.Writer) error {
	switch action {
	case "up":
		if err := sqlite.RunMigrations(dbPath); err != nil {
			return err
		}
		fmt.Fprintln(out, "Schema is up to date.")
	case "down":
		if err := sqlite.RollbackMigrations(dbPath); err != nil {
			return err
		}
		fmt.Fprintln(out, "All migrations reverted.")
	case "version":
		v, dirty, ok, err := sqlite.MigrationVersion(dbPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "No migrations applied.")
			return nil
		}
		fmt.Fprintf(out, "Version %d (dirty: %v)\n", v, dirty)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}
