package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/hub/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "HUB_DB_DSN"

type options struct {
	dsn      string
	up       bool
	down     bool
	steps    int
	version  bool
	force    int
	forceSet bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dsn, "dsn", "", "Database connection string (default: $HUB_DB_DSN, then the database config)")
	flag.BoolVar(&opts.up, "up", false, "Run all up migrations")
	flag.BoolVar(&opts.down, "down", false, "Run all down migrations")
	flag.IntVar(&opts.steps, "steps", 0, "Number of migrations (positive=up, negative=down)")
	flag.BoolVar(&opts.version, "version", false, "Print current migration version")
	flag.IntVar(&opts.force, "force", -1, "Force set version (use with caution)")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			opts.forceSet = true
		}
	})

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	dsn, err := resolveDSN(opts.dsn)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch {
	case opts.version:
		v, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case opts.forceSet:
		if err := m.Force(opts.force); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		fmt.Printf("forced to version %d\n", opts.force)
	case opts.up:
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("run up migrations: %w", err)
		}
		fmt.Println("migrations applied successfully")
	case opts.down:
		if err := ignoreNoChange(m.Down()); err != nil {
			return fmt.Errorf("run down migrations: %w", err)
		}
		fmt.Println("migrations reverted successfully")
	case opts.steps != 0:
		if err := ignoreNoChange(m.Steps(opts.steps)); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		fmt.Printf("applied %d migration steps\n", opts.steps)
	default:
		fmt.Println("usage: migrate [-dsn <connection-string>] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}

	return nil
}

// resolveDSN prefers the flag, then HUB_DB_DSN, then the server's own
// database configuration so migrations target the same database.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config for dsn: %w", err)
	}
	return cfg.Database.URL(), nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
