// Package main is the entry point for the user service migration tool.
// It applies the embedded schema migrations for either database backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Adarsh-2019/user-service/internal/config"
	"github.com/Adarsh-2019/user-service/internal/repository/postgres"
	"github.com/Adarsh-2019/user-service/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version":
		fmt.Printf("user-migrate\nVersion: %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)

	case "up":
		err = runUp(args)

	case "status":
		err = runStatus(args)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runUp(args []string) error {
	cfg, logger, err := loadConfig(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Migrate(ctx)
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Migrate(ctx)
}

func runStatus(args []string) error {
	cfg, logger, err := loadConfig(args)
	if err != nil {
		return err
	}

	if !cfg.Database.IsEmbedded() {
		return fmt.Errorf("status is only implemented for the sqlite driver")
	}

	ctx := context.Background()
	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := db.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d\n", version)
	return nil
}

func loadConfig(args []string) (*config.Config, zerolog.Logger, error) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	return cfg, logger, nil
}

func printUsage() {
	fmt.Println(`user-migrate - user service schema migrations

Usage:
  user-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

All commands accept --config to point at a config file; otherwise the usual
config search paths and USERSVC_ environment variables apply.`)
}
