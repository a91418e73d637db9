// Package main is the entry point for the user service admin CLI.
// It talks directly to the database, bypassing the HTTP API, so operators
// can manage accounts on a host with database access.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/Adarsh-2019/user-service/internal/config"
	"github.com/Adarsh-2019/user-service/internal/pkg/crypto"
	"github.com/Adarsh-2019/user-service/internal/repository"
	"github.com/Adarsh-2019/user-service/internal/repository/postgres"
	"github.com/Adarsh-2019/user-service/internal/repository/sqlite"
	"github.com/Adarsh-2019/user-service/internal/service"
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
		fmt.Printf("user-admin\nVersion: %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)

	case "create":
		err = runCreate(args)

	case "list":
		err = runList(args)

	case "delete":
		err = runDelete(args)

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

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	username := fs.String("username", "", "username (3-50 characters)")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "plaintext password")
	_ = fs.Parse(args)

	svc, db, err := openService(*configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	page := fs.Int("page", 0, "page number (0-indexed)")
	size := fs.Int("size", 20, "page size")
	_ = fs.Parse(args)

	svc, db, err := openService(*configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	out, err := svc.List(context.Background(), service.ListUsersInput{Page: *page, Size: *size})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tACTIVE\tCREATED")
	for _, u := range out.Users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.Username, u.Email, u.Active, u.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	fmt.Printf("total: %d\n", out.Total)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	id := fs.Int64("id", 0, "user ID")
	_ = fs.Parse(args)

	svc, db, err := openService(*configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Delete(context.Background(), *id); err != nil {
		return err
	}

	fmt.Printf("deleted user %d\n", *id)
	return nil
}

// openService wires a UserService against the configured database.
// The admin CLI never issues tokens, so no token manager is attached.
func openService(configPath string) (*service.UserService, repository.DatabaseHealth, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	ctx := context.Background()

	var userRepo repository.UserRepository
	var db repository.DatabaseHealth

	if cfg.Database.IsEmbedded() {
		sdb, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := sdb.Migrate(ctx); err != nil {
			sdb.Close()
			return nil, nil, err
		}
		userRepo, db = sqlite.NewUserRepository(sdb), sdb
	} else {
		pdb, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		userRepo, db = postgres.NewUserRepository(pdb), pdb
	}

	hasher := crypto.NewPasswordHasher(cfg.Auth.BcryptCost)
	return service.NewUserService(userRepo, hasher, nil, logger), db, nil
}

func printUsage() {
	fmt.Println(`user-admin - user service administration

Usage:
  user-admin <command> [arguments]

Commands:
  create      Create a user (--username, --email, --password)
  list        List users (--page, --size)
  delete      Delete a user by ID (--id)
  version     Print version information
  help        Show this help message

Examples:
  user-admin create --username admin --email admin@example.com --password secret123
  user-admin list --page 0 --size 50
  user-admin delete --id 42

All commands accept --config to point at a config file; otherwise the usual
config search paths and USERSVC_ environment variables apply.`)
}
