package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/corvomail/forwardd/db"
)

func connectDatabase(ctx context.Context, cfg AdminConfig) *db.Database {
	database, err := db.NewDatabase(ctx,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name,
		cfg.Database.TLSMode, cfg.Database.LogQueries)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	return database
}

func handleCreateAccount() {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	address := fs.String("address", "", "Email address for the new account (required)")
	password := fs.String("password", "", "Password for the new account")
	passwordHash := fs.String("password-hash", "", "Pre-computed bcrypt hash (alternative to --password)")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if *address == "" {
		fmt.Printf("Error: --address is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	if *password == "" && *passwordHash == "" {
		fmt.Printf("Error: either --password or --password-hash is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	err := database.CreateAccount(ctx, db.CreateAccountRequest{
		Address:      *address,
		Password:     *password,
		PasswordHash: *passwordHash,
	})
	if err != nil {
		log.Fatalf("Failed to create account: %v", err)
	}

	fmt.Printf("Successfully created account: %s\n", *address)
}

func handleDeleteAccount() {
	fs := flag.NewFlagSet("delete-account", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	address := fs.String("address", "", "Email address of the account to delete (required)")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if *address == "" {
		fmt.Printf("Error: --address is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	if err := database.DeleteAccount(ctx, *address); err != nil {
		log.Fatalf("Failed to delete account: %v", err)
	}

	fmt.Printf("Successfully deleted account: %s\n", *address)
}

func handleListAccounts() {
	fs := flag.NewFlagSet("list-accounts", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	accounts, err := database.ListAccounts(ctx)
	if err != nil {
		log.Fatalf("Failed to list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found")
		return
	}
	for _, account := range accounts {
		fmt.Printf("%s\t(created %s)\n", account.Address, account.CreatedAt.Format("2006-01-02"))
	}
}

func handleVerifyCredentials() {
	fs := flag.NewFlagSet("verify-credentials", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	address := fs.String("address", "", "Email address to verify (required)")
	password := fs.String("password", "", "Password to verify (required)")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if *address == "" || *password == "" {
		fmt.Printf("Error: --address and --password are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	if err := database.Authenticate(ctx, *address, *password); err != nil {
		fmt.Printf("Credentials REJECTED for %s: %v\n", *address, err)
		os.Exit(1)
	}

	fmt.Printf("Credentials OK for %s\n", *address)
}
