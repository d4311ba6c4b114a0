// Command forwardd-admin manages accounts and forward rules directly against
// the database, without going through the HTTP API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
)

// AdminConfig holds minimal configuration needed for admin operations
type AdminConfig struct {
	Database DatabaseConfig `toml:"database"`
}

// DatabaseConfig holds database configuration - copied from main config
type DatabaseConfig struct {
	Host       string `toml:"host"`
	Port       string `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	Name       string `toml:"name"`
	TLSMode    bool   `toml:"tls"`
	LogQueries bool   `toml:"log_queries"`
}

func newDefaultAdminConfig() AdminConfig {
	return AdminConfig{
		Database: DatabaseConfig{
			Host: "localhost",
			Port: "5432",
			User: "postgres",
			Name: "forwardd",
		},
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "create-account":
		handleCreateAccount()
	case "delete-account":
		handleDeleteAccount()
	case "list-accounts":
		handleListAccounts()
	case "verify-credentials":
		handleVerifyCredentials()
	case "list-forwards":
		handleListForwards()
	case "show-forward":
		handleShowForward()
	case "add-forward":
		handleAddForward()
	case "remove-forward":
		handleRemoveForward()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`FORWARDD Admin Tool

Usage:
  forwardd-admin <command> [options]

Commands:
  create-account      Create a new account
  delete-account      Delete an existing account
  list-accounts       List all accounts
  verify-credentials  Verify an address/password pair
  list-forwards       List all addresses that have forward rules
  show-forward        Show the destinations of one forward rule
  add-forward         Add a destination to a forward rule
  remove-forward      Remove a destination from a forward rule
  help                Show this help message

Examples:
  forwardd-admin create-account --address user@example.com --password mypassword
  forwardd-admin add-forward --address user@example.com --destination other@example.org
  forwardd-admin show-forward --address user@example.com
  forwardd-admin list-forwards --config /path/to/config.toml

Use 'forwardd-admin <command> --help' for more information about a command.
`)
}

// dbFlags registers the shared database override flags on a subcommand's
// flag set.
type dbFlags struct {
	host     *string
	port     *string
	user     *string
	password *string
	name     *string
	tls      *bool
}

func registerDBFlags(fs *flag.FlagSet) *dbFlags {
	return &dbFlags{
		host:     fs.String("dbhost", "", "Database host (overrides config)"),
		port:     fs.String("dbport", "", "Database port (overrides config)"),
		user:     fs.String("dbuser", "", "Database user (overrides config)"),
		password: fs.String("dbpassword", "", "Database password (overrides config)"),
		name:     fs.String("dbname", "", "Database name (overrides config)"),
		tls:      fs.Bool("dbtls", false, "Enable TLS for database connection (overrides config)"),
	}
}

// loadAdminConfig reads the TOML configuration and applies any explicitly set
// database flags on top.
func loadAdminConfig(fs *flag.FlagSet, configPath string, flags *dbFlags) AdminConfig {
	cfg := newDefaultAdminConfig()
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		if os.IsNotExist(err) {
			if isFlagSet(fs, "config") {
				log.Fatalf("ERROR: specified configuration file '%s' not found: %v", configPath, err)
			}
		} else {
			log.Fatalf("FATAL: error parsing configuration file '%s': %v", configPath, err)
		}
	}

	if isFlagSet(fs, "dbhost") {
		cfg.Database.Host = *flags.host
	}
	if isFlagSet(fs, "dbport") {
		cfg.Database.Port = *flags.port
	}
	if isFlagSet(fs, "dbuser") {
		cfg.Database.User = *flags.user
	}
	if isFlagSet(fs, "dbpassword") {
		cfg.Database.Password = *flags.password
	}
	if isFlagSet(fs, "dbname") {
		cfg.Database.Name = *flags.name
	}
	if isFlagSet(fs, "dbtls") {
		cfg.Database.TLSMode = *flags.tls
	}

	return cfg
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	isSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			isSet = true
		}
	})
	return isSet
}
