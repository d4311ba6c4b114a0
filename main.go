package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"

	"github.com/corvomail/forwardd/db"
	"github.com/corvomail/forwardd/logger"
	"github.com/corvomail/forwardd/rewrite"
	"github.com/corvomail/forwardd/server/forwardapi"
)

func main() {
	// Initialize with application defaults
	cfg := newDefaultConfig()

	// Command-line flags override values from the config file if set. Their
	// default values come from the initial cfg for consistent -help messages.
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")

	fLogOutput := flag.String("logoutput", cfg.Logging.Output, "Log output: 'stderr', 'stdout' or a file path (overrides config)")
	fLogFormat := flag.String("logformat", cfg.Logging.Format, "Log format: 'console' or 'json' (overrides config)")
	fLogLevel := flag.String("loglevel", cfg.Logging.Level, "Log level: 'debug', 'info', 'warn', 'error' (overrides config)")

	fDbHost := flag.String("dbhost", cfg.Database.Host, "Database host (overrides config)")
	fDbPort := flag.String("dbport", cfg.Database.Port, "Database port (overrides config)")
	fDbUser := flag.String("dbuser", cfg.Database.User, "Database user (overrides config)")
	fDbPassword := flag.String("dbpassword", cfg.Database.Password, "Database password (overrides config)")
	fDbName := flag.String("dbname", cfg.Database.Name, "Database name (overrides config)")
	fDbTLS := flag.Bool("dbtls", cfg.Database.TLSMode, "Enable TLS for database connection (overrides config)")
	fDbLogQueries := flag.Bool("dblogqueries", cfg.Database.LogQueries, "Log all database queries (overrides config)")

	fAPIAddr := flag.String("apiaddr", cfg.HTTPAPI.Addr, "HTTP API server address (overrides config)")
	fAPIKey := flag.String("apikey", cfg.HTTPAPI.APIKey, "HTTP API bearer key (overrides config)")
	fAPITLS := flag.Bool("apitls", cfg.HTTPAPI.TLS, "Enable TLS for the HTTP API (overrides config)")
	fAPITLSCert := flag.String("apitlscert", cfg.HTTPAPI.TLSCertFile, "TLS cert for the HTTP API (overrides config)")
	fAPITLSKey := flag.String("apitlskey", cfg.HTTPAPI.TLSKeyFile, "TLS key for the HTTP API (overrides config)")

	flag.Parse()

	// Load configuration from the TOML file. Values from the file override
	// application defaults; explicit command-line flags override both.
	if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
		if os.IsNotExist(err) {
			if isFlagSet("config") {
				log.Fatalf("Specified configuration file '%s' not found: %v", *configPath, err)
			}
			log.Printf("WARNING: Default configuration file '%s' not found. Using application defaults and command-line flags.", *configPath)
		} else {
			log.Fatalf("Error parsing configuration file '%s': %v", *configPath, err)
		}
	}

	if isFlagSet("logoutput") {
		cfg.Logging.Output = *fLogOutput
	}
	if isFlagSet("logformat") {
		cfg.Logging.Format = *fLogFormat
	}
	if isFlagSet("loglevel") {
		cfg.Logging.Level = *fLogLevel
	}

	if isFlagSet("dbhost") {
		cfg.Database.Host = *fDbHost
	}
	if isFlagSet("dbport") {
		cfg.Database.Port = *fDbPort
	}
	if isFlagSet("dbuser") {
		cfg.Database.User = *fDbUser
	}
	if isFlagSet("dbpassword") {
		cfg.Database.Password = *fDbPassword
	}
	if isFlagSet("dbname") {
		cfg.Database.Name = *fDbName
	}
	if isFlagSet("dbtls") {
		cfg.Database.TLSMode = *fDbTLS
	}
	if isFlagSet("dblogqueries") {
		cfg.Database.LogQueries = *fDbLogQueries
	}

	if isFlagSet("apiaddr") {
		cfg.HTTPAPI.Addr = *fAPIAddr
	}
	if isFlagSet("apikey") {
		cfg.HTTPAPI.APIKey = *fAPIKey
	}
	if isFlagSet("apitls") {
		cfg.HTTPAPI.TLS = *fAPITLS
	}
	if isFlagSet("apitlscert") {
		cfg.HTTPAPI.TLSCertFile = *fAPITLSCert
	}
	if isFlagSet("apitlskey") {
		cfg.HTTPAPI.TLSKeyFile = *fAPITLSKey
	}

	logFile, err := logger.Initialize(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT and SIGTERM for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		logger.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	database, err := db.NewDatabase(ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.TLSMode, cfg.Database.LogQueries)
	if err != nil {
		logger.Fatal("Failed to connect to the database", "error", err)
	}
	defer database.Close()
	database.StartPoolMetrics(ctx)

	forwards := rewrite.NewForwardService(database, database)

	shutdownTimeout, err := cfg.HTTPAPI.GetShutdownTimeout()
	if err != nil {
		logger.Warn("Invalid http_api shutdown_timeout, using default", "value", cfg.HTTPAPI.ShutdownTimeout, "default", forwardapi.DefaultShutdownTimeout)
		shutdownTimeout = forwardapi.DefaultShutdownTimeout
	}

	errChan := make(chan error, 1)
	go forwardapi.Start(ctx, forwards, forwardapi.ServerOptions{
		Addr:            cfg.HTTPAPI.Addr,
		APIKey:          cfg.HTTPAPI.APIKey,
		AllowedHosts:    cfg.HTTPAPI.AllowedHosts,
		ShutdownTimeout: shutdownTimeout,
		TLS:             cfg.HTTPAPI.TLS,
		TLSCertFile:     cfg.HTTPAPI.TLSCertFile,
		TLSKeyFile:      cfg.HTTPAPI.TLSKeyFile,
	}, errChan)

	select {
	case <-ctx.Done():
		logger.Info("Shutting down forwardd")
	case err := <-errChan:
		logger.Fatal("Server error", "error", err)
	}
}

// Helper function to check if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	isSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			isSet = true
		}
	})
	return isSet
}
