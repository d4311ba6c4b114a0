package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/corvomail/forwardd/rewrite"
)

func handleListForwards() {
	fs := flag.NewFlagSet("list-forwards", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	forwards := rewrite.NewForwardService(database, database)
	bases, err := forwards.ListForwards(ctx)
	if err != nil {
		log.Fatalf("Failed to list forwards: %v", err)
	}

	if len(bases) == 0 {
		fmt.Println("No forwards found")
		return
	}
	for _, base := range bases {
		fmt.Println(base)
	}
}

func handleShowForward() {
	fs := flag.NewFlagSet("show-forward", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	address := fs.String("address", "", "Base address of the forward rule (required)")
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

	forwards := rewrite.NewForwardService(database, database)
	destinations, err := forwards.Forwards(ctx, *address)
	if err != nil {
		log.Fatalf("Failed to show forward: %v", err)
	}

	for _, destination := range destinations {
		fmt.Println(destination)
	}
}

func handleAddForward() {
	fs := flag.NewFlagSet("add-forward", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	address := fs.String("address", "", "Base address of the forward rule (required)")
	destination := fs.String("destination", "", "Destination address to add (required)")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if *address == "" || *destination == "" {
		fmt.Printf("Error: --address and --destination are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	forwards := rewrite.NewForwardService(database, database)
	if err := forwards.AddForward(ctx, *address, *destination); err != nil {
		log.Fatalf("Failed to add forward: %v", err)
	}

	fmt.Printf("Successfully added forward %s -> %s\n", *address, *destination)
}

func handleRemoveForward() {
	fs := flag.NewFlagSet("remove-forward", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "Path to TOML configuration file")
	address := fs.String("address", "", "Base address of the forward rule (required)")
	destination := fs.String("destination", "", "Destination address to remove (required)")
	flags := registerDBFlags(fs)

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if *address == "" || *destination == "" {
		fmt.Printf("Error: --address and --destination are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadAdminConfig(fs, *configPath, flags)

	ctx := context.Background()
	database := connectDatabase(ctx, cfg)
	defer database.Close()

	forwards := rewrite.NewForwardService(database, database)
	if err := forwards.RemoveForward(ctx, *address, *destination); err != nil {
		log.Fatalf("Failed to remove forward: %v", err)
	}

	fmt.Printf("Successfully removed forward %s -> %s\n", *address, *destination)
}
