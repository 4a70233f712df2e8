package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/aquamarinepk/aqm"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/frontdesk/cmd/utils/internal/commands"
)

const (
	appName    = "frontdesk-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	command := os.Args[1]
	args, flags := splitArgs(os.Args[2:])

	config, err := aqm.LoadConfig("UTILS", flags)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "seed-demo":
		ws := connect(ctx, config, logger)
		defer ws.Close()
		res, err := commands.SeedDemo(ctx, ws.Store, logger)
		if err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		fmt.Printf("Tables: %d created, %d already present\n", res.TablesCreated, res.TablesSkipped)
		fmt.Printf("Menu items: %d created, %d already present\n", res.MenuCreated, res.MenuSkipped)

	case "clear-demo":
		ws := connect(ctx, config, logger)
		defer ws.Close()
		n, err := commands.ClearDemo(ctx, ws.Store, logger)
		if err != nil {
			log.Fatalf("Clear demo data failed after %d deletions: %v", n, err)
		}
		fmt.Printf("Deleted %d demo records\n", n)

	case "stats":
		ws := connect(ctx, config, logger)
		defer ws.Close()
		if err := commands.Stats(ctx, ws.Store, os.Stdout); err != nil {
			log.Fatalf("Stats failed: %v", err)
		}

	case "watch":
		ws := connect(ctx, config, logger)
		defer ws.Close()
		if err := commands.Watch(ctx, ws.Store, commands.PollIntervals(config, logger), os.Stdout, logger); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}

	case "candidates":
		if len(args) != 1 {
			log.Fatalf("Usage: %s candidates <entry-id>", appName)
		}
		ws := connect(ctx, config, logger)
		defer ws.Close()
		if err := commands.Candidates(ctx, ws.Store, args[0], os.Stdout); err != nil {
			log.Fatalf("Candidates failed: %v", err)
		}

	case "convert":
		if len(args) != 2 {
			log.Fatalf("Usage: %s convert <entry-id> <table-id>", appName)
		}
		ws := connect(ctx, config, logger)
		defer ws.Close()
		if err := commands.Convert(ctx, ws.Store, args[0], args[1], os.Stdout); err != nil {
			log.Fatalf("Convert failed: %v", err)
		}

	case "audit":
		limit := 50
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				log.Fatalf("Invalid limit %q", args[0])
			}
			limit = n
		}
		if err := commands.Audit(ctx, config, logger, limit, os.Stdout); err != nil {
			log.Fatalf("Audit failed: %v", err)
		}

	case "tail":
		if err := commands.Tail(ctx, config, logger, os.Stdout); err != nil {
			log.Fatalf("Tail failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func connect(ctx context.Context, config *aqm.Config, logger aqm.Logger) *commands.Workspace {
	ws, err := commands.Connect(ctx, config, logger)
	if err != nil {
		log.Fatalf("Cannot connect: %v", err)
	}
	return ws
}

// splitArgs separates positional arguments from the flags handed to the config loader.
func splitArgs(in []string) (args, flags []string) {
	for i := 0; i < len(in); i++ {
		a := in[i]
		if !strings.HasPrefix(a, "-") {
			args = append(args, a)
			continue
		}
		flags = append(flags, a)
		if !strings.Contains(a, "=") && i+1 < len(in) && !strings.HasPrefix(in[i+1], "-") {
			flags = append(flags, in[i+1])
			i++
		}
	}
	return args, flags
}

func printUsage() {
	fmt.Printf(`%s - Frontdesk operator commands

Usage:
  %s <command> [arguments] [options]

Commands:
  seed-demo                       Create the demo tables and menu items that are missing
  clear-demo                      Delete the demo tables and menu items
  stats                           Print the dashboard summary once
  watch                           Print the dashboard after every poll until interrupted
  candidates <entry-id>           List the tables that can seat a waitlist entry
  convert <entry-id> <table-id>   Seat a waitlist entry at a table
  audit [limit]                   Print action events not yet audited (default 50)
  tail                            Print action events as they are published
  version                         Print version information
  help                            Show this help message

Environment Variables:
  UTILS_API_URL        Restaurant service URL (default: http://localhost:5000/api)
  UTILS_API_USERNAME   Service username
  UTILS_API_PASSWORD   Service password
  UTILS_NATS_URL       NATS URL for audit, tail and publishing actions
  UTILS_LOG_LEVEL      Log level: debug, info, warn, error (default: info)

Examples:
  %s seed-demo
  UTILS_POLL_TABLES=5s %s watch
  %s convert 65f1c0ffee0000000000a001 65f1c0ffee0000000000b005

`, appName, appName, appName, appName, appName)
}
