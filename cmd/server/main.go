// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/unityvote/unityvote/internal/config"
	"github.com/unityvote/unityvote/internal/server"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Optional; a missing .env just means env vars come from the environment.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "unityvote",
		Usage:   "Contest voting server with email-verified votes",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Flags:  config.Flags(),
				Action: server.Run,
			},
			{
				Name:   "seed",
				Usage:  "Load the default contest and award categories",
				Flags:  config.Flags(),
				Action: server.Seed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
