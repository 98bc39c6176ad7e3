package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/studentup/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "StudentUp server URL (e.g. https://studentup.tail1234.ts.net); defaults to $STUDENTUP_SERVER_URL")
	apiKey := flag.String("api-key", "", "API key for session logging; defaults to $STUDENTUP_AUTH_API_KEY")
	envFile := flag.String("env", ".env", "optional dotenv file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("studentup-mcp", Version)
		return
	}

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to read env file", "path", *envFile, "error", err)
	}
	if *serverURL == "" {
		*serverURL = os.Getenv("STUDENTUP_SERVER_URL")
	}
	if *apiKey == "" {
		*apiKey = os.Getenv("STUDENTUP_AUTH_API_KEY")
	}
	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: studentup-mcp -server <URL> [-api-key KEY]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := mcp.NewHTTPClient(*serverURL, *apiKey)
	s := mcp.New(client, Version, log)

	log.Info("mcp stdio server starting", "server", *serverURL)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
