package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/claude/studentup/internal/ingest"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "StudentUp server URL; defaults to $STUDENTUP_SERVER_URL")
	apiKey := flag.String("api-key", "", "API key; defaults to $STUDENTUP_AUTH_API_KEY")
	studentID := flag.String("student", "", "ID of the strength student to import into (required)")
	csvPath := flag.String("file", "", "path to the Alpha Progression CSV export (required)")
	envFile := flag.String("env", ".env", "optional dotenv file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("studentup-import", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to read env file", "path", *envFile, "error", err)
	}
	if *serverURL == "" {
		*serverURL = os.Getenv("STUDENTUP_SERVER_URL")
	}
	if *apiKey == "" {
		*apiKey = os.Getenv("STUDENTUP_AUTH_API_KEY")
	}

	if *serverURL == "" || *apiKey == "" || *studentID == "" || *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: studentup-import -server <URL> -api-key <KEY> -student <ID> -file <export.csv>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open export", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := upload(ctx, strings.TrimRight(*serverURL, "/"), *apiKey, *studentID, f)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import stats",
		"sessions_received", result.SessionsReceived,
		"sessions_imported", result.SessionsImported,
		"sessions_skipped", result.SessionsSkipped,
		"exercises_imported", result.ExercisesImported,
	)
	log.Info("import complete")
}

// upload posts the export to the student's import endpoint.
func upload(ctx context.Context, baseURL, apiKey, studentID string, body io.Reader) (*ingest.Result, error) {
	u := baseURL + "/api/v1/students/" + url.PathEscape(studentID) + "/import/alpha"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post export: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, data)
	}

	var result ingest.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
