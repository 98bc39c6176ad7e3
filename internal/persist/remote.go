package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/studentup/internal/models"
)

// Remote talks to a tabular endpoint over HTTP.
type Remote struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

var _ Port = (*Remote)(nil)

// saveResponse is the endpoint's reply to a POST.
type saveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewRemote creates a Remote port for the endpoint at url.
func NewRemote(url string, timeout time.Duration) *Remote {
	return &Remote{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Load implements Port. The body is decoded leniently, see decodeSnapshot.
func (r *Remote) Load(ctx context.Context) (models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("remote: create request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("remote: load: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("remote: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Snapshot{}, fmt.Errorf("remote: load returned %d: %s", resp.StatusCode, body)
	}

	s, err := decodeSnapshot(body)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("remote: decode snapshot: %w", err)
	}
	return models.WithDemoDefaults(s, r.now()), nil
}

// Save implements Port. The body is sent as text/plain, which the endpoint
// accepts without a CORS preflight.
func (r *Remote) Save(ctx context.Context, s models.Snapshot) error {
	data, err := json.Marshal(models.Snapshot{
		Students: nonNil(s.Students),
		Workouts: nonNil(s.Workouts),
	})
	if err != nil {
		return fmt.Errorf("remote: encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: save: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote: save returned %d: %s", resp.StatusCode, body)
	}

	var sr saveResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return fmt.Errorf("remote: decode reply: %w", err)
	}
	if sr.Status == "error" {
		return fmt.Errorf("remote: save rejected: %s", sr.Message)
	}
	return nil
}
