package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

// HTTPClient implements DataSource by calling the coach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the roster lives on the coach server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, roster.ErrNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("httpclient: %s: %w", path, roster.ErrEmptySession)
	case resp.StatusCode/100 != 2:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListStudents(ctx context.Context, cat models.Category) ([]models.Student, error) {
	params := url.Values{}
	if cat != "" {
		params.Set("category", string(cat))
	}
	var out []models.Student
	if err := c.do(ctx, http.MethodGet, "/api/v1/students", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var out models.Student
	if err := c.do(ctx, http.MethodGet, "/api/v1/students/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetSessions(ctx context.Context, studentID string) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	path := "/api/v1/students/" + url.PathEscape(studentID) + "/sessions"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetProgress(ctx context.Context, studentID string) (*roster.Progress, error) {
	var out roster.Progress
	path := "/api/v1/students/" + url.PathEscape(studentID) + "/progress"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// sessionBody mirrors the API's session request.
type sessionBody struct {
	Exercises     []models.ExerciseRecord `json:"exercises"`
	CoachNotes    string                  `json:"coachNotes"`
	RecordedStats *models.RecordedStats   `json:"recordedStats,omitempty"`
}

func (c *HTTPClient) LogSession(ctx context.Context, studentID string, d category.Draft) (*models.WorkoutSession, error) {
	body := sessionBody{Exercises: d.Exercises, CoachNotes: d.CoachNotes, RecordedStats: d.RecordedStats}
	if body.Exercises == nil {
		body.Exercises = []models.ExerciseRecord{}
	}
	var out models.WorkoutSession
	path := "/api/v1/students/" + url.PathEscape(studentID) + "/sessions"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
