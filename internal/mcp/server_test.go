package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

type demoPort struct{}

func (demoPort) Load(context.Context) (models.Snapshot, error) {
	return models.DemoSnapshot(time.Now()), nil
}

func (demoPort) Save(context.Context, models.Snapshot) error { return nil }

func newHandlers(t *testing.T) *handlers {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := roster.Open(context.Background(), demoPort{}, log, roster.Options{})
	return &handlers{ds: NewLocal(store), log: log}
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestListStudentsTool verifies the category filter of list_students.
func TestListStudentsTool(t *testing.T) {
	h := newHandlers(t)
	res, err := h.listStudents(context.Background(), callTool("list_students", map[string]any{"category": "workout"}))
	if err != nil || res.IsError {
		t.Fatalf("list_students: %v %s", err, resultText(t, res))
	}
	var students []models.Student
	if err := json.Unmarshal([]byte(resultText(t, res)), &students); err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 || students[0].ID != "s1" {
		t.Errorf("students = %+v", students)
	}

	res, _ = h.listStudents(context.Background(), callTool("list_students", map[string]any{"category": "golf"}))
	if !res.IsError {
		t.Error("unknown category should be a tool error")
	}
}

// TestGetStudentToolErrors verifies missing and unknown ids are tool errors.
func TestGetStudentToolErrors(t *testing.T) {
	h := newHandlers(t)
	res, _ := h.getStudent(context.Background(), callTool("get_student", nil))
	if !res.IsError {
		t.Error("missing student_id should be a tool error")
	}
	res, _ = h.getStudent(context.Background(), callTool("get_student", map[string]any{"student_id": "nobody"}))
	if !res.IsError || !strings.HasPrefix(resultText(t, res), "not found") {
		t.Errorf("unknown id: %s", resultText(t, res))
	}
}

// TestLogSessionTool verifies exercises are parsed from JSON and recorded
// stats refresh the student.
func TestLogSessionTool(t *testing.T) {
	h := newHandlers(t)
	ctx := context.Background()

	res, err := h.logSession(ctx, callTool("log_session", map[string]any{
		"student_id": "s1",
		"exercises":  `[{"name":"硬舉","weight":100,"sets":3,"reps":5}]`,
		"weight":     69.5,
	}))
	if err != nil || res.IsError {
		t.Fatalf("log_session: %v %s", err, resultText(t, res))
	}
	var w models.WorkoutSession
	if err := json.Unmarshal([]byte(resultText(t, res)), &w); err != nil {
		t.Fatal(err)
	}
	if w.Category != models.CategoryWorkout || len(w.Exercises) != 1 || w.Exercises[0].Strength.Weight != 100 {
		t.Errorf("session = %+v", w)
	}

	st, err := h.ds.GetStudent(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if st.Stats.Weight != 69.5 || st.Stats.BodyFat != 18 {
		t.Errorf("stats = %+v", st.Stats)
	}

	res, _ = h.logSession(ctx, callTool("log_session", map[string]any{"student_id": "s1"}))
	if !res.IsError {
		t.Error("empty session should be a tool error")
	}
	res, _ = h.logSession(ctx, callTool("log_session", map[string]any{"student_id": "s1", "exercises": "nope"}))
	if !res.IsError {
		t.Error("malformed exercises should be a tool error")
	}
}

// TestRosterResource verifies the roster overview lists both demo students
// with its latest session.
func TestRosterResource(t *testing.T) {
	h := newHandlers(t)
	var req mcp.ReadResourceRequest
	req.Params.URI = "studentup://roster"

	contents, err := h.rosterOverview(context.Background(), req)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents = %T", contents[0])
	}
	var entries []struct {
		ID          string `json:"id"`
		LastSession string `json:"lastSession"`
		Progress    string `json:"progress"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "s1" || entries[0].LastSession == "" {
		t.Errorf("s1 = %+v", entries[0])
	}
}
