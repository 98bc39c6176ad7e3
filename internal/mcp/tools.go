package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

var categoryEnum = []string{
	string(models.CategoryWorkout),
	string(models.CategorySwimming),
	string(models.CategoryBoxing),
	string(models.CategoryOther),
}

// --- Tool definitions ---

var toolListStudents = mcp.NewTool("list_students",
	mcp.WithDescription("List the coach's students with their category and current body stats."),
	mcp.WithString("category", mcp.Description("Only students training in this category. Defaults to all."), mcp.Enum(categoryEnum...)),
)

var toolGetStudent = mcp.NewTool("get_student",
	mcp.WithDescription("Get one student: category, height, weight, body fat, injuries, goals and when the stats were last updated."),
	mcp.WithString("student_id", mcp.Required(), mcp.Description("Student ID (e.g. s1)")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List a student's training sessions, most recent first. Strength sessions carry weight/sets/reps per exercise, swimming sessions a stroke and progress note, boxing sessions the strength flag and combinations."),
	mcp.WithString("student_id", mcp.Required(), mcp.Description("Student ID")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Compare the training volume (weight x sets x reps) of a strength student's two most recent sessions. Status is 進步 (improving), 持平 (stable), 退步 (regressing) or 數據不足 (not enough data)."),
	mcp.WithString("student_id", mcp.Required(), mcp.Description("Student ID")),
)

var toolLogSession = mcp.NewTool("log_session",
	mcp.WithDescription("Log a training session for a student, dated today. The exercise shape follows the student's category. Recorded weight, body fat or injuries also update the student's stats."),
	mcp.WithString("student_id", mcp.Required(), mcp.Description("Student ID")),
	mcp.WithString("exercises", mcp.Description(`JSON array of exercises, e.g. [{"name":"深蹲","weight":60,"sets":4,"reps":8}] or [{"stroke":"蛙式","progress":"50m x 4"}] or [{"isStrengthTraining":false,"combinations":"1-2-3"}]`)),
	mcp.WithString("notes", mcp.Description("Coach notes. Required for students in category other.")),
	mcp.WithNumber("weight", mcp.Description("Body weight measured this session (kg)")),
	mcp.WithNumber("body_fat", mcp.Description("Body fat measured this session (%)")),
	mcp.WithString("injuries", mcp.Description("Injury or physical status observed this session")),
)

var toolListCategories = mcp.NewTool("list_categories",
	mcp.WithDescription("List the training categories and the exercise fields a session records for each."),
)

// --- Tool handlers ---

func (h *handlers) listStudents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := models.Category(req.GetString("category", ""))
	if c != "" && !c.Valid() {
		return mcp.NewToolResultError("unknown category: " + string(c)), nil
	}

	students, err := h.ds.ListStudents(ctx, c)
	if err != nil {
		h.log.Error("mcp list_students", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(students)
}

func (h *handlers) getStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("student_id")
	if err != nil {
		return mcp.NewToolResultError("student_id parameter is required"), nil
	}

	st, err := h.ds.GetStudent(ctx, id)
	if err != nil {
		return h.queryError("get_student", err), nil
	}
	return jsonResult(st)
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("student_id")
	if err != nil {
		return mcp.NewToolResultError("student_id parameter is required"), nil
	}

	sessions, err := h.ds.GetSessions(ctx, id)
	if err != nil {
		return h.queryError("get_sessions", err), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("student_id")
	if err != nil {
		return mcp.NewToolResultError("student_id parameter is required"), nil
	}

	p, err := h.ds.GetProgress(ctx, id)
	if err != nil {
		return h.queryError("get_progress", err), nil
	}
	return jsonResult(p)
}

func (h *handlers) logSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("student_id")
	if err != nil {
		return mcp.NewToolResultError("student_id parameter is required"), nil
	}

	d := category.Draft{CoachNotes: req.GetString("notes", "")}
	if raw := req.GetString("exercises", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.Exercises); err != nil {
			return mcp.NewToolResultError("exercises must be a JSON array: " + err.Error()), nil
		}
	}

	var rs models.RecordedStats
	args := req.GetArguments()
	if _, ok := args["weight"]; ok {
		v := req.GetFloat("weight", 0)
		rs.Weight = &v
	}
	if _, ok := args["body_fat"]; ok {
		v := req.GetFloat("body_fat", 0)
		rs.BodyFat = &v
	}
	if v := req.GetString("injuries", ""); v != "" {
		rs.Injuries = &v
	}
	if !rs.Empty() {
		d.RecordedStats = &rs
	}

	w, err := h.ds.LogSession(ctx, id, d)
	switch {
	case errors.Is(err, roster.ErrEmptySession):
		return mcp.NewToolResultError("session records nothing: add exercises, notes or a stat"), nil
	case err != nil:
		return h.queryError("log_session", err), nil
	}
	return jsonResult(w)
}

func (h *handlers) listCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(category.Catalog())
}

// queryError turns a data source error into a tool error. Unknown ids are
// reported plainly; everything else is logged.
func (h *handlers) queryError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, roster.ErrNotFound) {
		return mcp.NewToolResultError("not found: " + err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
