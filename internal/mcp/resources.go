package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

// rosterEntry is a student with the latest session date and training trend.
type rosterEntry struct {
	models.Student
	LastSession string                `json:"lastSession,omitempty"`
	Progress    roster.ProgressStatus `json:"progress"`
}

func (h *handlers) rosterOverview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	students, err := h.ds.ListStudents(ctx, "")
	if err != nil {
		return nil, err
	}

	entries := make([]rosterEntry, 0, len(students))
	for _, st := range students {
		e := rosterEntry{Student: st, Progress: roster.Unknown}
		sessions, err := h.ds.GetSessions(ctx, st.ID)
		if err != nil {
			h.log.Warn("roster: sessions query failed", "student", st.ID, "error", err)
		} else if len(sessions) > 0 {
			e.LastSession = sessions[0].Date
		}
		if p, err := h.ds.GetProgress(ctx, st.ID); err != nil {
			h.log.Warn("roster: progress query failed", "student", st.ID, "error", err)
		} else {
			e.Progress = p.Status
		}
		entries = append(entries, e)
	}

	return textContents(req.Params.URI, entries)
}

func (h *handlers) categoryList(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return textContents(req.Params.URI, category.Catalog())
}

func textContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
