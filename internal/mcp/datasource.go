package mcp

import (
	"context"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

// DataSource abstracts the roster for MCP tools. Local (in-process store) and
// HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListStudents(ctx context.Context, c models.Category) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	GetSessions(ctx context.Context, studentID string) ([]models.WorkoutSession, error)
	GetProgress(ctx context.Context, studentID string) (*roster.Progress, error)
	LogSession(ctx context.Context, studentID string, d category.Draft) (*models.WorkoutSession, error)
}

// Local serves MCP requests from the store of the running server.
type Local struct {
	store *roster.Store
}

var _ DataSource = (*Local)(nil)

// NewLocal wraps store as a DataSource.
func NewLocal(store *roster.Store) *Local {
	return &Local{store: store}
}

func (l *Local) ListStudents(_ context.Context, c models.Category) ([]models.Student, error) {
	return l.store.Students(c), nil
}

func (l *Local) GetStudent(_ context.Context, id string) (*models.Student, error) {
	st, err := l.store.Student(id)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (l *Local) GetSessions(_ context.Context, studentID string) ([]models.WorkoutSession, error) {
	return l.store.Sessions(studentID)
}

func (l *Local) GetProgress(_ context.Context, studentID string) (*roster.Progress, error) {
	p, err := l.store.Progress(studentID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (l *Local) LogSession(ctx context.Context, studentID string, d category.Draft) (*models.WorkoutSession, error) {
	w, err := l.store.LogSession(ctx, studentID, d)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
