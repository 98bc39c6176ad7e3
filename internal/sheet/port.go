package sheet

import (
	"context"
	"time"

	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/persist"
)

// Port stores the roster directly in the service's sheets, for a server that
// hosts its own tabular endpoint.
type Port struct {
	svc *Service
	now func() time.Time
}

var _ persist.Port = (*Port)(nil)

// NewPort wraps svc as a storage port.
func NewPort(svc *Service) *Port {
	return &Port{svc: svc, now: time.Now}
}

// Load implements persist.Port. Empty sheets fall back to the demo data.
func (p *Port) Load(ctx context.Context) (models.Snapshot, error) {
	snap, err := p.svc.Load(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.WithDemoDefaults(snap, p.now()), nil
}

// Save implements persist.Port. Both collections are always written, so an
// emptied roster clears its sheets.
func (p *Port) Save(ctx context.Context, s models.Snapshot) error {
	pl := Payload{Students: s.Students, Workouts: s.Workouts}
	if pl.Students == nil {
		pl.Students = []models.Student{}
	}
	if pl.Workouts == nil {
		pl.Workouts = []models.WorkoutSession{}
	}
	return p.svc.Save(ctx, pl)
}
