// Package persist loads and saves the whole roster snapshot, either in a local
// key-value backend or through the remote tabular endpoint.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/studentup/internal/models"
)

// Storage keys of the local backend.
const (
	StudentsKey = "studentup:students"
	WorkoutsKey = "studentup:workouts"
)

// Port is the storage boundary of the roster.
type Port interface {
	// Load returns the stored snapshot. Empty collections are replaced by the
	// demo dataset, each independently.
	Load(ctx context.Context) (models.Snapshot, error)
	// Save writes the full snapshot.
	Save(ctx context.Context, s models.Snapshot) error
}

// KV is a byte-valued key-value backend.
type KV interface {
	// Get returns the value of key; ok is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// SetMany writes all entries atomically.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Close() error
}

// Local keeps the snapshot as two JSON arrays in a KV backend.
type Local struct {
	kv  KV
	now func() time.Time
}

var _ Port = (*Local)(nil)

// NewLocal creates a Local port over kv.
func NewLocal(kv KV) *Local {
	return &Local{kv: kv, now: time.Now}
}

// Load implements Port.
func (l *Local) Load(ctx context.Context) (models.Snapshot, error) {
	var s models.Snapshot
	if err := l.load(ctx, StudentsKey, &s.Students); err != nil {
		return models.Snapshot{}, err
	}
	if err := l.load(ctx, WorkoutsKey, &s.Workouts); err != nil {
		return models.Snapshot{}, err
	}
	for i := range s.Workouts {
		s.Workouts[i].Date = models.NormalizeDate(s.Workouts[i].Date)
	}
	return models.WithDemoDefaults(s, l.now()), nil
}

func (l *Local) load(ctx context.Context, key string, dst any) error {
	data, ok, err := l.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// Save implements Port.
func (l *Local) Save(ctx context.Context, s models.Snapshot) error {
	students, err := json.Marshal(nonNil(s.Students))
	if err != nil {
		return fmt.Errorf("encoding students: %w", err)
	}
	workouts, err := json.Marshal(nonNil(s.Workouts))
	if err != nil {
		return fmt.Errorf("encoding workouts: %w", err)
	}
	return l.kv.SetMany(ctx, map[string][]byte{
		StudentsKey: students,
		WorkoutsKey: workouts,
	})
}

// Close closes the backend.
func (l *Local) Close() error {
	return l.kv.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
