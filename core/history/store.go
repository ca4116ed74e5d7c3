package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is the number of runs listed when no limit is given.
	DefaultLimit = 20
	// MaxLimit caps the number of runs listed at once.
	MaxLimit = 500
)

var (
	// ErrNotFound is returned when a run does not exist.
	ErrNotFound = errors.New("run not found")
	// ErrUnavailable is returned when reading from a store without a database.
	ErrUnavailable = errors.New("run history is not configured")
)

// Store persists runs. A nil *Store discards records.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db, or nil when db is nil.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Migrate creates or updates the runs table.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate run history: %w", err)
	}
	return nil
}

// Record stores run, assigning an ID if it has none.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if s == nil {
		return nil
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent runs first. The limit is clamped to
// [1, MaxLimit]; zero or less means DefaultLimit.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil {
		return nil, ErrUnavailable
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	var runs []Run
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	if s == nil {
		return nil, ErrUnavailable
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var run Run
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}
