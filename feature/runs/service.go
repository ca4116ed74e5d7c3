package runs

import (
	"context"
	"strconv"

	"filelist-diff/core/history"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service reads the run ledger.
type Service struct {
	store  *history.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates a new runs service. A nil store reports the ledger as unavailable.
func NewService(store *history.Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// List returns the most recent runs. Identical concurrent requests share one query.
func (s *Service) List(ctx context.Context, limit int) ([]history.Run, error) {
	v, err, _ := s.sf.Do("list:"+strconv.Itoa(limit), func() (any, error) {
		return s.store.List(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]history.Run), nil
}

// Get returns one run.
func (s *Service) Get(ctx context.Context, id string) (*history.Run, error) {
	return s.store.Get(ctx, id)
}
