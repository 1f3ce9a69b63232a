package store

import (
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

// NopStore is used when history is disabled. It records nothing and always
// reports an empty history.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(run model.Run) error                     { return nil }
func (s *NopStore) Recent(limit int) ([]model.Run, error)          { return nil, nil }
func (s *NopStore) Cleanup(olderThan time.Duration) (int64, error) { return 0, nil }
