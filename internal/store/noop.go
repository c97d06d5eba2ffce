package store

import "BioDash/internal/model"

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) RecordLoad(_ *LoadEvent) error                 { return nil }
func (n *NoopStore) RecordBands(_ string, _ model.BandTable) error { return nil }
func (n *NoopStore) Close() error                                  { return nil }
