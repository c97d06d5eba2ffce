package ingest

import (
	"context"
	"time"

	"BioDash/internal/model"
)

// Loader reads the purchase-record source and produces cleaned rows plus a
// content fingerprint. Parsing, type coercion, and null-filtering happen
// here; downstream layers see only typed rows.
type Loader interface {
	Load(ctx context.Context) (*model.SourceData, error)
	Name() string
}

// MockLoader returns fixed data for development and testing.
type MockLoader struct {
	Rows        []model.PurchaseRecord
	Fingerprint string
	Err         error
}

func (m *MockLoader) Name() string { return "mock" }

func (m *MockLoader) Load(_ context.Context) (*model.SourceData, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &model.SourceData{
		Rows:        m.Rows,
		Fingerprint: m.Fingerprint,
		LoadedAt:    time.Now(),
	}, nil
}
