package store

import "BioDash/internal/model"

// LoadEvent describes one dataset rebuild.
type LoadEvent struct {
	DatasetID   string
	Fingerprint string
	RowCount    int
	AgentCount  int
	DroppedRows int
}

// Store persists dataset load history and band definitions for later
// inspection. Failures here must not block serving the dashboard.
type Store interface {
	RecordLoad(evt *LoadEvent) error
	RecordBands(datasetID string, table model.BandTable) error
	Close() error
}
