package app

import (
	"io"
	"sync"
	"time"

	"goeda/adapters/datareadiness/coercer"
	"goeda/domain/core"
	"goeda/domain/dataset"
	"goeda/ports"
)

// Snapshot is one immutable version of the working dataset
type Snapshot struct {
	ID        core.SnapshotID `json:"id"`
	Data      dataset.Dataset `json:"data"`
	Types     dataset.TypeMap `json:"types"`
	CreatedAt time.Time       `json:"created_at"`
}

func newSnapshot(ds dataset.Dataset, types dataset.TypeMap) *Snapshot {
	return &Snapshot{
		ID:        core.NewSnapshotID(),
		Data:      ds.Clone(),
		Types:     types.Clone(),
		CreatedAt: time.Now().UTC(),
	}
}

// copy returns the snapshot by value with its own column storage
func (s *Snapshot) copy() Snapshot {
	return Snapshot{ID: s.ID, Data: s.Data.Clone(), Types: s.Types.Clone(), CreatedAt: s.CreatedAt}
}

// Workspace keeps the original upload, the last saved state and the
// current working state of one dataset. It is safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	service  *Service
	original *Snapshot
	saved    *Snapshot
	current  *Snapshot
}

// NewWorkspace creates an empty workspace backed by service
func NewWorkspace(service *Service) *Workspace {
	return &Workspace{service: service}
}

// Load ingests a raw dataset and makes it the original, saved and current state
func (w *Workspace) Load(raw dataset.Dataset) Snapshot {
	typed, types := w.service.Ingest(raw)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.original = newSnapshot(raw, raw.Types())
	w.saved = newSnapshot(typed, types)
	w.current = newSnapshot(typed, types)
	return w.current.copy()
}

// Current returns the working snapshot
func (w *Workspace) Current() (Snapshot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return Snapshot{}, core.ErrNoDataset
	}
	return w.current.copy(), nil
}

// Saved returns the last saved snapshot
func (w *Workspace) Saved() (Snapshot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.saved == nil {
		return Snapshot{}, core.ErrNoDataset
	}
	return w.saved.copy(), nil
}

// Apply replaces the working state. A nil types map keeps the declared column types.
func (w *Workspace) Apply(ds dataset.Dataset, types dataset.TypeMap) (Snapshot, error) {
	if types == nil {
		types = ds.Types()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return Snapshot{}, core.ErrNoDataset
	}
	w.current = newSnapshot(ds, types)
	return w.current.copy(), nil
}

// Save promotes the working state to the saved state
func (w *Workspace) Save() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return Snapshot{}, core.ErrNoDataset
	}
	w.saved = newSnapshot(w.current.Data, w.current.Types)
	return w.saved.copy(), nil
}

// ResetUnsaved discards changes made since the last save
func (w *Workspace) ResetUnsaved() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saved == nil {
		return Snapshot{}, core.ErrNoDataset
	}
	w.current = newSnapshot(w.saved.Data, w.saved.Types)
	return w.current.copy(), nil
}

// ResetAll re-ingests the original upload and discards every saved change
func (w *Workspace) ResetAll() (Snapshot, error) {
	w.mu.RLock()
	original := w.original
	w.mu.RUnlock()
	if original == nil {
		return Snapshot{}, core.ErrNoDataset
	}
	return w.Load(original.Data), nil
}

// MissingCount is one row of the per-column NA table
type MissingCount struct {
	Column  string             `json:"column"`
	Type    dataset.ColumnType `json:"type"`
	Missing int                `json:"missing"`
}

// MissingCounts returns the number of missing cells per column, in column order
func (w *Workspace) MissingCounts() ([]MissingCount, error) {
	snap, err := w.Current()
	if err != nil {
		return nil, err
	}
	counts := make([]MissingCount, 0, len(snap.Data.Columns))
	for _, col := range snap.Data.Columns {
		counts = append(counts, MissingCount{
			Column:  col.Name,
			Type:    snap.Types[col.Name],
			Missing: col.MissingCount(),
		})
	}
	return counts, nil
}

// SetColumnType converts a column of the working state and records its new type
func (w *Workspace) SetColumnType(name string, target dataset.ColumnType, policy coercer.Policy) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return Snapshot{}, core.ErrNoDataset
	}

	converted, err := w.service.ConvertColumn(w.current.Data, name, target, policy)
	if err != nil {
		return Snapshot{}, err
	}
	ds, err := w.current.Data.WithColumn(converted)
	if err != nil {
		return Snapshot{}, err
	}
	types := w.current.Types.Clone()
	types[name] = target
	w.current = newSnapshot(ds, types)
	return w.current.copy(), nil
}

// Download writes the working state as CSV
func (w *Workspace) Download(writer ports.DatasetWriter, dst io.Writer) error {
	snap, err := w.Current()
	if err != nil {
		return err
	}
	return writer.WriteCSV(dst, snap.Data)
}
