// Package storage persists the board as a single versioned JSON snapshot in
// a key/value store, mirroring what the browser build keeps in localStorage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/taskbreeze/internal/board"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
)

const (
	// StorageKey is the fixed key of the board snapshot
	StorageKey = "tasktide-board-state"
	// SchemaVersion tags every snapshot; other versions are not loaded
	SchemaVersion = "1.0"
	// ImportMarkerKey records that the first-login import already ran
	ImportMarkerKey = "taskbreeze-imported"

	DefaultQuota       = 5 * 1024 * 1024
	MigrationThreshold = 4 * 1024 * 1024
)

var ErrQuotaExceeded = errors.New("local storage quota exceeded")

// DecodeError is returned when the stored snapshot is not valid JSON
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode board snapshot: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// KV is the minimal key/value surface the adapter needs
type KV interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Envelope is the serialized form of a snapshot
type Envelope struct {
	Version   string           `json:"version"`
	State     model.BoardState `json:"state"`
	Timestamp time.Time        `json:"timestamp"`
}

// Local is the local persistence adapter
type Local struct {
	kv    KV
	quota int
	now   func() time.Time
}

// Option configures a Local
type Option func(*Local)

// WithQuota sets the maximum serialized snapshot size in bytes
func WithQuota(bytes int64) Option {
	return func(l *Local) {
		if bytes > 0 {
			l.quota = int(bytes)
		}
	}
}

// WithClock overrides the snapshot timestamp source
func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

// NewLocal creates a local adapter over kv
func NewLocal(kv KV, opts ...Option) *Local {
	l := &Local{kv: kv, quota: DefaultQuota, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the saved state. ok is false when nothing usable is stored:
// no snapshot, or one written under another schema version. A malformed or
// structurally invalid snapshot returns a *DecodeError or a
// *board.ValidationError.
func (l *Local) Load(ctx context.Context) (model.BoardState, bool, error) {
	raw, found, err := l.kv.GetItem(ctx, StorageKey)
	if err != nil {
		return model.BoardState{}, false, err
	}
	if !found || raw == "" {
		return model.BoardState{}, false, nil
	}

	var head struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &head); err != nil {
		return model.BoardState{}, false, &DecodeError{Err: err}
	}
	if head.Version != SchemaVersion {
		logger.Warn("Storage version mismatch, using default state",
			logger.F("stored", head.Version), logger.F("expected", SchemaVersion))
		return model.BoardState{}, false, nil
	}

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return model.BoardState{}, false, &DecodeError{Err: err}
	}
	if err := board.Validate(env.State); err != nil {
		return model.BoardState{}, false, err
	}
	return env.State, true, nil
}

// Save writes the snapshot. It is not retried on failure.
func (l *Local) Save(ctx context.Context, s model.BoardState) error {
	data, err := json.Marshal(Envelope{
		Version:   SchemaVersion,
		State:     s,
		Timestamp: l.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode board snapshot: %w", err)
	}
	if len(data) > l.quota {
		logger.Warn("Local storage quota exceeded, consider signing in to store boards remotely",
			logger.F("size", len(data)), logger.F("quota", l.quota))
		return fmt.Errorf("%w: snapshot is %d bytes, quota %d", ErrQuotaExceeded, len(data), l.quota)
	}
	return l.kv.SetItem(ctx, StorageKey, string(data))
}

// Clear removes the saved snapshot
func (l *Local) Clear(ctx context.Context) error {
	return l.kv.RemoveItem(ctx, StorageKey)
}

// HasImported reports whether the first-login import marker is set
func (l *Local) HasImported(ctx context.Context) (bool, error) {
	v, ok, err := l.kv.GetItem(ctx, ImportMarkerKey)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// MarkImported sets the first-login import marker
func (l *Local) MarkImported(ctx context.Context) error {
	return l.kv.SetItem(ctx, ImportMarkerKey, "true")
}

// Status describes how much local storage the snapshot uses
type Status struct {
	StorageType   string `json:"storage_type"`
	DataSize      int    `json:"data_size"`
	Quota         int    `json:"quota"`
	ShouldMigrate bool   `json:"should_migrate"`
}

// Status reports the snapshot size and whether it is close to the quota
func (l *Local) Status(ctx context.Context) (Status, error) {
	raw, _, err := l.kv.GetItem(ctx, StorageKey)
	if err != nil {
		return Status{}, err
	}
	return Status{
		StorageType:   "local",
		DataSize:      len(raw),
		Quota:         l.quota,
		ShouldMigrate: len(raw) > MigrationThreshold,
	}, nil
}
