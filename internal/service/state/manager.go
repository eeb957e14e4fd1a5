package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/service/aggregate"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

// Storage keys
const (
	KeySummary  = "rased_data"
	KeyRoster   = "teacher_mapping"
	KeySnapshot = "rased_snapshot"
)

// ErrBatchInProgress another ingestion batch (or a reset) holds the batch lock
var ErrBatchInProgress = errors.New("an import batch is already running")

// Options manager settings
type Options struct {
	// BackupDir receives auto_backup_*.json files written before a reset
	BackupDir  string
	AutoBackup bool
	Logger     *zap.Logger
}

// Backup document written by Reset
type Backup struct {
	SavedAt  time.Time     `json:"savedAt"`
	Summary  model.Summary `json:"rased_data"`
	Roster   model.Roster  `json:"teacher_mapping"`
	Snapshot model.Summary `json:"rased_snapshot"`
}

// Stats state overview for status endpoints
type Stats struct {
	HasData     bool      `json:"hasData"`
	HasRoster   bool      `json:"hasRoster"`
	HasSnapshot bool      `json:"hasSnapshot"`
	Classes     int       `json:"classes"`
	Buckets     int       `json:"buckets"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Manager owns the persisted summary, roster and heatmap baseline.
// Reads return deep copies; writes flush to the KV store immediately.
type Manager struct {
	kv   store.KV
	opts Options
	log  *zap.Logger

	mu        sync.RWMutex
	summary   model.Summary
	roster    model.Roster
	snapshot  model.Summary
	updatedAt time.Time

	batch sync.Mutex
}

// NewManager loads the three documents once. A document that does not decode
// is logged and treated as empty.
func NewManager(kv store.KV, opts Options) (*Manager, error) {
	if kv == nil {
		return nil, errors.New("kv store is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{kv: kv, opts: opts, log: log}

	summary, err := loadDoc[model.Summary](m, KeySummary)
	if err != nil {
		return nil, err
	}
	snapshot, err := loadDoc[model.Summary](m, KeySnapshot)
	if err != nil {
		return nil, err
	}
	roster, err := loadDoc[model.Roster](m, KeyRoster)
	if err != nil {
		return nil, err
	}
	if roster == nil {
		roster = model.Roster{}
	}

	m.summary = aggregate.Repair(summary)
	m.snapshot = aggregate.Repair(snapshot)
	m.roster = roster
	return m, nil
}

func loadDoc[T any](m *Manager, key string) (T, error) {
	var out T
	data, err := m.kv.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return out, nil
		}
		return out, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		m.log.Warn("stored document has unexpected shape, starting empty",
			zap.String("key", key), zap.Error(err))
		var zero T
		return zero, nil
	}
	return out, nil
}

func (m *Manager) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.kv.Set(key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Summary deep copy of the current summary
func (m *Manager) Summary() model.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary.Clone()
}

// Roster deep copy of the current roster
func (m *Manager) Roster() model.Roster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roster.Clone()
}

// Snapshot deep copy of the heatmap baseline
func (m *Manager) Snapshot() model.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot.Clone()
}

// Stats counts for the status endpoint
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buckets := 0
	m.summary.Walk(func(model.BucketKey, *model.SubjectRecord) bool {
		buckets++
		return true
	})
	return Stats{
		HasData:     buckets > 0,
		HasRoster:   !m.roster.Empty(),
		HasSnapshot: !m.snapshot.Empty(),
		Classes:     len(m.summary.Classes()),
		Buckets:     buckets,
		UpdatedAt:   m.updatedAt,
	}
}

// CommitSummary replaces and persists the summary. The first non-empty commit
// also captures the heatmap baseline.
func (m *Manager) CommitSummary(s model.Summary) error {
	next := s.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.save(KeySummary, next); err != nil {
		return err
	}
	m.summary = next
	m.updatedAt = time.Now().UTC()

	if m.snapshot.Empty() && !next.Empty() {
		snap := next.Clone()
		if err := m.save(KeySnapshot, snap); err != nil {
			return err
		}
		m.snapshot = snap
		m.log.Info("captured baseline snapshot")
	}
	return nil
}

// ReplaceRoster replaces and persists the roster
func (m *Manager) ReplaceRoster(r model.Roster) error {
	next := r.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.save(KeyRoster, next); err != nil {
		return err
	}
	m.roster = next
	m.updatedAt = time.Now().UTC()
	return nil
}

// TakeSnapshot re-baselines the heatmap on the current summary
func (m *Manager) TakeSnapshot() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.summary.Clone()
	if err := m.save(KeySnapshot, snap); err != nil {
		return err
	}
	m.snapshot = snap
	return nil
}

// BeginBatch blocks until the batch lock is free; call the returned func to release it
func (m *Manager) BeginBatch() func() {
	m.batch.Lock()
	return m.batch.Unlock
}

// TryBeginBatch takes the batch lock or returns ErrBatchInProgress
func (m *Manager) TryBeginBatch() (func(), error) {
	if !m.batch.TryLock() {
		return nil, ErrBatchInProgress
	}
	return m.batch.Unlock, nil
}

// Reset clears every document. With AutoBackup the previous state is written
// to BackupDir first and its path returned. Refused while a batch runs.
func (m *Manager) Reset() (string, error) {
	release, err := m.TryBeginBatch()
	if err != nil {
		return "", err
	}
	defer release()

	m.mu.Lock()
	defer m.mu.Unlock()

	var backupPath string
	hasState := !m.summary.Empty() || !m.roster.Empty() || !m.snapshot.Empty()
	if m.opts.AutoBackup && m.opts.BackupDir != "" && hasState {
		now := time.Now().UTC()
		backupPath = filepath.Join(m.opts.BackupDir, fmt.Sprintf("auto_backup_%s.json", now.Format("20060102_150405")))
		backup := Backup{SavedAt: now, Summary: m.summary, Roster: m.roster, Snapshot: m.snapshot}
		if err := writeJSONAtomic(backupPath, backup); err != nil {
			return "", fmt.Errorf("write backup: %w", err)
		}
	}

	if err := m.kv.Clear(); err != nil {
		return "", err
	}
	m.summary = model.Summary{}
	m.roster = model.Roster{}
	m.snapshot = model.Summary{}
	m.updatedAt = time.Now().UTC()

	m.log.Info("state reset", zap.String("backup", backupPath))
	return backupPath, nil
}
