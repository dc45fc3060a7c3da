package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var ErrNoPath = errors.New("storage: snapshot path is empty")

// SnapshotFile keeps the whole app state in one JSON document. Writes go to
// a temp file that is renamed over the target.
type SnapshotFile struct {
	path string
	mu   sync.Mutex
}

var _ StateStore = (*SnapshotFile)(nil)

func NewSnapshotFile(path string) (*SnapshotFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNoPath
	}
	return &SnapshotFile{path: path}, nil
}

func (f *SnapshotFile) Path() string { return f.path }

// Load returns defaults when the file is missing or blank.
func (f *SnapshotFile) Load(_ context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLocked()
}

func (f *SnapshotFile) SaveTasks(_ context.Context, tasks []model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, err := f.readLocked()
	if err != nil {
		return err
	}
	snap.Tasks = make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, t.Clone())
	}
	return f.writeLocked(snap)
}

func (f *SnapshotFile) SaveAppState(_ context.Context, state AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, err := f.readLocked()
	if err != nil {
		return err
	}
	snap.AppState = state
	return f.writeLocked(snap)
}

func (f *SnapshotFile) readLocked() (Snapshot, error) {
	empty := Snapshot{Tasks: []model.Task{}, AppState: DefaultAppState()}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return Snapshot{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return empty, nil
	}
	snap := empty
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	if snap.Tasks == nil {
		snap.Tasks = []model.Task{}
	}
	for i := range snap.Tasks {
		if snap.Tasks[i].Tags == nil {
			snap.Tasks[i].Tags = []string{}
		}
	}
	if strings.TrimSpace(snap.CurrentView) == "" {
		snap.CurrentView = DefaultAppState().CurrentView
	}
	return snap, nil
}

func (f *SnapshotFile) writeLocked(snap Snapshot) error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
