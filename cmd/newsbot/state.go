// cmd/newsbot/state.go
package main

import (
    "encoding/json"
    "os"
    "path/filepath"
    "sync"
    "time"
)

// State is the operational state persisted across restarts: counters and
// timer bookkeeping, not pipeline data.
type State struct {
    Running           bool      `json:"running"`
    FetchCycleCount   int       `json:"fetchCycleCount"`
    PublishCycleCount int       `json:"publishCycleCount"`
    ArticlesPublished int       `json:"articlesPublished"`
    QueueLength       int       `json:"queueLength"`
    LastFetchTime     time.Time `json:"lastFetchTime"`
    LastPublishTime   time.Time `json:"lastPublishTime"`
    NextPublishTime   time.Time `json:"nextPublishTime"`
    ErrorCount        int       `json:"errorCount"`
    LastError         string    `json:"lastError"`
    LastErrorTime     time.Time `json:"lastErrorTime"`
    StartupTime       time.Time `json:"startupTime"`
    Version           string    `json:"version"`
}

// StateTracker owns the state file. All mutation happens through its
// methods under the mutex; writes are atomic (tmp file + rename).
type StateTracker struct {
    mu    sync.Mutex
    path  string
    state State
}

// NewStateTracker loads existing state from path, or starts fresh.
func NewStateTracker(path string) *StateTracker {
    t := &StateTracker{
        path: path,
        state: State{
            StartupTime: time.Now(),
            Version:     AppVersion,
        },
    }

    data, err := os.ReadFile(path)
    if err != nil || len(data) == 0 {
        return t
    }

    var loaded State
    if err := json.Unmarshal(data, &loaded); err != nil {
        GetLogger().Warning("State file %s is corrupt, starting fresh: %v", path, err)
        return t
    }

    loaded.StartupTime = time.Now()
    loaded.Running = false
    loaded.Version = AppVersion
    t.state = loaded
    return t
}

// Snapshot returns a copy of the current state.
func (t *StateTracker) Snapshot() State {
    t.mu.Lock()
    defer t.mu.Unlock()
    return t.state
}

// Update applies fn to the state under the lock and persists the result.
func (t *StateTracker) Update(fn func(*State)) {
    t.mu.Lock()
    fn(&t.state)
    snapshot := t.state
    t.mu.Unlock()

    if err := t.save(snapshot); err != nil {
        GetLogger().Warning("Cannot save state to %s: %v", t.path, err)
    }
}

// RecordError notes a recovered error in the state file.
func (t *StateTracker) RecordError(err error) {
    t.Update(func(s *State) {
        s.ErrorCount++
        s.LastError = err.Error()
        s.LastErrorTime = time.Now()
    })
}

// save writes the state atomically.
func (t *StateTracker) save(s State) error {
    if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
        return err
    }

    data, err := json.MarshalIndent(s, "", "  ")
    if err != nil {
        return err
    }

    tempFile := t.path + ".tmp"
    if err := os.WriteFile(tempFile, data, 0644); err != nil {
        return err
    }
    return os.Rename(tempFile, t.path)
}
