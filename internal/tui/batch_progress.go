package tui

import (
	"sync"
)

// ProgressUpdate represents a change in one repository's batch status
type ProgressUpdate struct {
	Type     string // "started", "completed", "failed"
	Index    int
	Path     string
	CommitID string
	Error    error
}

// ChannelBatchProgressReporter implements engine.BatchProgress using channels
type ChannelBatchProgressReporter struct {
	updates chan ProgressUpdate
	once    sync.Once
}

// NewChannelBatchProgressReporter creates a reporter buffered for size repositories
func NewChannelBatchProgressReporter(size int) *ChannelBatchProgressReporter {
	// Two updates per repository; a full buffer never blocks workers
	return &ChannelBatchProgressReporter{
		updates: make(chan ProgressUpdate, 2*size+1),
	}
}

// Updates returns the channel for receiving updates
func (r *ChannelBatchProgressReporter) Updates() <-chan ProgressUpdate {
	return r.updates
}

// Close closes the update channel (safe to call multiple times)
func (r *ChannelBatchProgressReporter) Close() {
	r.once.Do(func() {
		close(r.updates)
	})
}

// RepoStarted reports that a repository commit has started
func (r *ChannelBatchProgressReporter) RepoStarted(index int, path string) {
	r.updates <- ProgressUpdate{Type: "started", Index: index, Path: path}
}

// RepoFinished reports the outcome for a repository
func (r *ChannelBatchProgressReporter) RepoFinished(index int, commitID string, err error) {
	if err != nil {
		r.updates <- ProgressUpdate{Type: "failed", Index: index, Error: err}
		return
	}
	r.updates <- ProgressUpdate{Type: "completed", Index: index, CommitID: commitID}
}
