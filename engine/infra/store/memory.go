package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
	"github.com/weftworks/weft/engine/task"
	"github.com/weftworks/weft/engine/workflow"
)

// Memory is an in-memory object store implementing the engine's repository
// contracts. Lists are returned in creation order, which keeps dependency
// resolution deterministic across calls within one pass. It backs the CLI
// and the test suite; durable stores implement the same interfaces.
type Memory struct {
	mu        sync.RWMutex
	runs      map[core.ID]*workflow.RunState
	jobRuns   []*workflow.JobRunState
	tasks     []*task.State
	artifacts []*artifact.Artifact
	files     map[core.ID]*artifact.FileRef
	records   map[string][]map[string]any
}

func NewMemory() *Memory {
	return &Memory{
		runs:    make(map[core.ID]*workflow.RunState),
		files:   make(map[core.ID]*artifact.FileRef),
		records: make(map[string][]map[string]any),
	}
}

// -----------------------------------------------------------------------------
// workflow.Repository
// -----------------------------------------------------------------------------

func (m *Memory) CreateRun(_ context.Context, r *workflow.RunState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.runs[r.RunID]; dup {
		return fmt.Errorf("run %s already exists", r.RunID)
	}
	m.runs[r.RunID] = r
	return nil
}

func (m *Memory) GetRun(_ context.Context, runID core.ID) (*workflow.RunState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return r, nil
}

func (m *Memory) UpdateRunStatus(_ context.Context, runID core.ID, status core.StatusType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	r.Status = status
	return nil
}

func (m *Memory) CreateJobRun(_ context.Context, jr *workflow.JobRunState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobRuns = append(m.jobRuns, jr)
	return nil
}

func (m *Memory) UpdateJobRunStatus(_ context.Context, jobRunID core.ID, status core.StatusType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, jr := range m.jobRuns {
		if jr.JobRunID == jobRunID {
			jr.Status = status
			return nil
		}
	}
	return fmt.Errorf("job run %s not found", jobRunID)
}

func (m *Memory) ListJobRuns(_ context.Context, runID core.ID) ([]*workflow.JobRunState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*workflow.JobRunState
	for _, jr := range m.jobRuns {
		if jr.RunID == runID {
			out = append(out, jr)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// task.Repository
// -----------------------------------------------------------------------------

func (m *Memory) Create(_ context.Context, s *task.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, s)
	return nil
}

func (m *Memory) UpdateStatus(_ context.Context, taskExecID core.ID, status core.StatusType, errDetail *core.Error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.tasks {
		if st.TaskExecID == taskExecID {
			st.Status = status
			if errDetail != nil {
				st.Error = errDetail
			}
			return nil
		}
	}
	return fmt.Errorf("task %s not found", taskExecID)
}

func (m *Memory) ListByJobRun(_ context.Context, jobRunID core.ID) ([]*task.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*task.State
	for _, st := range m.tasks {
		if st.JobRunID == jobRunID {
			out = append(out, st)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// artifact.Repository
// -----------------------------------------------------------------------------

// Artifacts exposes the artifact repository view of the store.
func (m *Memory) Artifacts() artifact.Repository {
	return (*memoryArtifacts)(m)
}

type memoryArtifacts Memory

func (m *memoryArtifacts) Create(_ context.Context, a *artifact.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts = append(m.artifacts, a)
	return nil
}

func (m *memoryArtifacts) ListByJobRun(_ context.Context, jobRunID core.ID) ([]*artifact.Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*artifact.Artifact
	for _, a := range m.artifacts {
		if a.JobRunID == jobRunID {
			out = append(out, a)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// artifact.FileStore
// -----------------------------------------------------------------------------

// PutFile registers a source file record (run input files register here so
// the transcode tool can flag them).
func (m *Memory) PutFile(f *artifact.FileRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[f.ID] = f
}

func (m *Memory) MarkTranscoded(_ context.Context, fileID core.ID, pageImages []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[fileID]
	if !ok {
		return fmt.Errorf("file %s not found", fileID)
	}
	f.Transcoded = true
	f.PageImages = pageImages
	return nil
}

// File returns the tracked file record, if any.
func (m *Memory) File(fileID core.ID) (*artifact.FileRef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[fileID]
	return f, ok
}

// -----------------------------------------------------------------------------
// tool.RecordStore
// -----------------------------------------------------------------------------

func (m *Memory) Insert(_ context.Context, collection string, record map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[collection] = append(m.records[collection], record)
	return nil
}

// Records returns the inserted records for a collection, in insert order.
func (m *Memory) Records(collection string) []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[collection]
}
