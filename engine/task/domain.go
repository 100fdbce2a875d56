package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
)

// State is one unit of work: one assignment applied to one artifact-group
// tuple, tracked through the pending/running/completed/failed machine.
type State struct {
	TaskExecID    core.ID         `json:"task_exec_id"`
	JobID         string          `json:"job_id"`
	JobRunID      core.ID         `json:"job_run_id"`
	WorkflowRunID core.ID         `json:"workflow_run_id"`
	AssignmentID  string          `json:"assignment_id"`
	GroupLabel    string          `json:"group_label"`
	Status        core.StatusType `json:"status"`
	Thread        *Thread         `json:"thread,omitempty"`
	Error         *core.Error     `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UpdateStatus enforces the strictly forward state machine:
// PENDING -> RUNNING -> (COMPLETED | FAILED), no re-entry.
func (s *State) UpdateStatus(status core.StatusType) error {
	if !s.Status.CanTransition(status) {
		return fmt.Errorf("illegal task transition %s -> %s (task %s)", s.Status, status, s.TaskExecID)
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

// -----------------------------------------------------------------------------
// Execution context
// -----------------------------------------------------------------------------

// Thread is the execution context a task is seeded with: an ordered list of
// entries the bound tool consumes (for the conversation tool, the seed of the
// agent conversation). Entry order is a hard contract: when the job uses the
// workflow input it is always first, followed by the tuple's data items in
// dependency-declaration order.
type Thread struct {
	ID      string  `json:"id"`
	Entries []Entry `json:"entries"`
}

// Entry is one context item: opaque text, structured data, or file refs.
type Entry struct {
	Text  string             `json:"text,omitempty"`
	Data  any                `json:"data,omitempty"`
	Files []artifact.FileRef `json:"files,omitempty"`
}

func NewThread() *Thread {
	return &Thread{ID: uuid.NewString()}
}

func (t *Thread) AppendText(text string, files ...artifact.FileRef) {
	t.Entries = append(t.Entries, Entry{Text: text, Files: files})
}

// AppendItem adds one tuple data item. Scalars become text entries,
// everything else rides as structured data. The empty placeholder item seeds
// nothing.
func (t *Thread) AppendItem(item any) {
	switch v := item.(type) {
	case nil:
		return
	case string:
		if v != "" {
			t.Entries = append(t.Entries, Entry{Text: v})
		}
	case map[string]any:
		if len(v) == 0 {
			return
		}
		t.Entries = append(t.Entries, Entry{Data: core.MustDeepCopy(v)})
	default:
		t.Entries = append(t.Entries, Entry{Data: core.MustDeepCopy(item)})
	}
}

// Files returns every file reference seeded into the thread, in order.
func (t *Thread) Files() []artifact.FileRef {
	var files []artifact.FileRef
	for _, e := range t.Entries {
		files = append(files, e.Files...)
	}
	return files
}
