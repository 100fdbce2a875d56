package artifact

import (
	"time"

	"github.com/weftworks/weft/engine/core"
)

// FileRef points at a stored file attached to an artifact or a workflow run
// input. Page images produced by transcoding hang off the source ref; the
// Transcoded flag is the external idempotency marker for the transcode tool.
type FileRef struct {
	ID         core.ID  `json:"id"`
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Mime       string   `json:"mime,omitempty"`
	PageImages []string `json:"page_images,omitempty"`
	Transcoded bool     `json:"transcoded,omitempty"`
}

// Artifact is an immutable unit of produced data: opaque text, a nested data
// payload, attached files, or any combination. Artifacts are created by tasks
// and only ever read by downstream dependency resolution.
type Artifact struct {
	ID         core.ID   `json:"id"`
	TaskExecID core.ID   `json:"task_exec_id"`
	JobRunID   core.ID   `json:"job_run_id"`
	Content    string    `json:"content,omitempty"`
	Data       any       `json:"data,omitempty"`
	Files      []FileRef `json:"files,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func New(taskExecID, jobRunID core.ID) *Artifact {
	return &Artifact{
		ID:         core.MustNewID(),
		TaskExecID: taskExecID,
		JobRunID:   jobRunID,
		CreatedAt:  time.Now(),
	}
}
