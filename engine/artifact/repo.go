package artifact

import (
	"context"

	"github.com/weftworks/weft/engine/core"
)

// Repository is the object-store contract for artifacts. ListByJobRun must
// return artifacts in a stable order (creation order) so dependency
// resolution is deterministic within a pass.
type Repository interface {
	Create(ctx context.Context, a *Artifact) error
	ListByJobRun(ctx context.Context, jobRunID core.ID) ([]*Artifact, error)
}

// FileStore tracks source file records shared between the run input and the
// transcode tool. MarkTranscoded records the derived page images and flips
// the idempotency flag on the source record.
type FileStore interface {
	MarkTranscoded(ctx context.Context, fileID core.ID, pageImages []string) error
}
