package tool

import (
	"context"
	"fmt"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/grouping"
	"github.com/weftworks/weft/engine/task"
	"github.com/weftworks/weft/pkg/logger"
)

// Converter turns one convertible source file into its image-per-page
// representation and returns the derived page-image paths.
type Converter interface {
	Convertible(ctx context.Context, f artifact.FileRef) bool
	Convert(ctx context.Context, f artifact.FileRef) ([]string, error)
}

// TranscodeTool prepares run input files: it converts any attached
// convertible files (paginated documents) to page images in place and marks
// each source as transcoded. The stage runs once regardless of upstream
// grouping, and conversion is idempotent through the Transcoded flag on the
// source record.
type TranscodeTool struct {
	tasks     task.Repository
	files     artifact.FileStore
	assigner  *task.Assigner
	converter Converter
}

func NewTranscodeTool(tasks task.Repository, files artifact.FileStore, converter Converter) *TranscodeTool {
	return &TranscodeTool{
		tasks:     tasks,
		files:     files,
		assigner:  task.NewAssigner(tasks),
		converter: converter,
	}
}

func (t *TranscodeTool) Kind() Kind {
	return KindTranscode
}

// AssignTasks overrides the grouped default: a transcode stage always gets a
// single ungrouped task per assignment, whatever the upstream groups were.
func (t *TranscodeTool) AssignTasks(ctx context.Context, params *task.AssignParams) ([]*task.State, error) {
	ungrouped := *params
	ungrouped.Tuples = grouping.BuildTuples(nil)
	return t.assigner.Assign(ctx, &ungrouped)
}

// RunTask converts the thread's convertible files. It produces no output
// artifacts: the conversion result lives on the source file records.
func (t *TranscodeTool) RunTask(ctx context.Context, st *task.State) error {
	return runGuarded(ctx, t.tasks, st, "transcode_failed", func(ctx context.Context) error {
		log := logger.FromContext(ctx)
		for _, f := range st.Thread.Files() {
			if f.Transcoded {
				log.Debug("file already transcoded, skipping", "file_id", f.ID, "name", f.Name)
				continue
			}
			if !t.converter.Convertible(ctx, f) {
				continue
			}
			pages, err := t.converter.Convert(ctx, f)
			if err != nil {
				return fmt.Errorf("failed to transcode %s: %w", f.Name, err)
			}
			if err := t.files.MarkTranscoded(ctx, f.ID, pages); err != nil {
				return fmt.Errorf("failed to mark %s transcoded: %w", f.Name, err)
			}
			log.Info("transcoded file", "file_id", f.ID, "name", f.Name, "pages", len(pages))
		}
		return nil
	})
}
