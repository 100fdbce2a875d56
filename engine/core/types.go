package core

// -----------------------------------------------------------------------------
// Status
// -----------------------------------------------------------------------------

// StatusType tracks a task or job run through its lifecycle. Transitions are
// strictly forward: PENDING -> RUNNING -> (COMPLETED | FAILED).
type StatusType string

const (
	StatusPending   StatusType = "PENDING"
	StatusRunning   StatusType = "RUNNING"
	StatusCompleted StatusType = "COMPLETED"
	StatusFailed    StatusType = "FAILED"
)

func (s StatusType) String() string {
	return string(s)
}

func (s StatusType) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal forward step.
func (s StatusType) CanTransition(next StatusType) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Payload maps
// -----------------------------------------------------------------------------

// Input carries structured parameters into a component.
type Input map[string]any

// Output carries structured results out of a component.
type Output map[string]any

func (i *Input) AsMap() map[string]any {
	if i == nil {
		return nil
	}
	return map[string]any(*i)
}

func (o *Output) AsMap() map[string]any {
	if o == nil {
		return nil
	}
	return map[string]any(*o)
}

// -----------------------------------------------------------------------------
// Reserved payload keys
// -----------------------------------------------------------------------------

// Reserved keys under which an artifact's opaque text and attached files are
// merged into its combined data payload before grouping.
const (
	ContentKey = "content"
	FilesKey   = "files"
)
