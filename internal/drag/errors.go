package drag

import "errors"

var (
	// ErrTaskNotFound means the drag target is absent from the collection.
	ErrTaskNotFound = errors.New("drag: task not found")

	// ErrNotDragging means the session was already committed or cancelled.
	ErrNotDragging = errors.New("drag: session is not active")
)
