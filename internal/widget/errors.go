package widget

import "errors"

var (
	// ErrEmptyResult means the provider kept returning nothing.
	ErrEmptyResult = errors.New("no sponsored recommendations available")
	// ErrStaleReplacement means a replacement finished after its slot was
	// superseded; the result was discarded.
	ErrStaleReplacement = errors.New("replacement target superseded")
	// ErrDuplicateReplacement means a replacement for the same id is
	// already in flight.
	ErrDuplicateReplacement = errors.New("replacement already in progress")
	// ErrSlotNotFound means no displayed slot matches the id.
	ErrSlotNotFound = errors.New("recommendation slot not found")
)

// TransportError wraps a failed provider call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
