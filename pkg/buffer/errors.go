package buffer

import "fmt"

// MalformedBufferError is returned when a record declares more subpoint
// values than remain in its frame.
type MalformedBufferError struct {
	Frame     int
	Offset    int
	Declared  int
	Remaining int
}

func (e *MalformedBufferError) Error() string {
	return fmt.Sprintf(
		"malformed buffer in frame %d: record at offset %d declares %d subpoint values, %d remain",
		e.Frame, e.Offset, e.Declared, e.Remaining,
	)
}
