package process

import "fmt"

// AttachError is fatal: the target process, its main module or a read
// handle could not be obtained.
type AttachError struct {
	Stage string // "find", "module" or "open"
	Name  string
	Err   error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("attach %s %q: %v", e.Stage, e.Name, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }
