package wordfreq

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrIO                = errors.New("i/o error")
	ErrInvalidChunkCount = errors.New("chunk count must be greater than zero")
)

// IOError describes a failed file operation. It matches exactly one of
// ErrFileNotFound, ErrPermissionDenied or ErrIO with errors.Is, and also
// unwraps to the underlying error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	err := e.Err

	// the path is already part of the message
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}

	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind(), err)
}

func (e *IOError) Unwrap() []error {
	return []error{e.Kind(), e.Err}
}

// Kind returns the sentinel classifying the failure.
func (e *IOError) Kind() error {
	switch {
	case errors.Is(e.Err, fs.ErrNotExist):
		return ErrFileNotFound
	case errors.Is(e.Err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return ErrIO
	}
}

func wrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}

	return &IOError{Op: op, Path: path, Err: err}
}
