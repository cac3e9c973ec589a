package repositories

import (
	"errors"
	"fmt"
)

// StorageError reports an unreadable, corrupt or unwritable storage artifact.
type StorageError struct {
	Op   string // "load", "save", "init", "ping"
	Path string // file path or table the operation touched
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError
func NewStorageError(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}

// IsStorageError reports whether err or any error it wraps is a StorageError
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
