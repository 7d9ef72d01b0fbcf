package otaustore

import (
	"fmt"
)

// ErrNotDirectory means the path of the OTA directory is occupied by
// something else than a directory.
type ErrNotDirectory struct {
	Path string
}

func (err ErrNotDirectory) Error() string {
	return fmt.Sprintf("'%s' exists and is not a directory", err.Path)
}

// ErrExists means the file is already stored.
type ErrExists struct {
	Path string
}

func (err ErrExists) Error() string {
	return fmt.Sprintf("file '%s' already exists", err.Path)
}

// ErrNotRegularFile means the name is occupied by something else than a
// regular file.
type ErrNotRegularFile struct {
	Path string
}

func (err ErrNotRegularFile) Error() string {
	return fmt.Sprintf("'%s' exists and is not a regular file", err.Path)
}

// ErrInvalidName means the name cannot be used as a file name within the directory.
type ErrInvalidName struct {
	Name string
}

func (err ErrInvalidName) Error() string {
	return fmt.Sprintf("'%s' is not a valid file name", err.Name)
}
