// Package engineio holds the resource and file helpers built on top of obj
// handles: the single-owner check used before exclusive file access, and
// typed load and save with a closed error taxonomy.
package engineio

import (
	"fmt"
)

// ErrorKind classifies an IoError.
type ErrorKind uint8

const (
	ResourceNotFound ErrorKind = iota
	ResourceCantCast
	ResourceSave
	FileNotOpen
	FileAccessReference
)

func (k ErrorKind) String() string {
	switch k {
	case ResourceNotFound:
		return "resource not found"
	case ResourceCantCast:
		return "resource has the wrong class"
	case ResourceSave:
		return "resource save failed"
	case FileNotOpen:
		return "file not open"
	case FileAccessReference:
		return "file handle is shared"
	}
	return "unknown"
}

// Dropper is the part of a handle an error needs to hand it back.
type Dropper interface {
	Drop()
}

// IoError is returned by every fallible operation of this package.
type IoError struct {
	Kind ErrorKind
	Path string
	// Code is the host error code of a failed save.
	Code int64
	// Resource is the loaded handle when the load succeeded but the cast did
	// not. The caller owns it and should drop it.
	Resource Dropper
	Err      error
}

func (e *IoError) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Kind == ResourceSave {
		msg = fmt.Sprintf("%s (error %d)", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// NotUniqueError reports that a handle required to be the sole owner shares
// its instance.
type NotUniqueError struct {
	ReferenceCount int32
}

func (e *NotUniqueError) Error() string {
	return fmt.Sprintf("reference count is %d, want 1", e.ReferenceCount)
}
