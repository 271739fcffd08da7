// Package tagreader defines the external tag-reader capability. The rest
// of the system only ever sees a tag identifier string or an absence
// signal, never hardware details.
package tagreader

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Scan when no reader hardware is connected.
var ErrUnavailable = errors.New("tag reader unavailable")

// Reader scans physical tags and reports their identifiers.
type Reader interface {
	// Available reports whether a reader is connected.
	Available() bool
	// Scan waits for a tag and returns its identifier. It returns
	// ErrUnavailable when no reader is connected, and respects ctx
	// cancellation; it never blocks indefinitely past that.
	Scan(ctx context.Context) (string, error)
}

// None is the Reader used when no hardware is attached.
type None struct{}

// Available always reports false.
func (None) Available() bool { return false }

// Scan always fails with ErrUnavailable.
func (None) Scan(context.Context) (string, error) { return "", ErrUnavailable }
