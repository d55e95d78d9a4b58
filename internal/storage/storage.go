// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	v1 "github.com/simularium/simconv/internal/export/v1"
)

var (
	// ErrTrajectoryNotFound is returned by loaders for unknown trajectory names.
	ErrTrajectoryNotFound = errors.New("trajectory not found")
	// ErrChecksumMismatch is returned when stored frame data fails verification.
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveTrajectory stores env under name, replacing any trajectory of the same name.
	SaveTrajectory(ctx context.Context, name string, env *v1.Envelope) error
}

// Loader is an optional interface for backends that can read trajectories back.
type Loader interface {
	LoadTrajectory(ctx context.Context, name string) (*v1.Envelope, error)
}
