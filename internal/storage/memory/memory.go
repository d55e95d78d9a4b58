// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/simularium/simconv/internal/config"
	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/storage"
)

// Backend keeps trajectories in memory and, when an output directory is
// configured, exports each one to a .simularium file.
type Backend struct {
	cfg          config.MemoryConfig
	trajectories map[string]*v1.Envelope
	exportPaths  map[string]string
	mu           sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:          cfg,
		trajectories: make(map[string]*v1.Envelope),
		exportPaths:  make(map[string]string),
	}
}

// Init validates the compression setting and creates the output directory.
func (b *Backend) Init() error {
	if _, err := extensionFor(b.cfg.Compression); err != nil {
		return err
	}
	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveTrajectory stores env and exports it when an output directory is set.
func (b *Backend) SaveTrajectory(ctx context.Context, name string, env *v1.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.trajectories[name] = env
	if b.cfg.OutputDir == "" {
		return nil
	}

	path, err := b.exportJSON(name, env)
	if err != nil {
		return err
	}
	b.exportPaths[name] = path
	return nil
}

// LoadTrajectory returns a stored trajectory, falling back to an exported
// file in the output directory.
func (b *Backend) LoadTrajectory(ctx context.Context, name string) (*v1.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	env, ok := b.trajectories[name]
	b.mu.RUnlock()
	if ok {
		return env, nil
	}

	if b.cfg.OutputDir != "" {
		for _, ext := range extensions {
			path := exportPath(b.cfg.OutputDir, name, ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			return ReadFile(path)
		}
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrTrajectoryNotFound, name)
}

// ExportPath returns the file a trajectory was last exported to.
func (b *Backend) ExportPath(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	path, ok := b.exportPaths[name]
	return path, ok
}

// Names lists the stored trajectories in sorted order.
func (b *Backend) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.trajectories))
	for name := range b.trajectories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
