// Package gormstorage implements the storage.Backend and storage.Loader
// interfaces on a relational database through GORM.
package gormstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/storage"
	"github.com/simularium/simconv/pkg/buffer"
)

const frameBatchSize = 500

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// Backend stores trajectories as one metadata row plus one row per frame.
type Backend struct {
	deps Dependencies
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{deps: deps}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend has no database")
	}
	if err := b.deps.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.deps.Logger.Debug("Trajectory schema migrated", "dialect", b.deps.DB.Dialector.Name())
	return nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// checksum returns the hex xxhash64 of data.
func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// SaveTrajectory writes env in one transaction, replacing any trajectory
// stored under the same name.
func (b *Backend) SaveTrajectory(ctx context.Context, name string, env *v1.Envelope) error {
	info, err := json.Marshal(env.TrajectoryInfo)
	if err != nil {
		return fmt.Errorf("marshal trajectory info: %w", err)
	}
	plots, err := json.Marshal(env.PlotData)
	if err != nil {
		return fmt.Errorf("marshal plot data: %w", err)
	}

	traj := Trajectory{
		ID:    uuid.New(),
		Name:  name,
		Info:  info,
		Plots: plots,
	}
	frames := make([]TrajectoryFrame, len(env.SpatialData.BundleData))
	for i, f := range env.SpatialData.BundleData {
		data, err := json.Marshal(f.Data)
		if err != nil {
			return fmt.Errorf("marshal frame %d: %w", f.FrameNumber, err)
		}
		frames[i] = TrajectoryFrame{
			TrajectoryID: traj.ID,
			FrameNumber:  f.FrameNumber,
			Time:         f.Time,
			Data:         data,
			Checksum:     checksum(data),
		}
	}

	err = b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Trajectory
		err := tx.Where("name = ?", name).Take(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("trajectory_id = ?", existing.ID).Delete(&TrajectoryFrame{}).Error; err != nil {
				return fmt.Errorf("delete old frames: %w", err)
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("delete old trajectory: %w", err)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Omit("Frames").Create(&traj).Error; err != nil {
			return fmt.Errorf("create trajectory: %w", err)
		}
		if len(frames) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(frames, frameBatchSize).Error; err != nil {
			return fmt.Errorf("create frames: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save trajectory %s: %w", name, err)
	}

	b.deps.Logger.Debug("Trajectory saved", "name", name, "id", traj.ID, "frames", len(frames))
	return nil
}

// LoadTrajectory reads a trajectory back, verifying every frame checksum.
func (b *Backend) LoadTrajectory(ctx context.Context, name string) (*v1.Envelope, error) {
	db := b.deps.DB.WithContext(ctx)

	var traj Trajectory
	err := db.Where("name = ?", name).Take(&traj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrTrajectoryNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load trajectory %s: %w", name, err)
	}

	var rows []TrajectoryFrame
	if err := db.Where("trajectory_id = ?", traj.ID).Order("frame_number").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load frames of %s: %w", name, err)
	}

	env := &v1.Envelope{
		SpatialData: v1.SpatialData{
			Version:     v1.SpatialDataVersion,
			MsgType:     v1.MsgTypeVisData,
			BundleStart: 0,
			BundleSize:  len(rows),
			BundleData:  make([]buffer.Frame, len(rows)),
		},
	}
	if err := json.Unmarshal(traj.Info, &env.TrajectoryInfo); err != nil {
		return nil, fmt.Errorf("decode trajectory info of %s: %w", name, err)
	}
	if len(traj.Plots) > 0 {
		if err := json.Unmarshal(traj.Plots, &env.PlotData); err != nil {
			return nil, fmt.Errorf("decode plot data of %s: %w", name, err)
		}
	}

	for i, row := range rows {
		var data []float64
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, fmt.Errorf("decode frame %d of %s: %w", row.FrameNumber, name, err)
		}
		// some databases reformat JSON, so the checksum is taken over the canonical encoding
		canonical, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode frame %d of %s: %w", row.FrameNumber, name, err)
		}
		if checksum(canonical) != row.Checksum {
			return nil, fmt.Errorf("%w: trajectory %s, frame %d", storage.ErrChecksumMismatch, name, row.FrameNumber)
		}
		env.SpatialData.BundleData[i] = buffer.Frame{FrameNumber: row.FrameNumber, Time: row.Time, Data: data}
	}
	return env, nil
}

// Names lists the stored trajectory names in order.
func (b *Backend) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := b.deps.DB.WithContext(ctx).Model(&Trajectory{}).Order("name").Pluck("name", &names).Error
	return names, err
}
