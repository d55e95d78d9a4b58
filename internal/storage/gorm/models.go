package gormstorage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Models lists every table of the trajectory store, in migration order.
var Models = []any{
	&Trajectory{},
	&TrajectoryFrame{},
}

// Trajectory holds the envelope metadata of one stored trajectory
type Trajectory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name      string         `gorm:"size:255;uniqueIndex;not null"`
	Info      datatypes.JSON `gorm:"not null"` // trajectoryInfo
	Plots     datatypes.JSON // plotData
	CreatedAt time.Time
	UpdatedAt time.Time

	Frames []TrajectoryFrame `gorm:"constraint:OnDelete:CASCADE"`
}

// TrajectoryFrame holds one packed frame. Checksum is the hex xxhash64 of Data.
type TrajectoryFrame struct {
	ID           uint           `gorm:"primaryKey"`
	TrajectoryID uuid.UUID      `gorm:"type:uuid;index:idx_trajectory_frame,unique,priority:1;not null"`
	FrameNumber  int            `gorm:"index:idx_trajectory_frame,unique,priority:2"`
	Time         float64
	Data         datatypes.JSON `gorm:"not null"`
	Checksum     string         `gorm:"size:16;not null"`
}
