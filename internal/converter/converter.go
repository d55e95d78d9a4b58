// Package converter runs trajectories through the filter pipeline and hands
// the result to a storage backend.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/filter"
	"github.com/simularium/simconv/internal/storage"
	"github.com/simularium/simconv/pkg/core"
)

const (
	opConvert = "convert"
	opMerge   = "merge"
)

// Dependencies holds everything a Service needs.
type Dependencies struct {
	Backend  storage.Backend
	Pipeline filter.Pipeline
	// Workers bounds ConvertAll; values below 1 mean one worker.
	Workers int
	Logger  *slog.Logger
}

// Service converts and merges trajectories.
type Service struct {
	deps Dependencies

	// OTEL metrics
	converted metric.Int64Counter
	frames    metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
	activeObs metric.Int64ObservableGauge

	active atomic.Int64
}

// New creates a Service. The pipeline is validated up front.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(deps Dependencies) (*Service, error) {
	if deps.Backend == nil {
		return nil, errors.New("converter needs a storage backend")
	}
	if err := deps.Pipeline.Validate(); err != nil {
		return nil, err
	}
	if deps.Workers < 1 {
		deps.Workers = 1
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Service{deps: deps}
	m := meter()

	var err error
	s.converted, err = m.Int64Counter(
		"converter.trajectories.saved",
		metric.WithDescription("Total trajectories converted or merged and saved"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating saved counter: %w", err)
	}

	s.frames, err = m.Int64Counter(
		"converter.frames.encoded",
		metric.WithDescription("Total packed frames encoded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	s.failed, err = m.Int64Counter(
		"converter.trajectories.failed",
		metric.WithDescription("Total trajectories that failed to convert or merge"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	s.duration, err = m.Float64Histogram(
		"converter.duration",
		metric.WithDescription("Time spent converting one trajectory"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	s.activeObs, err = m.Int64ObservableGauge(
		"converter.conversions.active",
		metric.WithDescription("Conversions currently in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.activeObs, s.active.Load())
			return nil
		},
		s.activeObs,
	)
	if err != nil {
		return nil, fmt.Errorf("registering active callback: %w", err)
	}

	return s, nil
}

// Convert reads env, runs the filter pipeline over its agents and saves the
// rebuilt envelope under name.
func (s *Service) Convert(ctx context.Context, name string, env *v1.Envelope) (*v1.Envelope, error) {
	return s.run(ctx, opConvert, name, func() (*core.TrajectoryData, error) {
		return v1.Read(env)
	})
}

// Merge combines the agents of incoming into base and saves the result under
// name. Metadata, units and plots come from base.
func (s *Service) Merge(ctx context.Context, name string, base, incoming *v1.Envelope) (*v1.Envelope, error) {
	return s.run(ctx, opMerge, name, func() (*core.TrajectoryData, error) {
		baseTraj, err := v1.Read(base)
		if err != nil {
			return nil, fmt.Errorf("base: %w", err)
		}
		incomingTraj, err := v1.Read(incoming)
		if err != nil {
			return nil, fmt.Errorf("incoming: %w", err)
		}
		if err := baseTraj.AgentData.AppendAgents(incomingTraj.AgentData); err != nil {
			return nil, err
		}
		return baseTraj, nil
	})
}

func (s *Service) run(ctx context.Context, op, name string, load func() (*core.TrajectoryData, error)) (*v1.Envelope, error) {
	start := time.Now()
	s.active.Add(1)
	defer s.active.Add(-1)

	opAttr := metric.WithAttributes(attribute.String("operation", op))
	log := s.deps.Logger.With("operation", op, "trajectory", name)

	out, err := s.process(ctx, load)
	s.duration.Record(ctx, time.Since(start).Seconds(), opAttr)
	if err != nil {
		s.failed.Add(ctx, 1, opAttr)
		log.Error("Trajectory failed", "error", err)
		return nil, fmt.Errorf("%s %s: %w", op, name, err)
	}

	if err := s.deps.Backend.SaveTrajectory(ctx, name, out); err != nil {
		s.failed.Add(ctx, 1, opAttr)
		log.Error("Failed to save trajectory", "error", err)
		return nil, fmt.Errorf("%s %s: %w", op, name, err)
	}

	s.converted.Add(ctx, 1, opAttr)
	s.frames.Add(ctx, int64(len(out.SpatialData.BundleData)), opAttr)
	log.Info("Trajectory saved",
		"frames", out.TrajectoryInfo.TotalSteps,
		"types", len(out.TrajectoryInfo.TypeMapping),
		"filters", s.deps.Pipeline.Names(),
		"duration", time.Since(start),
	)
	return out, nil
}

func (s *Service) process(ctx context.Context, load func() (*core.TrajectoryData, error)) (*v1.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	traj, err := load()
	if err != nil {
		return nil, err
	}
	filtered, err := s.deps.Pipeline.Apply(traj.AgentData)
	if err != nil {
		return nil, err
	}
	traj.AgentData = filtered
	return v1.Build(traj)
}

// ConvertAll converts every input, at most Workers at a time. Every
// trajectory gets its own model, so workers share nothing. The first error
// cancels the conversions that have not started yet.
func (s *Service) ConvertAll(ctx context.Context, inputs map[string]*v1.Envelope) error {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	slices.Sort(names)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.Workers)
	for _, name := range names {
		env := inputs[name]
		g.Go(func() error {
			_, err := s.Convert(gctx, name, env)
			return err
		})
	}
	return g.Wait()
}
