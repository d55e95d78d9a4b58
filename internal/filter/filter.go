// Package filter transforms trajectory models. Filters never modify their
// input: each returns a new, independent model.
package filter

import (
	"fmt"

	"github.com/simularium/simconv/internal/config"
	"github.com/simularium/simconv/pkg/core"
)

// Filter type names used in configuration.
const (
	TypeEveryNthTimestep     = "everyNthTimestep"
	TypeTransformSpatialAxes = "transformSpatialAxes"
)

// Filter transforms a trajectory model.
type Filter interface {
	Name() string
	// Validate checks the filter's parameters without touching any data.
	Validate() error
	Apply(a *core.AgentData) (*core.AgentData, error)
}

// InvalidFilterParameterError is returned for an out-of-range filter parameter.
type InvalidFilterParameterError struct {
	Filter    string
	Parameter string
	Value     any
	Reason    string
}

func (e *InvalidFilterParameterError) Error() string {
	return fmt.Sprintf("invalid %s parameter %s=%v: %s", e.Filter, e.Parameter, e.Value, e.Reason)
}

// Pipeline applies filters in order, feeding each the previous output.
type Pipeline []Filter

// Validate checks every filter before any is applied.
func (p Pipeline) Validate() error {
	for _, f := range p {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs the pipeline. An empty pipeline returns a copy of a.
func (p Pipeline) Apply(a *core.AgentData) (*core.AgentData, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return a.Clone(), nil
	}
	result := a
	for _, f := range p {
		next, err := f.Apply(result)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
		}
		result = next
	}
	return result, nil
}

// Names lists the filters in order, for logging.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, f := range p {
		names[i] = f.Name()
	}
	return names
}

// FromConfig builds a validated pipeline from configuration.
func FromConfig(cfgs []config.FilterConfig) (Pipeline, error) {
	pipeline := make(Pipeline, 0, len(cfgs))
	for i, cfg := range cfgs {
		var f Filter
		switch cfg.Type {
		case TypeEveryNthTimestep:
			f = &EveryNthTimestep{N: cfg.N}
		case TypeTransformSpatialAxes:
			mapping, err := ParseAxisMapping(cfg.Axes)
			if err != nil {
				return nil, err
			}
			f = &TransformSpatialAxes{Mapping: mapping}
		default:
			return nil, fmt.Errorf("unknown filter type %q at position %d", cfg.Type, i)
		}
		pipeline = append(pipeline, f)
	}
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	return pipeline, nil
}
