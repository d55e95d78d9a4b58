package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simularium/simconv/internal/config"
	"github.com/simularium/simconv/internal/converter"
	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/filter"
)

const convertLongDesc string = `Convert one or more trajectories.

Each input is decoded, run through the configured filters and saved to the
storage backend. Inputs are converted in parallel, up to "workers" at a time.
The trajectory name defaults to the input file name without extensions.

Examples:
  simconv convert cytosim.simularium
  simconv convert run1.json.gz run2.json.gz --storage sqlite
  simconv convert cytosim.simularium --name microtubules`

const convertShortDesc string = "Convert trajectories"

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input>...",
		Short: convertShortDesc,
		Long:  convertLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			storageType, _ := cmd.Flags().GetString("storage")
			return a.runConvert(cmd.Context(), args, name, storageType)
		},
	}

	cmd.Flags().String("name", "", "trajectory name (single input only)")
	cmd.Flags().String("storage", "", "storage backend: memory, sqlite, postgres or websocket (overrides config)")

	return cmd
}

// newService builds the storage backend and converter from configuration.
// A non-empty storageType replaces the configured backend type. The returned
// close function releases the backend.
func (a *app) newService(storageType string) (*converter.Service, func() error, error) {
	filterCfgs, err := config.GetFilterConfigs()
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := filter.FromConfig(filterCfgs)
	if err != nil {
		return nil, nil, err
	}

	storageCfg := config.GetStorageConfig()
	if storageType != "" {
		storageCfg.Type = storageType
	}
	backend, err := openStorage(storageCfg, a.logger())
	if err != nil {
		return nil, nil, err
	}

	svc, err := converter.New(converter.Dependencies{
		Backend:  backend,
		Pipeline: pipeline,
		Workers:  config.GetInt("workers"),
		Logger:   a.logger(),
	})
	if err != nil {
		return nil, nil, errors.Join(err, backend.Close())
	}
	return svc, backend.Close, nil
}

func (a *app) runConvert(ctx context.Context, paths []string, name, storageType string) (err error) {
	if name != "" && len(paths) != 1 {
		return fmt.Errorf("--name needs exactly one input, got %d", len(paths))
	}

	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}
	if name != "" {
		inputs = map[string]*v1.Envelope{name: inputs[trajectoryName(paths[0])]}
	}

	svc, closeBackend, err := a.newService(storageType)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeBackend())
	}()

	return svc.ConvertAll(ctx, inputs)
}
