package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/simularium/simconv/internal/storage/memory"
)

const mergeLongDesc string = `Merge the agents of one trajectory into another.

Both trajectories must have the same number of timesteps. Agents of the
incoming trajectory whose unique IDs clash with the base are given new IDs,
and type IDs are reassigned over the combined type names. Box size, camera,
units and plots are taken from the base trajectory. The configured filters
run over the merged result.

Examples:
  simconv merge actin.simularium motors.simularium --name actomyosin`

const mergeShortDesc string = "Merge two trajectories"

func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <base> <incoming>",
		Short: mergeShortDesc,
		Long:  mergeLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = trajectoryName(args[0]) + "_merged"
			}
			storageType, _ := cmd.Flags().GetString("storage")
			return a.runMerge(cmd.Context(), args[0], args[1], name, storageType)
		},
	}

	cmd.Flags().String("name", "", "name of the merged trajectory (default <base>_merged)")
	cmd.Flags().String("storage", "", "storage backend: memory, sqlite, postgres or websocket (overrides config)")

	return cmd
}

func (a *app) runMerge(ctx context.Context, basePath, incomingPath, name, storageType string) (err error) {
	base, err := memory.ReadFile(basePath)
	if err != nil {
		return err
	}
	incoming, err := memory.ReadFile(incomingPath)
	if err != nil {
		return err
	}

	svc, closeBackend, err := a.newService(storageType)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeBackend())
	}()

	_, err = svc.Merge(ctx, name, base, incoming)
	return err
}
