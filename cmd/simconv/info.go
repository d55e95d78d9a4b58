package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/storage/memory"
	"github.com/simularium/simconv/pkg/buffer"
	"github.com/simularium/simconv/pkg/core"
)

const infoLongDesc string = `Show a summary of a trajectory file.

Prints the trajectory metadata, the dimensions of its spatial data and its
type mapping without converting anything.

Examples:
  simconv info cytosim.simularium`

const infoShortDesc string = "Show a summary of a trajectory"

func newInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <input>",
		Short: infoShortDesc,
		Long:  infoLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := memory.ReadFile(args[0])
			if err != nil {
				return err
			}
			a.logger().Debug("Read trajectory", "path", args[0])
			return printInfo(cmd.OutOrStdout(), trajectoryName(args[0]), env)
		},
	}
	return cmd
}

func printInfo(w io.Writer, name string, env *v1.Envelope) error {
	dims, err := buffer.ScanDimensions(env.SpatialData.BundleData)
	if err != nil {
		return err
	}
	info := env.TrajectoryInfo
	timeUnits := core.UnitData{Name: info.TimeUnits.Name, Magnitude: info.TimeUnits.Magnitude}
	spatialUnits := core.UnitData{Name: info.SpatialUnits.Name, Magnitude: info.SpatialUnits.Magnitude}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", name)
	fmt.Fprintf(tw, "Version:\t%d\n", info.Version)
	fmt.Fprintf(tw, "Timesteps:\t%d\n", dims.TotalSteps)
	fmt.Fprintf(tw, "Time step:\t%g %s\n", info.TimeStepSize, timeUnits)
	fmt.Fprintf(tw, "Box size:\t%g x %g x %g %s\n", info.Size.X, info.Size.Y, info.Size.Z, spatialUnits)
	fmt.Fprintf(tw, "Max agents:\t%d\n", dims.MaxAgents)
	fmt.Fprintf(tw, "Max subpoints:\t%d\n", dims.MaxSubpoints)
	fmt.Fprintf(tw, "Plots:\t%d\n", len(env.PlotData.Data))
	fmt.Fprintf(tw, "Types:\t%d\n", len(info.TypeMapping))

	ids := make([]int, 0, len(info.TypeMapping))
	for id := range info.TypeMapping {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(tw, "  %d\t%s\n", id, info.TypeMapping[id].Name)
	}
	return tw.Flush()
}
