package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simularium/simconv/internal/config"
	"github.com/simularium/simconv/internal/logging"
)

// AppName names the binary and its log files.
const AppName = "simconv"

const rootLongDesc string = `Convert, filter and merge simulation trajectories.

Trajectories are read from envelope JSON files (plain, gzip or zstd
compressed), run through the filters configured in simconv.cfg.json and
saved to the configured storage backend: JSON files, SQLite, Postgres or a
WebSocket viewer server.

Examples:
  simconv convert cytosim.simularium
  simconv merge base.simularium extra.simularium --name combined
  simconv info cytosim.simularium.gz`

const rootShortDesc string = "Convert, filter and merge simulation trajectories"

// app carries the state shared by all subcommands once configuration is loaded.
type app struct {
	logs    *logging.SlogManager
	logFile io.Closer
}

func (a *app) logger() *slog.Logger {
	return a.logs.Logger()
}

func newRootCmd() *cobra.Command {
	a := &app{logs: logging.NewSlogManager()}

	cmd := &cobra.Command{
		Use:           AppName,
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			debug, _ := cmd.Flags().GetBool("debug")
			return a.setup(cmd, configDir, debug)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logFile != nil {
				return a.logFile.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config-dir", ".", "directory containing "+config.ConfigFileName)
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newMergeCmd(a))
	cmd.AddCommand(newInfoCmd(a))

	return cmd
}

// setup loads configuration and starts logging. A missing config file means
// every setting keeps its default.
func (a *app) setup(cmd *cobra.Command, configDir string, debug bool) error {
	err := config.Load(configDir)
	var notFound viper.ConfigFileNotFoundError
	configMissing := errors.As(err, &notFound)
	if err != nil && !configMissing {
		return err
	}

	level := config.GetString("logLevel")
	if debug {
		level = "debug"
	}

	var file io.Writer
	if logsDir := config.GetString("logsDir"); logsDir != "" {
		f, err := logging.OpenLogFile(logsDir, AppName, time.Now())
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		file = f
	}
	a.logs.Setup(cmd.ErrOrStderr(), file, level)

	if configMissing {
		a.logger().Debug("No config file found, using defaults", "configDir", configDir)
	}
	return nil
}
