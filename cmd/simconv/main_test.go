package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simularium/simconv/internal/config"
	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/storage/memory"
	"github.com/simularium/simconv/pkg/core"
)

// writeInput writes a trajectory with one agent per uid over steps timesteps.
func writeInput(t *testing.T, dir, file string, steps int, uids ...int) string {
	t.Helper()
	var rows []core.AgentRow
	for step := range steps {
		for _, uid := range uids {
			rows = append(rows, core.AgentRow{
				Time:     float64(step),
				UniqueID: uid,
				Type:     fmt.Sprintf("type-%d", uid),
				Position: core.Vec3{float64(uid), 0, float64(step)},
				Radius:   1,
			})
		}
	}
	env, err := v1.Build(&core.TrajectoryData{
		MetaData:     core.MetaData{BoxSize: core.Vec3{20, 20, 20}, CameraDefaults: core.DefaultCamera()},
		AgentData:    core.AgentDataFromRows(rows),
		TimeUnits:    core.NewUnitData("s"),
		SpatialUnits: core.UnitData{Name: "nm", Magnitude: 10},
	})
	require.NoError(t, err)

	path := filepath.Join(dir, file)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, v1.Encode(f, env))
	return path
}

// writeConfig writes a config that exports gzip files to <dir>/out.
func writeConfig(t *testing.T, dir string, filters string) {
	t.Helper()
	cfg := fmt.Sprintf(`{
		"logsDir": %q,
		"storage": {
			"type": "memory",
			"memory": {"outputDir": %q, "compression": "gzip"}
		},
		"filters": %s
	}`, filepath.Join(dir, "logs"), filepath.Join(dir, "out"), filters)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(cfg), 0644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[{"type": "everyNthTimestep", "n": 2}]`)
	input := writeInput(t, dir, "walk.simularium", 5, 1, 2)

	_, err := execute(t, "convert", input, "--config-dir", dir)
	require.NoError(t, err)

	env, err := memory.ReadFile(filepath.Join(dir, "out", "walk.simularium.gz"))
	require.NoError(t, err)
	assert.Equal(t, 3, env.TrajectoryInfo.TotalSteps)
	assert.Equal(t, 2.0, env.TrajectoryInfo.TimeStepSize)

	logs, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestConvertCommand_Rename(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[]`)
	input := writeInput(t, dir, "walk.simularium", 2, 1)

	_, err := execute(t, "convert", input, "--name", "renamed", "--config-dir", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "out", "renamed.simularium.gz"))
	assert.NoError(t, err)
}

func TestConvertCommand_NameNeedsOneInput(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[]`)
	a := writeInput(t, dir, "a.simularium", 1, 1)
	b := writeInput(t, dir, "b.simularium", 1, 1)

	_, err := execute(t, "convert", a, b, "--name", "x", "--config-dir", dir)

	assert.ErrorContains(t, err, "--name needs exactly one input")
}

func TestConvertCommand_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[{"type": "transformSpatialAxes", "axes": ["+X", "+X", "+Y"]}]`)
	input := writeInput(t, dir, "walk.simularium", 2, 1)

	_, err := execute(t, "convert", input, "--config-dir", dir)

	assert.ErrorContains(t, err, "invalid axis mapping")
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[]`)
	base := writeInput(t, dir, "base.simularium", 3, 1, 2)
	incoming := writeInput(t, dir, "incoming.simularium", 3, 1, 3)

	_, err := execute(t, "merge", base, incoming, "--config-dir", dir)
	require.NoError(t, err)

	env, err := memory.ReadFile(filepath.Join(dir, "out", "base_merged.simularium.gz"))
	require.NoError(t, err)
	assert.Len(t, env.TrajectoryInfo.TypeMapping, 3)
	assert.Equal(t, 3, env.TrajectoryInfo.TotalSteps)
}

func TestMergeCommand_TimestepMismatch(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[]`)
	base := writeInput(t, dir, "base.simularium", 3, 1)
	incoming := writeInput(t, dir, "incoming.simularium", 5, 1)

	_, err := execute(t, "merge", base, incoming, "--name", "m", "--config-dir", dir)

	assert.ErrorContains(t, err, "timesteps in data to add differ from existing")
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[]`)
	input := writeInput(t, dir, "walk.simularium", 4, 5, 9)

	out, err := execute(t, "info", input, "--config-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "walk")
	assert.Regexp(t, `Timesteps:\s+4`, out)
	assert.Regexp(t, `Max agents:\s+2`, out)
	assert.Contains(t, out, "20 x 20 x 20 10 nm")
	assert.Contains(t, out, "type-9")
}

func TestMissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "walk.simularium", 2, 1)
	t.Chdir(dir)

	out, err := execute(t, "info", input, "--config-dir", filepath.Join(dir, "nowhere"))

	require.NoError(t, err)
	assert.Contains(t, out, "walk")
}

func TestTrajectoryName(t *testing.T) {
	tests := map[string]string{
		"cytosim.simularium":         "cytosim",
		"/data/run1.simularium.gz":   "run1",
		"run2.simularium.zst":        "run2",
		"out/readdy.json.gz":         "readdy",
		filepath.Join("a", "b.json"): "b",
		"plain":                      "plain",
	}

	for in, want := range tests {
		assert.Equal(t, want, trajectoryName(in), in)
	}
}
