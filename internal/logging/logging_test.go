package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

func TestLogFilePath(t *testing.T) {
	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "simconvlogs",
			appName: "simconv",
			want:    filepath.Join("simconvlogs", "simconv.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./simconvlogs",
			appName: "simconv",
			want:    filepath.Join(".", "simconvlogs", "simconv.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "simconv"),
			appName: "simconv",
			want:    filepath.Join("/var", "log", "simconv", "simconv.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, tt.appName, testTime))
		})
	}
}

func TestOpenLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := OpenLogFile(dir, "simconv", testTime)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(LogFilePath(dir, "simconv", testTime))
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
