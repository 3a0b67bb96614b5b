//go:build unit
// +build unit

package log

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oqtopus-team/grover-lab/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	start := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	var stdout bytes.Buffer

	rl, err := OpenRunLog(dir, start, &stdout)
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "grover_results_20240305_140709.log"), rl.Path())

	fmt.Fprintln(rl.Writer(), "Running with 1 iteration")
	rl.Logger().Info("run finished", zap.String("problem", "exactly-two"))
	require.Nil(t, rl.Close())

	assert.Equal(t, "Running with 1 iteration\n", stdout.String())
	content, err := os.ReadFile(rl.Path())
	require.Nil(t, err)
	assert.Contains(t, string(content), "Running with 1 iteration\n")
	assert.Contains(t, string(content), "run finished")
	assert.Contains(t, string(content), `"problem": "exactly-two"`)

	target, err := os.Readlink(filepath.Join(dir, RunLogLinkName))
	require.Nil(t, err)
	assert.Equal(t, "grover_results_20240305_140709.log", filepath.Base(target))
}

func TestRunLogWithoutStdout(t *testing.T) {
	dir := t.TempDir()
	rl, err := OpenRunLog(dir, time.Now(), nil)
	require.Nil(t, err)
	fmt.Fprint(rl.Writer(), "only in the file")
	require.Nil(t, rl.Close())

	content, err := os.ReadFile(rl.Path())
	require.Nil(t, err)
	assert.Equal(t, "only in the file", string(content))
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		conf    *core.Conf
		wantErr string
	}{
		{
			name: "stdout only",
			conf: &core.Conf{LogLevel: "debug", DevMode: true},
		},
		{
			name: "file",
			conf: &core.Conf{LogLevel: "warn", EnableFileLog: true, LogDir: dir, LogRotationMaxDays: 1, DisableStdoutLog: true},
		},
		{
			name:    "missing log dir",
			conf:    &core.Conf{EnableFileLog: true, LogDir: filepath.Join(dir, "missing")},
			wantErr: fmt.Sprintf("directory:%s is not found", filepath.Join(dir, "missing")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.conf)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.Nil(t, err)
			assert.NotNil(t, logger)
			assert.Equal(t, tt.conf.LogLevel == "debug", logger.Core().Enabled(zap.DebugLevel))
		})
	}
}
