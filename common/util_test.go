//go:build unit
// +build unit

package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestampedPath(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{
			name:    "run log",
			pattern: "grover_results_%Y%m%d_%H%M%S.log",
			want:    filepath.Join("out", "grover_results_20240305_140709.log"),
		},
		{
			name:    "no verbs",
			pattern: "surface.png",
			want:    filepath.Join("out", "surface.png"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimestampedPath("out", tt.pattern, ts)
			assert.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	assert.Nil(t, EnsureWritableDir(dir))
	info, err := os.Stat(dir)
	assert.Nil(t, err)
	assert.True(t, info.IsDir())
}

func TestIsDirWritableNotExist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	assert.EqualError(t, IsDirWritable(dir), "directory does not exist: "+dir)
}

func TestReadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setting.toml")
	assert.Nil(t, os.WriteFile(path, []byte("[com.search]\nshots = 10\n"), 0o644))
	s, err := ReadSettingsFile(path)
	assert.Nil(t, err)
	assert.Equal(t, "[com.search]\nshots = 10\n", s)

	_, err = ReadSettingsFile(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}
