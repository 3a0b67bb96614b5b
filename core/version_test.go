//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name               string
		conf               *Conf
		versionByBuildFlag string
		wantVersion        string
	}{
		{
			name:               "build flag wins over config",
			conf:               &Conf{Version: "v0.1.0"},
			versionByBuildFlag: "v0.2.0",
			wantVersion:        "v0.2.0",
		},
		{
			name:        "config only",
			conf:        &Conf{Version: "v0.1.0"},
			wantVersion: "v0.1.0",
		},
		{
			name:        "nothing set",
			conf:        &Conf{},
			wantVersion: NoVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.conf, tt.versionByBuildFlag)
			assert.Equal(t, tt.wantVersion, Version)
		})
	}
}
