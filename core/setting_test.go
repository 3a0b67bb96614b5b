//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

type testSearchSetting struct {
	Problem    string `toml:"problem"`
	Shots      int    `toml:"shots"`
	Iterations []int  `toml:"iterations"`
}

func defaultTestSearchSetting() testSearchSetting {
	return testSearchSetting{
		Problem:    "exactly-two",
		Shots:      100,
		Iterations: []int{1, 2, 3},
	}
}

func TestParseSetting(t *testing.T) {
	ResetSetting()
	RegisterSetting("search", defaultTestSearchSetting())
	in := heredoc.Doc(`
		[com.search]
		shots = 1000
		iterations = [2]
	`)
	assert.Nil(t, globalSetting.parseSetting(in))
	_, ok := GetComponentSetting("search")
	assert.True(t, ok)
	_, ok = GetComponentSetting("plot")
	assert.False(t, ok)
}

func TestDecodeComponentSetting(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want testSearchSetting
	}{
		{
			name: "empty file keeps defaults",
			in:   "",
			want: defaultTestSearchSetting(),
		},
		{
			name: "partial setting",
			in: heredoc.Doc(`
				[com.search]
				shots = 1000
			`),
			want: testSearchSetting{
				Problem:    "exactly-two",
				Shots:      1000,
				Iterations: []int{1, 2, 3},
			},
		},
		{
			name: "full setting",
			in: heredoc.Doc(`
				[com.search]
				problem = "non-overlapping"
				shots = 5000
				iterations = [1, 2]
			`),
			want: testSearchSetting{
				Problem:    "non-overlapping",
				Shots:      5000,
				Iterations: []int{1, 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetSetting()
			RegisterSetting("search", defaultTestSearchSetting())
			assert.Nil(t, globalSetting.parseSetting(tt.in))
			got, err := DecodeComponentSetting("search", defaultTestSearchSetting())
			assert.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSettingInvalidToml(t *testing.T) {
	ResetSetting()
	assert.Error(t, globalSetting.parseSetting("[com.search\nshots = 1"))
}
