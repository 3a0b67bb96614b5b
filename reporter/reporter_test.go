//go:build unit
// +build unit

package reporter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/grover"
	"github.com/oqtopus-team/grover-lab/truss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func succeededRun(iterations int) *core.RunData {
	rd := core.NewRunData()
	rd.ID = fmt.Sprintf("run-%d", iterations)
	rd.Problem = grover.NonOverlappingProblem
	rd.Arity = 4
	rd.Iterations = iterations
	rd.Shots = 100
	rd.Status = core.SUCCEEDED
	rd.Result.Counts = core.Counts{"1100": 45, "0011": 50, "0101": 5}
	rd.Result.Valid = []string{"0011", "1100"}
	rd.Result.SuccessRate = 0.95
	rd.Result.ExpectedSuccessRate = 0.9453125
	return rd
}

func TestTextReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewTextReporter(&out)
	require.Nil(t, r.Setup(&core.Conf{}))

	p, err := grover.LookupProblem(grover.NonOverlappingProblem)
	require.Nil(t, err)
	r.Banner(p)
	require.Nil(t, r.Report(succeededRun(2)))

	text := out.String()
	assert.Contains(t, text, "Valid states: 0011, 1100")
	assert.Contains(t, text, "Running with 2 iterations:")
	assert.Contains(t, text, "Results from 100 measurements:")
	assert.Contains(t, text, "[_][_][P][P]")
	assert.Contains(t, text, "50.0%")
	assert.Contains(t, text, "VALID")
	assert.Contains(t, text, "invalid")
	assert.Contains(t, text, "Success rate: 95.0% (expected 94.5%)")
	// most frequent first
	assert.Less(t, bytes.Index(out.Bytes(), []byte("[_][_][P][P]")), bytes.Index(out.Bytes(), []byte("[P][P][_][_]")))
}

func TestTextReporterFailedRun(t *testing.T) {
	var out bytes.Buffer
	r := NewTextReporter(&out)
	rd := core.NewRunData()
	rd.Iterations = 1
	core.SetFailureWithErrorToRunData(rd, fmt.Errorf("simulator is down"))

	require.Nil(t, r.Report(rd))
	assert.Contains(t, out.String(), "Running with 1 iteration:")
	assert.Contains(t, out.String(), "simulator is down")
}

func TestTextReporterNeedsOutput(t *testing.T) {
	assert.EqualError(t, NewTextReporter(nil).Setup(&core.Conf{}), "text reporter has no output")
}

func TestJSONReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewJSONReporter(&out)
	require.Nil(t, r.Setup(&core.Conf{}))
	rd := succeededRun(1)
	rd.QASM = "OPENQASM 3.0;"
	require.Nil(t, r.Report(rd))

	assert.Contains(t, out.String(), `"id": "run-1"`)
	assert.Contains(t, out.String(), `"status": "succeeded"`)
	assert.Contains(t, out.String(), `"qasm": ""`)

	var got struct {
		Result struct {
			Counts core.Counts `json:"counts"`
		} `json:"result"`
	}
	require.Nil(t, jsoniter.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, core.Counts{"0011": 50, "0101": 5, "1100": 45}, got.Result.Counts)
}

func TestPlotReporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	start := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	r := NewPlotReporter(start)
	require.Nil(t, r.Setup(&core.Conf{OutputDir: dir}))

	failed := core.NewRunData()
	failed.Status = core.FAILED
	for _, rd := range []*core.RunData{succeededRun(1), succeededRun(2), failed} {
		require.Nil(t, r.Report(rd))
	}

	var buf bytes.Buffer
	require.Nil(t, r.Render(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))

	r.TearDown()
	assert.Equal(t, filepath.Join(dir, "grover_plot_20240305_140709.png"), r.Saved())
	content, err := os.ReadFile(r.Saved())
	require.Nil(t, err)
	assert.True(t, bytes.HasPrefix(content, pngSignature))
}

func TestPlotReporterSkipsWhenEmptyOrDisabled(t *testing.T) {
	dir := t.TempDir()
	empty := NewPlotReporter(time.Now())
	require.Nil(t, empty.Setup(&core.Conf{OutputDir: dir}))
	empty.TearDown()
	assert.Equal(t, "", empty.Saved())
	assert.EqualError(t, empty.Render(&bytes.Buffer{}), "no runs to plot")

	disabled := NewPlotReporter(time.Now())
	require.Nil(t, disabled.Setup(&core.Conf{OutputDir: dir, DisablePlot: true}))
	require.Nil(t, disabled.Report(succeededRun(1)))
	disabled.TearDown()
	assert.Equal(t, "", disabled.Saved())
	entries, err := os.ReadDir(dir)
	require.Nil(t, err)
	assert.Empty(t, entries)
}

func TestMulti(t *testing.T) {
	first := &core.RecordingReporter{Err: fmt.Errorf("first failed")}
	second := &core.RecordingReporter{}
	m := NewMulti(first, second)
	require.Nil(t, m.Setup(&core.Conf{}))

	err := m.Report(succeededRun(1))
	assert.EqualError(t, err, "first failed")
	assert.Len(t, first.Runs(), 1)
	assert.Len(t, second.Runs(), 1)
	m.TearDown()
}

func TestPlotSettingApply(t *testing.T) {
	conf := &core.Conf{OutputDir: "./shares/results"}
	NewPlotSetting().Apply(conf)
	assert.Equal(t, "./shares/results", conf.OutputDir)
	assert.False(t, conf.DisablePlot)

	PlotSetting{OutputDir: "/tmp/plots", Disable: true}.Apply(conf)
	assert.Equal(t, "/tmp/plots", conf.OutputDir)
	assert.True(t, conf.DisablePlot)
}

func TestTextReporterRanking(t *testing.T) {
	var out bytes.Buffer
	r := NewTextReporter(&out)
	r.Ranking(truss.Rank(truss.Designs()))

	text := out.String()
	assert.Contains(t, text, "Design ranking:")
	assert.Contains(t, text, "Design 7")
	assert.Contains(t, text, "[4, 140, 210]")
	// design 7 has the lowest fitness, design 6 the highest
	assert.Less(t, strings.Index(text, "Design 7"), strings.Index(text, "Design 2"))
	assert.Less(t, strings.Index(text, "Design 1 "), strings.Index(text, "Design 6"))
}

func TestPlotReporterSaveRemovesBrokenImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := NewPlotReporter(time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local))
	require.Nil(t, r.Setup(&core.Conf{OutputDir: dir}))
	rd := succeededRun(1)
	rd.Result.Counts = core.Counts{"01": 1, "001": 1}
	require.Nil(t, r.Report(rd))

	path, err := r.Save()
	assert.ErrorContains(t, err, "different length of keys in counts")
	assert.Empty(t, path)
	assert.Empty(t, r.Saved())
	entries, err := os.ReadDir(dir)
	require.Nil(t, err)
	assert.Empty(t, entries)
}
