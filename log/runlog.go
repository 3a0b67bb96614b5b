package log

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	rotate "github.com/lestrrat-go/file-rotatelogs"
	"github.com/oqtopus-team/grover-lab/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	RunLogPattern  = "grover_results_%Y%m%d_%H%M%S.log"
	RunLogLinkName = "grover_results_latest.log"
)

// fixedClock pins the rotator to the start of the run, so one run always
// writes one file.
type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// RunLog is the results log of one run. Everything written to Writer goes
// to stdout and to a file named after the start time of the run.
type RunLog struct {
	path    string
	rotator *rotate.RotateLogs
	writer  io.Writer
	logger  *zap.Logger
}

// OpenRunLog creates dir when needed and opens the log for a run started
// at start. A nil stdout writes to the file only.
func OpenRunLog(dir string, start time.Time, stdout io.Writer) (*RunLog, error) {
	if err := common.EnsureWritableDir(dir); err != nil {
		return nil, err
	}
	path, err := common.TimestampedPath(dir, RunLogPattern, start)
	if err != nil {
		return nil, err
	}
	rotator, err := rotate.New(
		filepath.Join(dir, RunLogPattern),
		rotate.WithClock(fixedClock(start)),
		rotate.WithRotationTime(time.Second),
		rotate.WithLinkName(filepath.Join(dir, RunLogLinkName)))
	if err != nil {
		return nil, fmt.Errorf("failed to open the run log in %s. Reason:%s", dir, err)
	}
	rl := &RunLog{path: path, rotator: rotator, writer: rotator}
	if stdout != nil {
		rl.writer = io.MultiWriter(stdout, rotator)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.TimeKey = "timestamp"
	rl.logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(rotator),
		zap.InfoLevel))
	return rl, nil
}

func (r *RunLog) Path() string {
	return r.path
}

func (r *RunLog) Writer() io.Writer {
	return r.writer
}

// Logger writes structured lines to the run log file only.
func (r *RunLog) Logger() *zap.Logger {
	return r.logger
}

// Close flushes the logger and releases the file.
func (r *RunLog) Close() error {
	_ = r.logger.Sync()
	return r.rotator.Close()
}
