package db

import (
	"fmt"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/grover-lab/common"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

const RunsPattern = "grover_runs_%Y%m%d_%H%M%S.json"

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore is a MemoryStore that rewrites every stored run into one JSON
// document after each change.
type FileStore struct {
	core.MemoryStore
	start time.Time
	path  string
	mu    sync.Mutex
}

func NewFileStore(start time.Time) *FileStore {
	return &FileStore{start: start}
}

func (s *FileStore) Setup(c *core.Conf) error {
	zap.L().Debug("Setting up File Store")
	if err := s.MemoryStore.Setup(c); err != nil {
		return err
	}
	if err := common.EnsureWritableDir(c.OutputDir); err != nil {
		return err
	}
	path, err := common.TimestampedPath(c.OutputDir, RunsPattern, s.start)
	if err != nil {
		return err
	}
	s.path = path
	zap.L().Info(fmt.Sprintf("[FileStore] storing runs in %s", path))
	return nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Insert(rd *core.RunData) error {
	if err := s.MemoryStore.Insert(rd); err != nil {
		return err
	}
	return s.flush()
}

func (s *FileStore) Update(rd *core.RunData) error {
	if err := s.MemoryStore.Update(rd); err != nil {
		return err
	}
	return s.flush()
}

func (s *FileStore) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := jsonIter.Marshal(s.List())
	if err != nil {
		return fmt.Errorf("failed to marshal runs. Reason:%s", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Pretty(b), 0o644); err != nil {
		zap.L().Error(fmt.Sprintf("[FileStore] failed to write %s/reason:%s", tmp, err))
		return err
	}
	return os.Rename(tmp, s.path)
}
