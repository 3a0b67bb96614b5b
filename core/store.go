package core

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStore keeps clones of run data for the lifetime of the process.
type MemoryStore struct {
	runs map[string]*RunData
	mu   sync.RWMutex
}

func (s *MemoryStore) Setup(c *Conf) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*RunData)
	return nil
}

func (s *MemoryStore) Insert(rd *RunData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[rd.ID]; ok {
		return fmt.Errorf("run(%s) already exists", rd.ID)
	}
	s.runs[rd.ID] = rd.Clone()
	return nil
}

func (s *MemoryStore) Get(id string) (*RunData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if val, ok := s.runs[id]; ok {
		return val.Clone(), nil
	}
	err := fmt.Errorf("not found %s", id)
	zap.L().Info("[MemoryStore]", zap.Error(err))
	return nil, err
}

func (s *MemoryStore) Update(rd *RunData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[rd.ID]; !ok {
		return fmt.Errorf("failed to find %s", rd.ID)
	}
	s.runs[rd.ID] = rd.Clone()
	return nil
}

// List returns the runs ordered by creation time.
func (s *MemoryStore) List() []*RunData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*RunData, 0, len(s.runs))
	for _, rd := range s.runs {
		out = append(out, rd.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := time.Time(out[i].Created), time.Time(out[j].Created)
		if ti.Equal(tj) {
			return out[i].Iterations < out[j].Iterations
		}
		return ti.Before(tj)
	})
	return out
}
