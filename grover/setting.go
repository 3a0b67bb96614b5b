package grover

import (
	"fmt"

	"github.com/oqtopus-team/grover-lab/core"
)

const SearchSettingKey = "search"

// SearchSetting is read from [com.search].
type SearchSetting struct {
	Problem    string `toml:"problem"`
	Shots      int    `toml:"shots"`
	Iterations []int  `toml:"iterations"`
	Optimal    bool   `toml:"optimal"`
}

func NewSearchSetting() SearchSetting {
	return SearchSetting{
		Problem:    NonOverlappingProblem,
		Shots:      100,
		Iterations: []int{1, 2, 3},
	}
}

// RunParams expands the setting into one parameter set per run. Optimal
// mode yields a single run.
func (s SearchSetting) RunParams() ([]*core.RunParam, error) {
	if _, err := LookupProblem(s.Problem); err != nil {
		return nil, err
	}
	if s.Optimal {
		p := &core.RunParam{Problem: s.Problem, Shots: s.Shots, Optimal: true}
		if err := core.ValidateRunParam(p); err != nil {
			return nil, err
		}
		return []*core.RunParam{p}, nil
	}
	if len(s.Iterations) == 0 {
		return nil, fmt.Errorf("no iteration counts to run")
	}
	params := make([]*core.RunParam, 0, len(s.Iterations))
	for _, k := range s.Iterations {
		p := &core.RunParam{Problem: s.Problem, Iterations: k, Shots: s.Shots}
		if err := core.ValidateRunParam(p); err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// NewSweep builds one job per parameter set of s.
func NewSweep(s SearchSetting, jc *core.JobContext) ([]*GroverJob, error) {
	params, err := s.RunParams()
	if err != nil {
		return nil, err
	}
	p, err := LookupProblem(s.Problem)
	if err != nil {
		return nil, err
	}
	jobs := make([]*GroverJob, 0, len(params))
	for _, param := range params {
		j, err := NewJob(p, param, jc)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
