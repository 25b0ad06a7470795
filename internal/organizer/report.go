package organizer

import (
	"sort"
	"time"
)

// MoveResult is the outcome of relocating one file
type MoveResult struct {
	Source      string     `json:"source" yaml:"source"`
	Destination string     `json:"destination,omitempty" yaml:"destination,omitempty"`
	Key         string     `json:"key" yaml:"key"`
	Size        int64      `json:"size" yaml:"size"`
	Err         *FileError `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the file was moved
func (r MoveResult) OK() bool {
	return r.Err == nil
}

// Report aggregates the per-file results of one policy pass
type Report struct {
	Policy         Policy         `json:"policy" yaml:"policy"`
	Root           string         `json:"root" yaml:"root"`
	StartTime      time.Time      `json:"start_time" yaml:"start_time"`
	Duration       time.Duration  `json:"duration" yaml:"duration"`
	Scanned        int            `json:"scanned" yaml:"scanned"`
	Results        []MoveResult   `json:"results" yaml:"results"`
	ScanErrors     []*FileError   `json:"scan_errors,omitempty" yaml:"scan_errors,omitempty"`
	DuplicateSets  []DuplicateSet `json:"duplicate_sets,omitempty" yaml:"duplicate_sets,omitempty"`
	DuplicateCount int            `json:"duplicate_count" yaml:"duplicate_count"`
	Cancelled      bool           `json:"cancelled" yaml:"cancelled"`
}

func newReport(policy Policy, root string) *Report {
	return &Report{
		Policy:    policy,
		Root:      root,
		StartTime: time.Now(),
		Results:   []MoveResult{},
	}
}

// Moved returns the results that succeeded
func (r *Report) Moved() []MoveResult {
	var out []MoveResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results that did not move
func (r *Report) Failed() []MoveResult {
	var out []MoveResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Errors returns scan errors followed by move errors
func (r *Report) Errors() []*FileError {
	errs := append([]*FileError(nil), r.ScanErrors...)
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// MovedSize sums the sizes of moved files
func (r *Report) MovedSize() int64 {
	var total int64
	for _, res := range r.Results {
		if res.OK() {
			total += res.Size
		}
	}
	return total
}

// KeyCount is the number of files moved under one key
type KeyCount struct {
	Key   string
	Count int
	Size  int64
}

// GroupByKey counts moved files per destination key, largest group first
func (r *Report) GroupByKey() []KeyCount {
	index := make(map[string]int)
	var groups []KeyCount
	for _, res := range r.Results {
		if !res.OK() {
			continue
		}
		i, ok := index[res.Key]
		if !ok {
			i = len(groups)
			index[res.Key] = i
			groups = append(groups, KeyCount{Key: res.Key})
		}
		groups[i].Count++
		groups[i].Size += res.Size
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
