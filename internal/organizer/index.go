package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fenilsonani/file-organizer/internal/progress"
	"github.com/fenilsonani/file-organizer/pkg/utils"
)

// DuplicateSet is one original file plus every later file with the same digest.
// Equal digests are treated as equal content; bytes are not compared.
type DuplicateSet struct {
	Digest     string       `json:"digest" yaml:"digest"`
	Original   FileRecord   `json:"original" yaml:"original"`
	Duplicates []FileRecord `json:"duplicates" yaml:"duplicates"`
}

// Index maps a content digest to the first file seen with it. Entries are never
// removed; digests keep their first-seen order.
type Index struct {
	entries map[string]*DuplicateSet
	order   []string
}

// NewIndex creates an empty digest index
func NewIndex() *Index {
	return &Index{entries: make(map[string]*DuplicateSet)}
}

// Add records rec under digest. It returns the indexed original and whether rec
// is a duplicate of it.
func (ix *Index) Add(digest string, rec FileRecord) (FileRecord, bool) {
	if set, ok := ix.entries[digest]; ok {
		set.Duplicates = append(set.Duplicates, rec)
		return set.Original, true
	}

	ix.entries[digest] = &DuplicateSet{Digest: digest, Original: rec}
	ix.order = append(ix.order, digest)
	return rec, false
}

// Len returns the number of distinct digests
func (ix *Index) Len() int {
	return len(ix.order)
}

// Sets returns every digest with two or more files, in first-seen order
func (ix *Index) Sets() []DuplicateSet {
	var sets []DuplicateSet
	for _, digest := range ix.order {
		set := ix.entries[digest]
		if len(set.Duplicates) == 0 {
			continue
		}
		sets = append(sets, DuplicateSet{
			Digest:     set.Digest,
			Original:   set.Original,
			Duplicates: append([]FileRecord(nil), set.Duplicates...),
		})
	}
	return sets
}

// DuplicateScan is the result of walking a tree for duplicate content
type DuplicateScan struct {
	Sets           []DuplicateSet
	DuplicateCount int
	Hashed         int
	Errors         []*FileError
}

// ScanDuplicates hashes every regular file under root and groups them by digest.
// The duplicates folder directly under root is not descended into. A file that
// can't be read is recorded in Errors and the walk moves on.
func (o *Organizer) ScanDuplicates(ctx context.Context, root string) (*DuplicateScan, error) {
	root, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	return o.scanDuplicates(ctx, root, time.Now())
}

func (o *Organizer) scanDuplicates(ctx context.Context, root string, start time.Time) (*DuplicateScan, error) {
	scan := &DuplicateScan{}
	index := NewIndex()
	skip := filepath.Join(root, o.duplicatesFolder)
	isLock := o.lockFilter()

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return err
			}
			fileErr := CategorizeError(OpWalk, path, err)
			scan.Errors = append(scan.Errors, fileErr)
			o.logger.Warn("skipping unreadable entry", "path", path, "reason", fileErr.Reason.String(), "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == skip {
				o.logger.Debug("skipping duplicates folder", "path", path)
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isLock(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			fileErr := CategorizeError(OpStat, path, err)
			scan.Errors = append(scan.Errors, fileErr)
			o.logger.Warn("failed to stat file", "path", path, "error", err)
			return nil
		}

		digest, err := utils.HashFile(path, o.algorithm)
		if err != nil {
			fileErr := CategorizeError(OpHash, path, err)
			scan.Errors = append(scan.Errors, fileErr)
			o.logger.Warn("failed to hash file", "file", d.Name(), "path", path, "reason", fileErr.Reason.String(), "error", err)
			return nil
		}

		rec := newRecord(path, info)
		if original, dup := index.Add(digest, rec); dup {
			o.logger.Debug("duplicate found", "path", path, "original", original.Path, "digest", digest)
		}
		scan.Hashed++

		o.progress.Update(&progress.Progress{
			Phase:       progress.PhaseHashing,
			Policy:      string(PolicyDuplicates),
			CurrentFile: path,
			Processed:   scan.Hashed,
			Total:       -1,
			Failed:      len(scan.Errors),
			StartTime:   start,
		})

		return nil
	})

	scan.Sets = index.Sets()
	for _, set := range scan.Sets {
		scan.DuplicateCount += len(set.Duplicates)
	}

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return scan, walkErr
		}
		return scan, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	return scan, nil
}
