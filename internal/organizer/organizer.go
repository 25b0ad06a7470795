// Package organizer relocates the files of a directory into subfolders by
// extension category, modification month or duplicate content.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fenilsonani/file-organizer/internal/category"
	"github.com/fenilsonani/file-organizer/internal/config"
	"github.com/fenilsonani/file-organizer/internal/progress"
	"github.com/fenilsonani/file-organizer/pkg/utils"
	"github.com/ncruces/go-strftime"
)

// Organizer runs policy passes over a root directory. Its configuration is
// fixed at construction and never reloaded during a run.
type Organizer struct {
	mapping          category.Mapping
	dateFormat       string
	duplicatesFolder string
	algorithm        utils.Algorithm
	lockDir          string
	logger           *slog.Logger
	progress         *progress.Reporter
}

// New creates an Organizer from cfg. A nil cfg uses the built-in defaults.
func New(cfg *config.Config) *Organizer {
	if cfg == nil {
		cfg = config.GetDefault()
	}

	algo, err := utils.ParseAlgorithm(cfg.HashAlgorithm)
	if err != nil {
		algo = utils.DefaultAlgorithm
	}

	dateFormat := cfg.DateFormat
	if dateFormat == "" {
		dateFormat = config.DefaultDateFormat
	}

	dupFolder := cfg.DuplicatesFolder
	if dupFolder == "" {
		dupFolder = config.DefaultDuplicatesFolder
	}

	return &Organizer{
		mapping:          cfg.FileTypes.Clone(),
		dateFormat:       dateFormat,
		duplicatesFolder: dupFolder,
		algorithm:        algo,
		lockDir:          os.TempDir(),
		logger:           slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used for per-file reporting
func (o *Organizer) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o.logger = logger
}

// SetProgressReporter sets a progress reporter; nil disables reporting
func (o *Organizer) SetProgressReporter(pr *progress.Reporter) {
	o.progress = pr
}

// SetLockDir changes where root lock files are created
func (o *Organizer) SetLockDir(dir string) {
	o.lockDir = dir
}

// Run dispatches to the driver for policy
func (o *Organizer) Run(ctx context.Context, policy Policy, root string) (*Report, error) {
	switch policy {
	case PolicyType:
		return o.ByType(ctx, root)
	case PolicyDate:
		return o.ByDate(ctx, root)
	case PolicyDuplicates:
		return o.FindDuplicates(ctx, root)
	default:
		return nil, fmt.Errorf("unknown organize method: %q", policy)
	}
}

// ByType moves each file directly inside root into root/<category>.
func (o *Organizer) ByType(ctx context.Context, root string) (*Report, error) {
	return o.organizeTopLevel(ctx, PolicyType, root, func(rec FileRecord) string {
		return category.Classify(rec.Path, o.mapping)
	})
}

// ByDate moves each file directly inside root into a folder named after its
// modification time, "2024-03" with the default date format.
func (o *Organizer) ByDate(ctx context.Context, root string) (*Report, error) {
	return o.organizeTopLevel(ctx, PolicyDate, root, func(rec FileRecord) string {
		return DateBucket(rec.ModTime, o.dateFormat)
	})
}

// DateBucket formats t with a strftime layout
func DateBucket(t time.Time, layout string) string {
	return strftime.Format(layout, t)
}

// FindDuplicates moves every file whose content matches an earlier file in the
// tree into root/duplicates. Originals stay where they are.
func (o *Organizer) FindDuplicates(ctx context.Context, root string) (*Report, error) {
	root, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	unlock, err := o.lockRoot(root)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := newReport(PolicyDuplicates, root)
	o.logger.Info("searching for duplicates", "root", root, "algorithm", string(o.algorithm))
	o.report(report, progress.PhaseScanning, "", 0, -1)

	scan, err := o.scanDuplicates(ctx, root, report.StartTime)
	if scan != nil {
		report.Scanned = scan.Hashed
		report.ScanErrors = scan.Errors
		report.DuplicateSets = scan.Sets
		report.DuplicateCount = scan.DuplicateCount
	}
	if err != nil {
		if isCancel(err) {
			return o.cancel(report, err)
		}
		return nil, o.fail(report, err)
	}

	destDir := filepath.Join(root, o.duplicatesFolder)
	var items []planned
	for _, set := range scan.Sets {
		for _, dup := range set.Duplicates {
			items = append(items, planned{rec: dup, key: set.Digest, destDir: destDir})
		}
	}

	return o.relocateAll(ctx, report, items)
}

type planned struct {
	rec     FileRecord
	key     string
	destDir string
}

func (o *Organizer) organizeTopLevel(ctx context.Context, policy Policy, root string, keyFn func(FileRecord) string) (*Report, error) {
	root, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	unlock, err := o.lockRoot(root)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := newReport(policy, root)
	o.logger.Info("organizing directory", "root", root, "policy", string(policy))
	o.report(report, progress.PhaseScanning, "", 0, -1)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, o.fail(report, fmt.Errorf("failed to read %s: %w", root, err))
	}

	isLock := o.lockFilter()
	var items []planned
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if isLock(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			fileErr := CategorizeError(OpStat, path, err)
			report.ScanErrors = append(report.ScanErrors, fileErr)
			o.logger.Warn("failed to stat file", "path", path, "error", err)
			continue
		}

		rec := newRecord(path, info)
		key := keyFn(rec)
		items = append(items, planned{rec: rec, key: key, destDir: filepath.Join(root, key)})
	}
	report.Scanned = len(items)

	return o.relocateAll(ctx, report, items)
}

// relocateAll moves each planned file, recording every outcome. A failure is
// logged and the pass continues; cancellation stops it between files and keeps
// whatever has already moved.
func (o *Organizer) relocateAll(ctx context.Context, report *Report, items []planned) (*Report, error) {
	failed := 0
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return o.cancel(report, err)
		}

		o.report(report, progress.PhaseRelocating, it.rec.Path, i, len(items))

		res := MoveResult{Source: it.rec.Path, Key: it.key, Size: it.rec.Size}
		dest, err := Relocate(it.rec.Path, it.destDir)
		if err != nil {
			res.Err = CategorizeError(OpMove, it.rec.Path, err)
			failed++
			o.logger.Warn("failed to move file",
				"file", it.rec.Name,
				"path", it.rec.Path,
				"reason", res.Err.Reason.String(),
				"error", err)
		} else {
			res.Destination = dest
			o.logger.Debug("moved file", "file", it.rec.Name, "to", relTo(report.Root, dest))
		}
		report.Results = append(report.Results, res)
	}

	report.Duration = time.Since(report.StartTime)
	o.report(report, progress.PhaseComplete, "", len(items), len(items))
	o.logger.Info("organize complete",
		"policy", string(report.Policy),
		"moved", len(items)-failed,
		"failed", failed,
		"duration", report.Duration.Round(time.Millisecond).String())

	return report, nil
}

func (o *Organizer) cancel(report *Report, err error) (*Report, error) {
	report.Cancelled = true
	report.Duration = time.Since(report.StartTime)
	o.report(report, progress.PhaseCancelled, "", len(report.Results), -1)
	o.logger.Warn("organize cancelled", "policy", string(report.Policy), "moved", len(report.Moved()))
	return report, err
}

func (o *Organizer) fail(report *Report, err error) error {
	o.progress.Update(&progress.Progress{
		Phase:     progress.PhaseError,
		Policy:    string(report.Policy),
		StartTime: report.StartTime,
		Error:     err,
	})
	o.logger.Error("organize failed", "policy", string(report.Policy), "root", report.Root, "error", err)
	return err
}

func (o *Organizer) report(r *Report, phase progress.Phase, current string, processed, total int) {
	if o.progress == nil {
		return
	}
	moved, failed := 0, 0
	for _, res := range r.Results {
		if res.OK() {
			moved++
		} else {
			failed++
		}
	}
	o.progress.Update(&progress.Progress{
		Phase:       phase,
		Policy:      string(r.Policy),
		CurrentFile: current,
		Processed:   processed,
		Total:       total,
		Moved:       moved,
		Failed:      failed,
		StartTime:   r.StartTime,
	})
}

// resolveRoot makes root absolute, follows symlinks and checks it is a directory.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid directory %q: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("directory does not exist: %s: %w", root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("directory does not exist: %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", root)
	}
	return resolved, nil
}

func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
