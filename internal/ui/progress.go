package ui

import (
	"io"
	"os"
	"sync"

	"github.com/fenilsonani/file-organizer/internal/progress"
	uiutils "github.com/fenilsonani/file-organizer/internal/ui/utils"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// LiveProgress draws a progress bar for a running organize pass from the
// updates published on a progress.Reporter
type LiveProgress struct {
	mu        sync.Mutex
	writer    io.Writer
	enabled   bool
	termWidth int
	bar       *progressbar.ProgressBar
	phase     progress.Phase

	reporter *progress.Reporter
	updates  <-chan *progress.Progress
	wg       sync.WaitGroup
}

// NewLiveProgress creates a live progress display writing to w
func NewLiveProgress(w io.Writer, enabled bool) *LiveProgress {
	width := 80
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}

	return &LiveProgress{
		writer:    w,
		enabled:   enabled,
		termWidth: width,
	}
}

// Attach starts following r until Finish is called
func (lp *LiveProgress) Attach(r *progress.Reporter) {
	if !lp.enabled || r == nil {
		return
	}

	lp.reporter = r
	lp.updates = r.Subscribe()
	lp.wg.Add(1)
	go func() {
		defer lp.wg.Done()
		for p := range lp.updates {
			lp.Handle(p)
		}
	}()
}

// Finish stops following the reporter and clears the bar
func (lp *LiveProgress) Finish() {
	if lp.reporter != nil {
		lp.reporter.Unsubscribe(lp.updates)
		lp.wg.Wait()
		lp.reporter = nil
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.bar != nil {
		lp.bar.Finish()
		lp.bar = nil
	}
}

// Handle renders one progress snapshot
func (lp *LiveProgress) Handle(p *progress.Progress) {
	if p == nil {
		return
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	switch p.Phase {
	case progress.PhaseHashing:
		if lp.bar == nil || lp.phase != progress.PhaseHashing {
			lp.newBar(-1, "Hashing files")
		}
		lp.phase = p.Phase
		lp.bar.Describe("Hashing " + lp.shorten(p.CurrentFile))
		lp.bar.Set(p.Processed)

	case progress.PhaseRelocating:
		if p.Total <= 0 {
			return
		}
		if lp.bar == nil || lp.phase != progress.PhaseRelocating {
			lp.newBar(p.Total, "Moving files")
		}
		lp.phase = p.Phase
		lp.bar.Describe("Moving " + lp.shorten(p.CurrentFile))
		lp.bar.Set(p.Processed)

	case progress.PhaseComplete:
		if lp.bar != nil {
			lp.bar.Describe("Done")
			if p.Total > 0 {
				lp.bar.Set(p.Total)
			}
			lp.bar.Finish()
			lp.bar = nil
		}
		lp.phase = p.Phase

	case progress.PhaseCancelled, progress.PhaseError:
		if lp.bar != nil {
			lp.bar.Exit()
			lp.bar = nil
		}
		lp.phase = p.Phase
	}
}

func (lp *LiveProgress) newBar(max int, description string) {
	if lp.bar != nil {
		lp.bar.Finish()
	}

	width := 40
	if lp.termWidth/3 < width {
		width = lp.termWidth / 3
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(lp.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(width),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			io.WriteString(lp.writer, "\n")
		}),
	}
	if max < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	} else {
		opts = append(opts, progressbar.OptionShowElapsedTimeOnFinish())
	}

	lp.bar = progressbar.NewOptions(max, opts...)
}

func (lp *LiveProgress) shorten(path string) string {
	width := lp.termWidth / 3
	if width < 10 {
		width = 10
	}
	return uiutils.TruncatePath(path, width)
}
