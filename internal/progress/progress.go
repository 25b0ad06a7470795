package progress

import (
	"fmt"
	"sync"
	"time"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning   Phase = "scanning"
	PhaseHashing    Phase = "hashing"
	PhaseRelocating Phase = "relocating"
	PhaseComplete   Phase = "complete"
	PhaseCancelled  Phase = "cancelled"
	PhaseError      Phase = "error"
)

// Progress is a snapshot of a running policy pass.
// Total is -1 while the number of candidates is not yet known.
type Progress struct {
	Phase       Phase
	Policy      string
	CurrentFile string
	Processed   int
	Total       int
	Moved       int
	Failed      int
	StartTime   time.Time
	Error       error
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	current   *Progress
	mu        sync.RWMutex
	listeners []chan *Progress
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan *Progress, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan *Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan *Progress, 10)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan *Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Update stores the snapshot and notifies listeners. Slow listeners miss
// intermediate updates rather than block the caller.
func (r *Reporter) Update(update *Progress) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = update
	for _, listener := range r.listeners {
		select {
		case listener <- update:
		default:
		}
	}
}

// Current returns the latest snapshot
func (r *Reporter) Current() *Progress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Format returns a human-readable progress line
func Format(p *Progress) string {
	if p == nil {
		return "Preparing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("Scanning... %d files found [%s]", p.Processed, FormatDuration(elapsed))
	case PhaseHashing:
		return fmt.Sprintf("Hashing... %d files [%s]", p.Processed, FormatDuration(elapsed))
	case PhaseRelocating:
		percentage := 0
		if p.Total > 0 {
			percentage = (p.Processed * 100) / p.Total
		}

		eta := ""
		if p.Processed > 0 && p.Total > p.Processed {
			avgTime := elapsed / time.Duration(p.Processed)
			remaining := time.Duration(p.Total-p.Processed) * avgTime
			eta = fmt.Sprintf(" ETA: %s", FormatDuration(remaining))
		}

		return fmt.Sprintf("Moving... %d/%d files (%d%%), %d failed%s",
			p.Processed, p.Total, percentage, p.Failed, eta)
	case PhaseComplete:
		return fmt.Sprintf("Done: %d files moved, %d failed in %s",
			p.Moved, p.Failed, FormatDuration(elapsed))
	case PhaseCancelled:
		return fmt.Sprintf("Cancelled after %d files moved", p.Moved)
	case PhaseError:
		return fmt.Sprintf("Error: %v", p.Error)
	default:
		return "Preparing..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
