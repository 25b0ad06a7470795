package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fenilsonani/file-organizer/internal/organizer"
	"github.com/fenilsonani/file-organizer/internal/progress"
	"github.com/fenilsonani/file-organizer/internal/ui/styles"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// Formats lists the supported output formats
func Formats() []OutputFormat {
	return []OutputFormat{FormatSummary, FormatTable, FormatJSON, FormatYAML}
}

// ParseFormat validates an output format name
func ParseFormat(s string) (OutputFormat, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the outcome of one organize pass
func (r *Reporter) Report(report *organizer.Report) error {
	if report == nil {
		return fmt.Errorf("no report to render")
	}

	switch r.format {
	case FormatTable:
		return r.reportTable(report)
	case FormatJSON:
		return r.reportJSON(report)
	case FormatYAML:
		return r.reportYAML(report)
	case FormatSummary:
		return r.reportSummary(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(report *organizer.Report) error {
	moved := report.Moved()
	failed := report.Failed()

	fmt.Fprintln(r.writer, styles.TitleStyle.Render("=== Organize Summary ==="))
	fmt.Fprintf(r.writer, "Method: %s\n", report.Policy.Label())
	fmt.Fprintf(r.writer, "Directory: %s\n", styles.FilePathStyle.Render(report.Root))
	fmt.Fprintf(r.writer, "Files examined: %d\n", report.Scanned)

	if report.Policy == organizer.PolicyDuplicates {
		fmt.Fprintf(r.writer, "Duplicates found: %d in %d sets\n", report.DuplicateCount, len(report.DuplicateSets))
	}

	fmt.Fprintf(r.writer, "Moved: %s, %s\n",
		styles.SuccessStyle.Render(plural(len(moved), "file")),
		styles.FileSizeStyle.Render(humanize.Bytes(uint64(report.MovedSize()))))
	if len(failed) > 0 {
		fmt.Fprintf(r.writer, "Failed: %s\n", styles.ErrorStyle.Render(plural(len(failed), "file")))
	}
	fmt.Fprintf(r.writer, "Duration: %s\n", progress.FormatDuration(report.Duration))

	if report.Cancelled {
		fmt.Fprintln(r.writer, styles.WarningStyle.Render("Interrupted: files moved before the interrupt stay moved"))
	}

	groups := report.GroupByKey()
	if len(groups) > 0 {
		fmt.Fprintf(r.writer, "\nBreakdown by %s:\n", keyLabel(report.Policy))
		for _, g := range groups {
			fmt.Fprintf(r.writer, "  %s: %s, %s\n",
				styles.CategoryStyle.Render(shortKey(report.Policy, g.Key)),
				plural(g.Count, "file"),
				humanize.Bytes(uint64(g.Size)))
		}
	}

	if summary := organizer.FormatErrorSummary(report.Errors()); summary != "" {
		fmt.Fprint(r.writer, summary)
	}

	return nil
}

func (r *Reporter) reportTable(report *organizer.Report) error {
	headers := []string{"File", "Destination", keyLabel(report.Policy), "Size", "Status"}
	rows := make([][]string, 0, len(report.Results))

	for _, res := range report.Results {
		dest := "-"
		status := "moved"
		if res.OK() {
			dest = relTo(report.Root, res.Destination)
		} else {
			status = res.Err.Reason.String()
		}
		rows = append(rows, []string{
			relTo(report.Root, res.Source),
			dest,
			shortKey(report.Policy, res.Key),
			humanize.Bytes(uint64(res.Size)),
			status,
		})
	}

	fmt.Fprintln(r.writer, renderTable(headers, rows, []text.Align{
		text.AlignLeft, text.AlignLeft, text.AlignLeft, text.AlignRight, text.AlignLeft,
	}))
	fmt.Fprintf(r.writer, "Total: %s moved, %s failed, %s\n",
		plural(len(report.Moved()), "file"),
		plural(len(report.Failed()), "file"),
		humanize.Bytes(uint64(report.MovedSize())))

	return nil
}

func renderTable(headers []string, rows [][]string, aligns []text.Align) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// document is the machine-readable form shared by json and yaml output
type document struct {
	Timestamp          string                   `json:"timestamp" yaml:"timestamp"`
	Policy             organizer.Policy         `json:"policy" yaml:"policy"`
	Root               string                   `json:"root" yaml:"root"`
	Duration           string                   `json:"duration" yaml:"duration"`
	Scanned            int                      `json:"scanned" yaml:"scanned"`
	Moved              int                      `json:"moved" yaml:"moved"`
	Failed             int                      `json:"failed" yaml:"failed"`
	MovedSize          int64                    `json:"moved_size" yaml:"moved_size"`
	MovedSizeFormatted string                   `json:"moved_size_formatted" yaml:"moved_size_formatted"`
	DuplicateCount     int                      `json:"duplicate_count,omitempty" yaml:"duplicate_count,omitempty"`
	DuplicateSets      []organizer.DuplicateSet `json:"duplicate_sets,omitempty" yaml:"duplicate_sets,omitempty"`
	Results            []organizer.MoveResult   `json:"results" yaml:"results"`
	Errors             []*organizer.FileError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Cancelled          bool                     `json:"cancelled" yaml:"cancelled"`
}

func newDocument(report *organizer.Report) document {
	results := report.Results
	if results == nil {
		results = []organizer.MoveResult{}
	}
	return document{
		Timestamp:          report.StartTime.Format(time.RFC3339),
		Policy:             report.Policy,
		Root:               report.Root,
		Duration:           report.Duration.Round(time.Millisecond).String(),
		Scanned:            report.Scanned,
		Moved:              len(report.Moved()),
		Failed:             len(report.Failed()),
		MovedSize:          report.MovedSize(),
		MovedSizeFormatted: humanize.Bytes(uint64(report.MovedSize())),
		DuplicateCount:     report.DuplicateCount,
		DuplicateSets:      report.DuplicateSets,
		Results:            results,
		Errors:             report.ScanErrors,
		Cancelled:          report.Cancelled,
	}
}

func (r *Reporter) reportJSON(report *organizer.Report) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(report))
}

func (r *Reporter) reportYAML(report *organizer.Report) error {
	encoder := yaml.NewEncoder(r.writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(newDocument(report))
}

// SaveToFile saves the report to a file
func SaveToFile(report *organizer.Report, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(report)
}

func keyLabel(p organizer.Policy) string {
	switch p {
	case organizer.PolicyDate:
		return "Month"
	case organizer.PolicyDuplicates:
		return "Digest"
	default:
		return "Category"
	}
}

// shortKey trims digests to something that fits a terminal column
func shortKey(p organizer.Policy, key string) string {
	if p == organizer.PolicyDuplicates && len(key) > 12 {
		return key[:12]
	}
	return key
}

func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
