package utils

import (
	"strings"
	"testing"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		check    func(string) bool
	}{
		{
			name:     "short path unchanged",
			path:     "/tmp/a.txt",
			maxWidth: 40,
			check:    func(s string) bool { return s == "/tmp/a.txt" },
		},
		{
			name:     "keeps file name",
			path:     "/home/user/Downloads/some/deep/folder/report.pdf",
			maxWidth: 30,
			check: func(s string) bool {
				return len(s) <= 30 && strings.HasSuffix(s, "/report.pdf") && strings.HasPrefix(s, "/home")
			},
		},
		{
			name:     "long file name",
			path:     "/x/" + strings.Repeat("a", 50) + ".txt",
			maxWidth: 20,
			check: func(s string) bool {
				return len(s) <= 20 && strings.HasPrefix(s, "...") && strings.HasSuffix(s, ".txt")
			},
		},
		{
			name:     "tiny width",
			path:     "/home/user/file.txt",
			maxWidth: 5,
			check:    func(s string) bool { return s == "..." },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.maxWidth)
			if !tt.check(got) {
				t.Errorf("TruncatePath(%q, %d) = %q", tt.path, tt.maxWidth, got)
			}
		})
	}
}

func TestGetSizeWarningBanner(t *testing.T) {
	if got := GetSizeWarningBanner(120, 40); got != "" {
		t.Errorf("expected no banner for a large terminal, got %q", got)
	}
	if got := GetSizeWarningBanner(0, 0); got != "" {
		t.Errorf("expected no banner for an unknown size, got %q", got)
	}
	if got := GetSizeWarningBanner(40, 10); !strings.Contains(got, "40x10") {
		t.Errorf("expected banner with current size, got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"abcdefghij", 4, "abcd\nefgh\nij"},
		{"unchanged", 0, "unchanged"},
	}

	for _, tt := range tests {
		if got := WrapText(tt.in, tt.width); got != tt.want {
			t.Errorf("WrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
