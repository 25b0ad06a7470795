package config

import "github.com/fenilsonani/file-organizer/internal/category"

const (
	DefaultDateFormat       = "%Y-%m"
	DefaultDuplicatesFolder = "duplicates"
	DefaultOrganizeMethod   = "type"
)

// DefaultFileTypes returns the built-in category mapping used when no config
// file provides one
func DefaultFileTypes() category.Mapping {
	return category.Mapping{
		{Name: "images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".svg", ".webp"}},
		{Name: "documents", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx"}},
		{Name: "videos", Extensions: []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"}},
		{Name: "audio", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"}},
		{Name: "archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
		{Name: "code", Extensions: []string{".py", ".js", ".html", ".css", ".cpp", ".java", ".c", ".h", ".php", ".rb", ".go"}},
	}
}

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		FileTypes:             DefaultFileTypes(),
		DefaultOrganizeMethod: DefaultOrganizeMethod,
		DateFormat:            DefaultDateFormat,
		DuplicatesFolder:      DefaultDuplicatesFolder,
		HashAlgorithm:         "md5",
		LogLevel:              "info",
		LogFormat:             "text",
	}
}
