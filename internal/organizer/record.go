package organizer

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fenilsonani/file-organizer/internal/category"
)

// FileRecord describes one candidate file found during a scan
type FileRecord struct {
	Path    string    `json:"path" yaml:"path"`
	Name    string    `json:"name" yaml:"name"`
	Ext     string    `json:"ext,omitempty" yaml:"ext,omitempty"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

func newRecord(path string, info fs.FileInfo) FileRecord {
	return FileRecord{
		Path:    path,
		Name:    filepath.Base(path),
		Ext:     category.Extension(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
