// Package category maps file extensions to named buckets.
package category

import (
	"path/filepath"
	"strings"
)

// Others is returned for files whose extension matches no category.
const Others = "others"

// Extension returns the lowercased extension of path, including the leading dot.
// A base name whose only dot is the leading one (".bashrc") or which ends in a dot
// has no extension.
func Extension(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// Classify returns the name of the first category in m that lists the extension
// of path, or Others.
func Classify(path string, m Mapping) string {
	ext := Extension(path)
	if ext == "" {
		return Others
	}

	for _, c := range m {
		for _, e := range c.Extensions {
			if e == ext {
				return c.Name
			}
		}
	}

	return Others
}
