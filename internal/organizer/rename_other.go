//go:build !linux

package organizer

func renameNoReplace(src, dest string) error {
	return renameChecked(src, dest)
}
