package artifact

import "os"

// FileExists reports whether path is an existing regular file.
// A missing path is not an error.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FolderExists reports whether path is an existing directory.
func FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
