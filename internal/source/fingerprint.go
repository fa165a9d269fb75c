package source

import (
	"fmt"
	"os"
)

// Fingerprint identifies one version of an input file on disk.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// Stat fingerprints the file at path.
func Stat(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("%s is a directory", path)
	}
	return Fingerprint{Path: path, Size: info.Size(), ModTime: info.ModTime().UnixNano()}, nil
}

// Matches reports whether two fingerprints describe the same file version.
func (f Fingerprint) Matches(o Fingerprint) bool {
	return f.Size == o.Size && f.ModTime == o.ModTime
}
