package scene

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultName is the scene loaded when no other is requested.
const DefaultName = "scene.yaml"

//go:embed *.yaml
var ScenesFS embed.FS

// Load reads a scene file, preferring a copy on disk over the embedded one.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(DiskPath(name)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(cleanScenePath(name))
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(DiskPath(name))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanScenePath(path string) string {
	if path == "" {
		return DefaultName
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scene/"); ok {
		return after
	}
	return filepath.Base(s)
}

// DiskPath resolves bare names inside the scene directory and keeps
// explicit paths as given.
func DiskPath(name string) string {
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsRune(filepath.ToSlash(name), '/') {
		return filepath.FromSlash(name)
	}
	return filepath.Join("scene", name)
}
