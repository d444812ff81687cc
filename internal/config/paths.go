package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "CONCEPTGRAPH_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "conceptgraph.yaml"

	appDir = "conceptgraph"
)

// Origin records where a Config came from.
type Origin struct {
	// Path is the file that was read, empty when defaults were used.
	Path string
	// Searched lists the candidates considered, in priority order. It is
	// empty when the path was given explicitly.
	Searched []string
}

// Defaulted reports whether no config file was read
func (o Origin) Defaulted() bool {
	return o.Path == ""
}

// Candidates returns the config file locations in priority order. Locations
// built from an unset environment variable are left out.
func Candidates() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appDir, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appDir, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", appDir, "config.yaml"))
}

// FindConfigPath returns the first candidate that is a regular file along
// with every candidate it considered. Relative hits are made absolute. The
// path is empty when nothing matched.
func FindConfigPath() (string, []string) {
	candidates := Candidates()
	for _, p := range candidates {
		if !isFile(p) {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		return p, candidates
	}
	return "", candidates
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
