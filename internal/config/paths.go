package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Level selects a config layer.
type Level string

const (
	LevelUser    Level = "user"
	LevelProject Level = "project"
)

const (
	appName        = "gcop"
	configFileName = "config.yaml"
	projectDirName = ".gcop"
	// EnvConfigHome overrides the directory holding the user layer.
	EnvConfigHome = "GCOP_CONFIG_HOME"
)

// ParseLevel accepts "user" or "project", case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch Level(lower(s)) {
	case LevelUser:
		return LevelUser, nil
	case LevelProject:
		return LevelProject, nil
	default:
		return "", fmt.Errorf("unknown config level %q, use project or user", s)
	}
}

// Paths locates the config layers. ProjectRoot is empty outside a project.
type Paths struct {
	UserDir     string
	ProjectRoot string
}

// DefaultPaths resolves the user directory ($GCOP_CONFIG_HOME, then the OS
// config dir) and the project root of workDir.
func DefaultPaths(workDir string) (Paths, error) {
	userDir, err := UserDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{UserDir: userDir, ProjectRoot: FindProjectRoot(workDir)}, nil
}

// UserDir is the directory holding the user config, logs and metadata.
func UserDir() (string, error) {
	if dir := os.Getenv(EnvConfigHome); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// LegacyUserFile is where versions before the layered config kept the user file.
func LegacyUserFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, "."+appName, configFileName), nil
}

// FindProjectRoot walks up from dir to the nearest directory holding
// .gcop or .git. It returns "" when none is found. The legacy ~/.gcop
// user directory is not a project marker.
func FindProjectRoot(dir string) string {
	if dir == "" {
		return ""
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	home, _ := os.UserHomeDir()
	for {
		for _, marker := range []string{projectDirName, ".git"} {
			if marker == projectDirName && home != "" && sameDir(dir, home) {
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// UserFile is the path of the user layer.
func (p Paths) UserFile() string {
	return filepath.Join(p.UserDir, configFileName)
}

// ProjectFile is the path of the project layer, "" outside a project.
func (p Paths) ProjectFile() string {
	if p.ProjectRoot == "" {
		return ""
	}
	return ProjectFileIn(p.ProjectRoot)
}

// ProjectFileIn is the project layer path for a given project directory.
func ProjectFileIn(root string) string {
	return filepath.Join(root, projectDirName, configFileName)
}

// File returns the path of the given layer.
func (p Paths) File(level Level) (string, error) {
	switch level {
	case LevelUser:
		return p.UserFile(), nil
	case LevelProject:
		if p.ProjectRoot == "" {
			return "", fmt.Errorf("no project root found (no %s or .git directory above the working directory)", projectDirName)
		}
		return p.ProjectFile(), nil
	default:
		return "", fmt.Errorf("unknown config level %q", level)
	}
}
