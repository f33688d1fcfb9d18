// Package boarddir names the .taskboard state directory and its files.
package boarddir

import "path/filepath"

const (
	// Dir is the name of the taskboard state directory. The file storage
	// backend keeps one file per key inside it.
	Dir = ".taskboard"

	// ConfigFile is the config file name, both in the project root and
	// inside the user-level state directory.
	ConfigFile = "taskboard.toml"

	// HiddenConfigFile is the alternate project config file name.
	HiddenConfigFile = ".taskboard.toml"
)

// DirPath returns the state directory within workDir.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

// ConfigPath returns the config file inside the state directory of workDir.
func ConfigPath(workDir string) string {
	return filepath.Join(DirPath(workDir), ConfigFile)
}

// ProjectConfigNames returns the project config file names in lookup order.
func ProjectConfigNames() []string {
	return []string{ConfigFile, HiddenConfigFile}
}
