package config

import (
	"errors"
	"fmt"
	"os"
)

// MigrationResult describes what MigrateLegacy did.
type MigrationResult struct {
	Copied     bool
	BackupPath string
}

// MigrateLegacy moves a config file from the old single-file location to
// target. An existing target is kept; the legacy file is always renamed to
// <legacy>.backup so the migration runs once.
func MigrateLegacy(legacy, target string) (MigrationResult, error) {
	var result MigrationResult
	data, err := os.ReadFile(legacy)
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("could not read legacy config %s: %w", legacy, err)
	}

	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		if err := WriteFileAtomic(target, data, 0o600); err != nil {
			return result, fmt.Errorf("could not write %s: %w", target, err)
		}
		result.Copied = true
	}

	result.BackupPath = legacy + ".backup"
	if err := os.Rename(legacy, result.BackupPath); err != nil {
		return result, fmt.Errorf("could not back up legacy config: %w", err)
	}
	return result, nil
}
