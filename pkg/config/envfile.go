package config

import (
	"os"
	"path/filepath"
)

const defaultEnvFile = ".env"

// findEnvFile resolves name against dir and then each parent of dir, so a
// test running inside a package directory still finds the repo's env file.
// An absolute name is only checked where it points.
func findEnvFile(dir, name string) (string, error) {
	if name == "" {
		name = defaultEnvFile
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
