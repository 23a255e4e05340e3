// utils.go: config path helpers
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/planboard/planboard/internal/errors"
)

const osWindows = "windows"

// GetDefaultConfigPaths returns the list of directories searched for config.yaml,
// in priority order.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get-executable-path").
			Build()
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case osWindows:
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "planboard"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "planboard"),
			"/etc/planboard",
		}
	}

	return configPaths, nil
}

// GetBasePath expands and normalizes a path, creating the directory if it
// does not exist.
func GetBasePath(path string) string {
	expandedPath := os.ExpandEnv(path)
	basePath := filepath.Clean(expandedPath)

	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o750); err != nil {
			fmt.Printf("failed to create directory '%s': %v\n", basePath, err)
		}
	}

	return basePath
}
