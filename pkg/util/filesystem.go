package util

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Exists checks whether the file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CreateDirectoryIfNotExists creates directory if it doesn't yet exist
func CreateDirectoryIfNotExists(path string, mode os.FileMode) error {
	if !Exists(path) {
		if err := os.MkdirAll(path, mode); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", path)
		}
	}

	return nil
}

// ExpandPath resolves a leading "~" to the current user's home directory
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to expand path %s", path)
	}

	return filepath.Clean(expanded), nil
}

// DataDir returns the default directory for the portal's local files
func DataDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "failed to obtain home directory")
	}

	return filepath.Join(home, ".ktportal"), nil
}
