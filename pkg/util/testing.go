package util

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
)

func IsTestMode() bool {
	return flag.Lookup("test.v") != nil
}

// TempPath returns a unique path inside the system temp directory, suitable
// for throwaway databases in tests
func TempPath(prefix, ext string) string {
	name := strings.TrimSpace(prefix) + "-" + NewULID().String()
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}

	return filepath.Join(os.TempDir(), name)
}
