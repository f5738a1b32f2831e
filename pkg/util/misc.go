package util

import (
	"github.com/r3labs/diff"
)

// ChangedFields returns the top-level names of the fields which differ between
// before and after
func ChangedFields(before, after interface{}) ([]string, error) {
	changelog, err := diff.Diff(before, after)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changelog))
	seen := make(map[string]bool, len(changelog))

	for _, change := range changelog {
		if len(change.Path) == 0 || seen[change.Path[0]] {
			continue
		}

		seen[change.Path[0]] = true
		fields = append(fields, change.Path[0])
	}

	return fields, nil
}
