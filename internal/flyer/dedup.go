package flyer

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// loadProcessed reads the dedup log into a set. A missing log simply
// means nothing was processed yet.
func loadProcessed(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, eris.Wrapf(err, "flyer: read processed log %s", path)
	}

	processed := map[string]bool{}
	for _, line := range strings.Split(string(data), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			processed[name] = true
		}
	}
	return processed, nil
}

// appendProcessed records image names that produced output. Only called
// after their rows are safely in the CSV.
func appendProcessed(path string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "flyer: open processed log %s", path)
	}
	defer f.Close() //nolint:errcheck

	for _, name := range names {
		if _, err := f.WriteString(name + "\n"); err != nil {
			return eris.Wrapf(err, "flyer: append processed log %s", path)
		}
	}
	return nil
}
