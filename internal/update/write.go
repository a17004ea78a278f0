package update

import (
	"fmt"
	"os"
)

// writeAtomic writes data to path via a sibling temp file and rename, so a
// crash mid-write leaves the previous document intact.
func writeAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace document: %w", err)
	}

	return nil
}
