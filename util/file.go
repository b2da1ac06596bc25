package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveJson writes data as JSON to path, creating parent directories as
// needed. Used for recording run configuration and result datasets.
func SaveJson(path string, data interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	bs, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
