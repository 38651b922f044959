package filecsv

import (
	"fmt"
	"os"
	"path/filepath"

	"ytcollector/infrastructure/logger"
)

// NewFile creates or truncates dir/name for writing, creating dir when
// missing.
func NewFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while create export directory")
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while open file")
		return nil, err
	}
	return file, nil
}
