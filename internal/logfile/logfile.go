// Package logfile loads source log files from disk.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"

	"logwhisper/internal/domain"
)

// Load reads the log file at path and returns it together with the identity
// tuple (resolved path, size, mtime) used for index cache keying.
func Load(path string) (domain.LogDocument, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.LogDocument{}, fmt.Errorf("resolve log path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return domain.LogDocument{}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return domain.LogDocument{}, fmt.Errorf("log path is a directory: %s", abs)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return domain.LogDocument{}, fmt.Errorf("read log file: %w", err)
	}
	return domain.LogDocument{
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Content: string(data),
	}, nil
}
