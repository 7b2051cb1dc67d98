package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadFile reads and parses a rules file.
func LoadFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(string(data)), nil
}

// SaveFile writes the session to path, creating parent directories as needed.
func SaveFile(path string, s *Session) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rules directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(Encode(s)), 0o644); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	return nil
}
