package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"herohub/internal/session"
)

// FileStorage persists the session record as a JSON file with owner-only
// permissions, mirroring how desktop clients keep a keychain fallback.
type FileStorage struct {
	Path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// DefaultStoragePath places the session file under the user config dir.
func DefaultStoragePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "herohub", "session.json"), nil
}

func (s *FileStorage) Load() (*session.PersistedSession, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record session.PersistedSession
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.Token == "" {
		return nil, nil
	}
	return &record, nil
}

func (s *FileStorage) Save(record *session.PersistedSession) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
