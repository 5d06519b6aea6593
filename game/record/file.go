package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes one JSON file per record into a directory
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the record as indented JSON
func (fs *FileStore) Save(ctx context.Context, r *Record) error {
	if r == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if r.ID == "" {
		r.ID = NewID()
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := os.WriteFile(fs.path(r.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	return nil
}

func (fs *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return nil, ErrRecordNotFound
	}
	return fs.load(fs.path(id))
}

func (fs *FileStore) List(ctx context.Context, limit int) ([]*Record, error) {
	records, err := fs.loadAll()
	if err != nil {
		return nil, err
	}
	sortRecent(records)
	return truncate(records, normalizeLimit(limit)), nil
}

func (fs *FileStore) Leaderboard(ctx context.Context, limit int) ([]*Record, error) {
	records, err := fs.loadAll()
	if err != nil {
		return nil, err
	}
	sortLeaderboard(records)
	return truncate(records, normalizeLimit(limit)), nil
}

func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &r, nil
}

func (fs *FileStore) loadAll() ([]*Record, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read records directory: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		r, err := fs.load(filepath.Join(fs.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.dir, fmt.Sprintf("%s.json", id))
}
