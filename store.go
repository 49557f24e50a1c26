package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

const (
	DefaultLatestLog = "log.json"

	// layout of timestamped save files, local time at second granularity
	SaveNameLayout = "2006-01-02_15-04-05"
)

var saveNamePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.json$`)

// LogStore keeps log records as indented JSON files in one directory
type LogStore struct {
	dir        string
	latestName string
}

func NewLogStore(dir, latestName string) (*LogStore, error) {
	if latestName == "" {
		latestName = DefaultLatestLog
	}

	// ensure directory exists
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &LogStore{dir: dir, latestName: latestName}, nil
}

func (s *LogStore) Dir() string {
	return s.dir
}

func (s *LogStore) LatestPath() string {
	return filepath.Join(s.dir, s.latestName)
}

// +---------------------+
// |                     |
// |    Latest Record    |
// |                     |
// +---------------------+

// replaces the fixed-name log file, the old file stays intact if anything fails
func (s *LogStore) WriteLatest(rec LogRecord) (string, error) {
	data, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, "."+s.latestName+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp log file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}

	if err := os.Rename(tmpName, s.LatestPath()); err != nil {
		return "", fmt.Errorf("failed to replace log file: %w", err)
	}

	return s.latestName, nil
}

func (s *LogStore) ReadLatest() (LogRecord, error) {
	return readRecord(s.LatestPath())
}

// +---------------------+
// |                     |
// |     Save Files      |
// |                     |
// +---------------------+

// writes rec to a new file named after t, existing files are never replaced
func (s *LogStore) Save(rec LogRecord, t time.Time) (string, error) {
	data, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	name := t.Format(SaveNameLayout) + ".json"
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create save file %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write save file %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write save file %s: %w", name, err)
	}

	return name, nil
}

// lists timestamped save files, oldest first
func (s *LogStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !saveNamePattern.MatchString(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	// the layout sorts lexically in time order
	sort.Strings(names)
	return names, nil
}

func (s *LogStore) Read(name string) (LogRecord, error) {
	return readRecord(filepath.Join(s.dir, name))
}

func encodeRecord(rec LogRecord) ([]byte, error) {
	if rec.Entries == nil {
		rec.Entries = []LogEntry{}
	}

	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode log record: %w", err)
	}
	return append(data, '\n'), nil
}

func readRecord(path string) (LogRecord, error) {
	var rec LogRecord

	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("failed to read log file: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode log file %s: %w", filepath.Base(path), err)
	}

	return rec, nil
}
