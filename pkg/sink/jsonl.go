// Package sink persists extracted entities as JSON Lines, one file per crawl task.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	"github.com/sirupsen/logrus"
)

const fileTimeLayout = "20060102_150405"

// JSONL appends one JSON document per line to {task}_{YYYYMMDD_HHMMSS}.jsonl under dir.
// Safe for concurrent use.
type JSONL struct {
	dir   string
	now   func() time.Time
	log   *logrus.Entry
	mu    sync.Mutex
	files map[string]*os.File
}

// NewJSONL creates the output directory and an empty sink
func NewJSONL(dir string, log *logrus.Entry) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating output dir '%s': %w", utils.ErrFilesystem, dir, err)
	}
	return &JSONL{
		dir:   dir,
		now:   time.Now,
		log:   log,
		files: make(map[string]*os.File),
	}, nil
}

// ProcessItem writes item as one line of taskName's file, opening the file on first use
func (s *JSONL) ProcessItem(taskName string, item any) error {
	line, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("%w: encoding %T for %s: %w", utils.ErrParsing, item, taskName, err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.fileFor(taskName)
	if err != nil {
		return err
	}
	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("%w: writing %s: %w", utils.ErrFilesystem, file.Name(), err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %s: %w", utils.ErrFilesystem, file.Name(), err)
	}
	return nil
}

// Path returns the file used for taskName, or "" before its first item
func (s *JSONL) Path(taskName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[taskName]; ok {
		return f.Name()
	}
	return ""
}

// fileFor must be called with mu held
func (s *JSONL) fileFor(taskName string) (*os.File, error) {
	if f, ok := s.files[taskName]; ok {
		return f, nil
	}
	name := fmt.Sprintf("%s_%s.jsonl", utils.SanitizeFilename(taskName), s.now().Format(fileTimeLayout))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening '%s': %w", utils.ErrFilesystem, path, err)
	}
	s.log.WithFields(logrus.Fields{"task": taskName, "file": path}).Info("Opened JSONL output")
	s.files[taskName] = f
	return f, nil
}

// Close closes every open file
func (s *JSONL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for task, f := range s.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: closing %s: %w", utils.ErrFilesystem, f.Name(), err))
		}
		delete(s.files, task)
	}
	return errors.Join(errs...)
}
