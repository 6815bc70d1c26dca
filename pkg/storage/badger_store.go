package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/log"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

const (
	targetKeyPrefix = "target:" // Prefix for canonical target keys in DB
	seenDBDir       = "seen_db" // Suffix of the per-task Badger directory within stateDir
)

// BadgerStore implements SeenStore using BadgerDB, so a crawl can resume
type BadgerStore struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount atomic.Int64 // Cached key count for O(1) Count
}

// NewBadgerStore opens the seen store for taskName under stateDir.
// Without resume any previous state for the task is removed first.
func NewBadgerStore(stateDir, taskName string, resume bool, logger *logrus.Entry) (*BadgerStore, error) {
	store := &BadgerStore{log: logger}

	dbPath := filepath.Join(stateDir, utils.SanitizeFilename(taskName)+"_"+seenDBDir)

	if !resume {
		if _, err := os.Stat(dbPath); err == nil {
			logger.Warnf("Resume flag is false. REMOVING existing state directory: %s", dbPath)
		}
		if err := os.RemoveAll(dbPath); err != nil {
			logger.Errorf("Failed to remove existing state directory %s: %v", dbPath, err)
		}
	}

	logger.Infof("Initializing seen-target database at: %s (Resume: %v)", dbPath, resume)

	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create state directory %s: %w", utils.ErrFilesystem, dbPath, err)
	}

	badgerLogger := log.NewBadgerLogger(logger)
	opts := badger.DefaultOptions(dbPath).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1)

	var err error
	store.db, err = badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger database at %s: %w", utils.ErrDatabase, dbPath, err)
	}

	if resume {
		count, err := store.countKeys()
		if err != nil {
			logger.Warnf("Failed to count existing keys on resume: %v", err)
		} else {
			store.keyCount.Store(int64(count))
			logger.Infof("Loaded existing key count on resume: %d", count)
		}
	}

	return store, nil
}

// countKeys performs a one-time full key scan (used only during initialization on resume).
func (s *BadgerStore) countKeys() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(targetKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
func (s *BadgerStore) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := 0; i < maxConflictRetries; i++ {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

// MarkSeen implements SeenStore
func (s *BadgerStore) MarkSeen(key string, target models.Target) (bool, error) {
	dbKey := []byte(targetKeyPrefix + key)
	value, err := json.Marshal(&models.TargetDBEntry{
		URL:    target.URL,
		Meta:   target.Meta,
		Status: models.TargetStatusQueued,
		Depth:  target.Depth,
	})
	if err != nil {
		return false, fmt.Errorf("%w: encoding entry for '%s': %w", utils.ErrParsing, key, err)
	}

	added := false
	err = s.dbUpdate(func(txn *badger.Txn) error {
		_, errGet := txn.Get(dbKey)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			if errSet := txn.SetEntry(badger.NewEntry(dbKey, value)); errSet != nil {
				return errSet
			}
			added = true
			return nil
		}
		return errGet // nil when the key exists
	})
	if err != nil {
		s.log.WithField("key", key).Errorf("DB Update error in MarkSeen: %v", err)
		return false, fmt.Errorf("%w: marking target key '%s': %w", utils.ErrDatabase, key, err)
	}
	if added {
		s.keyCount.Add(1)
	}
	return added, nil
}

// CheckStatus implements SeenStore
func (s *BadgerStore) CheckStatus(key string) (models.TargetStatus, *models.TargetDBEntry, error) {
	status := models.TargetStatusNotFound
	var entry *models.TargetDBEntry
	dbKey := []byte(targetKeyPrefix + key)

	errView := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(dbKey)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: failed getting target key '%s': %w", utils.ErrDatabase, key, errGet)
		}
		return item.Value(func(val []byte) error {
			var decoded models.TargetDBEntry
			if errJSON := json.Unmarshal(val, &decoded); errJSON != nil {
				s.log.Warnf("Failed to unmarshal TargetDBEntry for key '%s': %v. Treating as queued.", key, errJSON)
				status = models.TargetStatusQueued
				return nil
			}
			entry = &decoded
			status = decoded.Status
			return nil
		})
	})
	if errView != nil {
		s.log.Errorf("DB View error in CheckStatus for key '%s': %v", key, errView)
		return models.TargetStatusDBError, nil, errView
	}
	return status, entry, nil
}

// UpdateStatus implements SeenStore
func (s *BadgerStore) UpdateStatus(key string, entry *models.TargetDBEntry) error {
	dbKey := []byte(targetKeyPrefix + key)

	entryBytes, errJSON := json.Marshal(entry)
	if errJSON != nil {
		return fmt.Errorf("%w: failed to marshal TargetDBEntry for key '%s': %w", utils.ErrParsing, key, errJSON)
	}

	isNew := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		_, errGet := txn.Get(dbKey)
		isNew = errors.Is(errGet, badger.ErrKeyNotFound)
		return txn.SetEntry(badger.NewEntry(dbKey, entryBytes))
	})
	if err != nil {
		s.log.WithField("key", key).Errorf("DB Update error in UpdateStatus: %v", err)
		return fmt.Errorf("%w: failed setting target status for key '%s': %w", utils.ErrDatabase, key, err)
	}
	if isNew {
		s.keyCount.Add(1)
	}
	s.log.Debugf("Updated target status for key '%s' to '%s'", key, entry.Status)
	return nil
}

// Incomplete implements SeenStore
func (s *BadgerStore) Incomplete(ctx context.Context) ([]models.Target, error) {
	s.log.Info("Resume Mode: Scanning database for incomplete targets to requeue...")
	var targets []models.Target
	scanErrors := 0
	scanStart := time.Now()

	scanErr := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(targetKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			errValue := item.Value(func(val []byte) error {
				var entry models.TargetDBEntry
				if errJSON := json.Unmarshal(val, &entry); errJSON != nil || entry.URL == "" {
					scanErrors++
					return nil
				}
				if entry.Status != models.TargetStatusCompleted {
					targets = append(targets, entryTarget(&entry))
				}
				return nil
			})
			if errValue != nil {
				s.log.Errorf("Resume Scan: Error reading key '%s': %v", item.Key(), errValue)
				scanErrors++
			}
		}
		return nil
	})

	s.log.Infof("Resume Scan Complete: %d incomplete targets in %v. Errors: %d.", len(targets), time.Since(scanStart), scanErrors)
	if scanErr != nil {
		return targets, fmt.Errorf("%w: resume scan: %w", utils.ErrDatabase, scanErr)
	}
	return targets, nil
}

// Count implements SeenStore
func (s *BadgerStore) Count() (int, error) {
	return int(s.keyCount.Load()), nil
}

// RunGC runs BadgerDB's value log garbage collection periodically. Run it in a goroutine.
func (s *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.db.IsClosed() {
				return
			}
			var err error
			for err == nil {
				err = s.db.RunValueLogGC(0.5)
			}
			if !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Errorf("BadgerDB GC error: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close implements SeenStore
func (s *BadgerStore) Close() error {
	if s.db == nil || s.db.IsClosed() {
		return nil
	}
	s.log.Info("Closing seen-target database...")
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: closing badger: %w", utils.ErrDatabase, err)
	}
	return nil
}
