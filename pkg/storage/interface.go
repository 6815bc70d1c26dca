package storage

import (
	"context"

	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

// SeenStore tracks which canonical target keys a crawl has queued and how each ended.
// Keys are produced by parse.Canonicalize.
type SeenStore interface {
	// MarkSeen records key with status queued.
	// Returns true if the key was newly added, false if it already existed
	MarkSeen(key string, target models.Target) (bool, error)

	// CheckStatus returns the key's status and entry. Unknown keys report TargetStatusNotFound
	CheckStatus(key string) (models.TargetStatus, *models.TargetDBEntry, error)

	// UpdateStatus replaces the stored entry for key
	UpdateStatus(key string, entry *models.TargetDBEntry) error

	// Incomplete returns every stored target that never completed, for requeueing on resume
	Incomplete(ctx context.Context) ([]models.Target, error)

	// Count returns the number of stored keys
	Count() (int, error)

	// Close releases the store
	Close() error
}

func entryTarget(e *models.TargetDBEntry) models.Target {
	return models.Target{URL: e.URL, Meta: e.Meta, Depth: e.Depth}
}
