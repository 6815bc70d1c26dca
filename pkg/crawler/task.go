package crawler

import (
	"context"

	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

// Response is a fetched page handed to a task's Parse
type Response struct {
	Target models.Target
	Body   string
}

// Task is one kind of crawl: where it starts and how a page becomes items and follow-ups
type Task interface {
	Name() string
	Seeds() []models.Target
	// Parse turns a page into entities for the sink and targets to crawl next
	Parse(resp Response) (items []any, followUps []models.Target, err error)
}

// Fallback is implemented by tasks that can still emit items for a target whose fetch or parse failed
type Fallback interface {
	Fallback(target models.Target, err error) []any
}

// Fetcher resolves a URL to HTML or a classified failure
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Sink receives every extracted entity
type Sink interface {
	ProcessItem(taskName string, item any) error
}
