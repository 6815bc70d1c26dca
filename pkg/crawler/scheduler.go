package crawler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/metrics"
	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
	"github.com/Sriram-PR/linkedin-scraper/pkg/parse"
	"github.com/Sriram-PR/linkedin-scraper/pkg/queue"
	"github.com/Sriram-PR/linkedin-scraper/pkg/storage"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Options tune a Scheduler
type Options struct {
	Concurrency int  // simultaneous fetch+parse tasks, default 1
	MaxTargets  int  // stop dispatching after this many targets, 0 = unlimited
	Resume      bool // requeue targets the store holds as incomplete
}

// Summary describes one finished crawl
type Summary struct {
	RunID      string
	Task       string
	Dispatched int
	Completed  int
	Failed     int
	Items      int
	Duplicates int
	// Duplicates a previous run already completed; only counted when resuming
	PreviouslyCompleted int
	Duration            time.Duration
}

// Scheduler runs a Task: it dispatches targets under a permit pool, folds results
// into the sink and queues deduplicated follow-ups until no work is left
type Scheduler struct {
	fetcher Fetcher
	sink    Sink
	store   storage.SeenStore
	opts    Options
	log     *logrus.Entry
}

// NewScheduler creates a Scheduler. A nil store falls back to an in-memory seen set.
func NewScheduler(fetcher Fetcher, sink Sink, store storage.SeenStore, opts Options, log *logrus.Entry) *Scheduler {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Scheduler{
		fetcher: fetcher,
		sink:    sink,
		store:   store,
		opts:    opts,
		log:     log,
	}
}

type result struct {
	target    models.Target
	items     []any
	followUps []models.Target
	err       error
	duration  time.Duration
}

// run holds the state of one Run; only the dispatch loop touches it
type run struct {
	task    Task
	queue   *queue.TargetQueue
	summary Summary
	log     *logrus.Entry
}

// Run crawls task to completion. It returns ctx.Err() when cancelled, after in-flight targets finish.
// Target failures never fail the run.
func (s *Scheduler) Run(ctx context.Context, task Task) (Summary, error) {
	start := time.Now()
	r := &run{
		task:    task,
		summary: Summary{RunID: uuid.NewString(), Task: task.Name()},
	}
	r.log = s.log.WithFields(logrus.Fields{"task": task.Name(), "run_id": r.summary.RunID})
	r.queue = queue.NewTargetQueue(r.log)

	r.log.WithFields(logrus.Fields{"concurrency": s.opts.Concurrency, "resume": s.opts.Resume}).Info("Crawl starting")

	if s.opts.Resume {
		pending, err := s.store.Incomplete(ctx)
		if err != nil {
			r.log.Errorf("Error encountered during resume scan: %v", err)
		}
		for _, target := range pending {
			r.queue.Add(target)
		}
		known, err := s.store.Count()
		if err != nil {
			r.log.Errorf("Could not count stored targets: %v", err)
		}
		r.log.WithField("stored_targets", known).Infof("Requeued %d incomplete targets from a previous run", len(pending))
	}

	seeds := task.Seeds()
	for _, seed := range seeds {
		s.enqueue(r, seed)
	}
	if r.queue.Len() == 0 {
		r.log.Warn("No targets to crawl")
	}

	permits := semaphore.NewWeighted(int64(s.opts.Concurrency))
	results := make(chan result, s.opts.Concurrency) // one slot per permit, so senders never block
	inflight := 0

	for {
		for ctx.Err() == nil && !s.capReached(r) && permits.TryAcquire(1) {
			target, ok := r.queue.TryPop()
			if !ok {
				permits.Release(1)
				break
			}
			s.dispatch(ctx, r, target, permits, results)
			inflight++
		}
		if inflight == 0 {
			break
		}
		s.fold(r, <-results)
		inflight--
	}
	r.queue.Close()

	r.summary.Duration = time.Since(start)
	s.logSummary(r)
	return r.summary, ctx.Err()
}

func (s *Scheduler) capReached(r *run) bool {
	return s.opts.MaxTargets > 0 && r.summary.Dispatched >= s.opts.MaxTargets
}

// enqueue dedups target by canonical URL and queues it when new
func (s *Scheduler) enqueue(r *run, target models.Target) {
	key, err := parse.Canonicalize(target.URL)
	if err != nil {
		r.log.WithField("url", target.URL).Warnf("Dropping target: %v", err)
		return
	}
	added, err := s.store.MarkSeen(key, target)
	if err != nil {
		r.log.WithField("url", target.URL).Errorf("Seen store error, dropping target: %v", err)
		return
	}
	if !added {
		r.summary.Duplicates++
		if s.opts.Resume {
			s.countPreviouslyCompleted(r, key)
		}
		return
	}
	r.queue.Add(target)
}

func (s *Scheduler) countPreviouslyCompleted(r *run, key string) {
	status, _, err := s.store.CheckStatus(key)
	if err != nil {
		r.log.WithField("key", key).Warnf("Could not read stored status: %v", err)
		return
	}
	if status == models.TargetStatusCompleted {
		r.summary.PreviouslyCompleted++
	}
}

func (s *Scheduler) dispatch(ctx context.Context, r *run, target models.Target, permits *semaphore.Weighted, results chan<- result) {
	r.summary.Dispatched++
	s.setStatus(r, target, &models.TargetDBEntry{Status: models.TargetStatusDispatched})

	go func() {
		metrics.IncInflight()
		res := s.process(ctx, r, target)
		metrics.DecInflight()
		permits.Release(1)
		results <- res
	}()
}

// process fetches and parses one target, converting panics into failures
func (s *Scheduler) process(ctx context.Context, r *run, target models.Target) (res result) {
	res.target = target
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("panic: %v", p)
			r.log.WithFields(logrus.Fields{
				"url":         target.URL,
				"panic_info":  p,
				"stack_trace": string(debug.Stack()),
			}).Error("PANIC recovered while processing target")
		}
		res.duration = time.Since(start)
	}()

	body, err := s.fetcher.Fetch(ctx, target.URL)
	if err != nil {
		res.err = err
		return res
	}
	res.items, res.followUps, res.err = r.task.Parse(Response{Target: target, Body: body})
	return res
}

// fold applies one result: items to the sink, follow-ups to the queue, status to the store
func (s *Scheduler) fold(r *run, res result) {
	taskLog := r.log.WithFields(logrus.Fields{
		"url":      res.target.URL,
		"depth":    res.target.Depth,
		"duration": res.duration.String(),
	})

	if res.err != nil {
		r.summary.Failed++
		category := utils.CategorizeError(res.err)
		if errors.Is(res.err, context.Canceled) {
			taskLog.Debug("Target abandoned: crawl cancelled")
		} else {
			taskLog.WithField("category", category).Warnf("Target failed: %v", res.err)
		}
		written := 0
		if fb, ok := r.task.(Fallback); ok && !errors.Is(res.err, context.Canceled) {
			written = s.writeItems(r, taskLog, fb.Fallback(res.target, res.err))
			if written > 0 {
				taskLog.WithField("items", written).Info("Emitted fallback items for failed target")
			}
		}
		s.setStatus(r, res.target, &models.TargetDBEntry{Status: models.TargetStatusFailed, ErrorType: category, Items: written})
		metrics.ObserveTarget(r.task.Name(), models.TargetStatusFailed.String())
		return
	}

	written := s.writeItems(r, taskLog, res.items)
	r.summary.Completed++
	metrics.ObserveTarget(r.task.Name(), models.TargetStatusCompleted.String())

	for _, next := range res.followUps {
		s.enqueue(r, next)
	}

	now := time.Now()
	s.setStatus(r, res.target, &models.TargetDBEntry{
		Status:      models.TargetStatusCompleted,
		Items:       written,
		ProcessedAt: now,
	})
	taskLog.WithFields(logrus.Fields{"items": written, "follow_ups": len(res.followUps)}).Debug("Target completed")
}

// writeItems sends non-nil items to the sink and returns how many were written
func (s *Scheduler) writeItems(r *run, taskLog *logrus.Entry, items []any) int {
	written := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		if err := s.sink.ProcessItem(r.task.Name(), item); err != nil {
			taskLog.WithField("category", utils.CategorizeError(err)).Errorf("Sink write failed: %v", err)
			continue
		}
		written++
	}
	r.summary.Items += written
	metrics.ObserveItems(r.task.Name(), written)
	return written
}

// setStatus persists entry for target, filling the identifying fields
func (s *Scheduler) setStatus(r *run, target models.Target, entry *models.TargetDBEntry) {
	key, err := parse.Canonicalize(target.URL)
	if err != nil {
		return
	}
	entry.URL = target.URL
	entry.Meta = target.Meta
	entry.Depth = target.Depth
	entry.LastAttempt = time.Now()
	if err := s.store.UpdateStatus(key, entry); err != nil {
		r.log.WithField("url", target.URL).Errorf("Failed to record status %s: %v", entry.Status, err)
	}
}

func (s *Scheduler) logSummary(r *run) {
	sum := r.summary
	summaryLog := r.log.WithField("duration", sum.Duration.String())
	summaryLog.Info("========================================================================")
	summaryLog.Info("CRAWL FINISHED")
	summaryLog.Infof("Targets: dispatched %d, completed %d, failed %d, duplicates %d",
		sum.Dispatched, sum.Completed, sum.Failed, sum.Duplicates)
	summaryLog.Infof("Items written: %d", sum.Items)
	if sum.PreviouslyCompleted > 0 {
		summaryLog.Infof("Skipped as completed in a previous run: %d", sum.PreviouslyCompleted)
	}
	if r.queue.Len() > 0 {
		summaryLog.Infof("Targets left queued: %d", r.queue.Len())
	}
	summaryLog.Info("========================================================================")
}
