package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"
	"github.com/Sriram-PR/linkedin-scraper/pkg/crawler"
	"github.com/Sriram-PR/linkedin-scraper/pkg/extract"
	"github.com/Sriram-PR/linkedin-scraper/pkg/fetch"
	applog "github.com/Sriram-PR/linkedin-scraper/pkg/log"
	"github.com/Sriram-PR/linkedin-scraper/pkg/metrics"
	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
	"github.com/Sriram-PR/linkedin-scraper/pkg/session"
	"github.com/Sriram-PR/linkedin-scraper/pkg/sink"
	"github.com/Sriram-PR/linkedin-scraper/pkg/spiders"
	"github.com/Sriram-PR/linkedin-scraper/pkg/storage"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

// commonFlags are accepted by every crawl command
type commonFlags struct {
	configFile  string
	logLevel    string
	output      string
	concurrency int
	resume      bool
}

// crawlCommand is a parsed crawl subcommand; newTask is deferred until the engine exists
type crawlCommand struct {
	name    string
	common  commonFlags
	newTask func(engine *extract.Engine) crawler.Task
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseCrawlCommand parses the flags and positional arguments of a crawl subcommand
func parseCrawlCommand(name string, args []string, stderr io.Writer) (*crawlCommand, error) {
	fs := newFlagSet(name, stderr)
	cmd := &crawlCommand{name: name}
	fs.StringVar(&cmd.common.configFile, "config", "", "Path to YAML config file")
	fs.StringVar(&cmd.common.logLevel, "loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	fs.StringVar(&cmd.common.output, "output", "", "Output directory (overrides output_dir)")
	fs.IntVar(&cmd.common.concurrency, "concurrency", 0, "Concurrent requests (overrides concurrent_requests)")
	fs.BoolVar(&cmd.common.resume, "resume", false, "Resume using the state DB in state_dir")

	var query, location *string
	var employees *bool
	var details, maxPages *int
	switch name {
	case "people", "jobs":
		query = fs.String("query", "", "Search keywords (required)")
		location = fs.String("location", "", "Location filter")
		details = fs.Int("details", 0, "Fetch detail pages for the first N hits (0 = cards only)")
		if name == "jobs" {
			maxPages = fs.Int("max-pages", 0, "Stop after this many result pages (0 = until empty)")
		}
	case "company":
		employees = fs.Bool("employees", false, "Also scrape each company's /people page")
	}

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: linkedin-scraper %s [options]%s\n\nOptions:\n", name, positionalUsage(name))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positional := fs.Args()

	switch name {
	case "person", "people-profile", "company", "job":
		if len(positional) == 0 {
			fs.Usage()
			return nil, fmt.Errorf("%s requires at least one%s argument", name, positionalUsage(name))
		}
	case "people", "jobs":
		if strings.TrimSpace(*query) == "" {
			fs.Usage()
			return nil, fmt.Errorf("%s requires -query", name)
		}
		if *details < 0 {
			fs.Usage()
			return nil, fmt.Errorf("%s: -details must not be negative", name)
		}
	}

	switch name {
	case "person":
		cmd.newTask = func(e *extract.Engine) crawler.Task { return spiders.NewPerson(e, positional) }
	case "people-profile":
		cmd.newTask = func(e *extract.Engine) crawler.Task { return spiders.NewPeopleProfile(e, positional) }
	case "company":
		withEmployees := *employees
		cmd.newTask = func(e *extract.Engine) crawler.Task { return spiders.NewCompany(e, positional, withEmployees) }
	case "job":
		cmd.newTask = func(e *extract.Engine) crawler.Task { return spiders.NewJob(e, positional) }
	case "jobs":
		opts := spiders.JobsOptions{Keywords: *query, Location: *location, Details: *details, MaxPages: *maxPages}
		cmd.newTask = func(e *extract.Engine) crawler.Task { return spiders.NewJobs(e, opts) }
	case "people":
		opts := spiders.PeopleSearchOptions{Keywords: *query, Location: *location, Details: *details}
		cmd.newTask = func(e *extract.Engine) crawler.Task { return spiders.NewPeopleSearch(e, opts) }
	default:
		return nil, fmt.Errorf("unknown crawl command %q", name)
	}
	return cmd, nil
}

func positionalUsage(name string) string {
	switch name {
	case "person", "company", "job":
		return " <url>..."
	case "people-profile":
		return " <profile-id>..."
	}
	return ""
}

// applyFlags lets command-line flags win over config and environment
func (c *crawlCommand) applyFlags(cfg *config.AppConfig) {
	if c.common.output != "" {
		cfg.OutputDir = c.common.output
	}
	if c.common.concurrency > 0 {
		cfg.ConcurrentRequests = c.common.concurrency
		if cfg.HTTPClientSettings.MaxIdleConnsPerHost < c.common.concurrency {
			cfg.HTTPClientSettings.MaxIdleConnsPerHost = c.common.concurrency
		}
	}
}

func runCrawl(name string, args []string) int {
	cmd, err := parseCrawlCommand(name, args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return executeCrawl(cmd)
}

// signalContext is cancelled on the first SIGINT/SIGTERM; a second signal exits immediately
func signalContext(log *logrus.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warnf("Received signal: %v. Initiating graceful shutdown...", sig)
			cancel()
		case <-ctx.Done():
			return
		}
		select {
		case sig := <-sigChan:
			log.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("Graceful shutdown period exceeded after signal. Forcing exit.")
			os.Exit(1)
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func executeCrawl(cmd *crawlCommand) int {
	cfg, warnings, err := loadConfig(cmd.common.configFile, os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	cmd.applyFlags(cfg)

	logger, closer := applog.Setup(applog.Options{Level: cmd.common.logLevel, File: cfg.LogFile})
	defer closer.Close()
	for _, w := range warnings {
		logger.Warn(w)
	}
	log := logger.WithField("command", cmd.name)

	ctx, stop := signalContext(logger)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			log.Infof("Serving metrics on http://%s/metrics", cfg.MetricsAddr)
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				log.Errorf("Metrics server failed on %s: %v", cfg.MetricsAddr, err)
			}
		}()
	}

	// Broken selector tables abort startup
	reg, err := selectors.Default()
	if err != nil {
		log.Errorf("Selector tables invalid: %v", err)
		return 1
	}
	engine := extract.NewEngine(reg, cfg.Origin)
	task := cmd.newTask(engine)

	client := fetch.NewClient(cfg, log)
	cookie, err := session.Resolve(ctx, client, cfg.Session, log)
	if err != nil {
		log.WithField("category", utils.CategorizeError(err)).Errorf("Session setup failed: %v", err)
		return 1
	}

	fetchOpts := []fetch.Option{fetch.WithRateLimiter(fetch.NewRateLimiter(cfg.RequestsPerSecond, log))}
	if cookie != nil {
		fetchOpts = append(fetchOpts, fetch.WithSession(cookie))
	}
	if cfg.RobotsTxtObey {
		fetchOpts = append(fetchOpts, fetch.WithRobots(fetch.NewRobotsHandler(client, cfg.UserAgent, log)))
	}
	fetcher := fetch.NewFetcher(client, cfg, fetch.NewProxyPool(cfg.Proxies), log, fetchOpts...)

	out, err := sink.NewJSONL(cfg.OutputDir, log)
	if err != nil {
		log.Errorf("Output setup failed: %v", err)
		return 1
	}
	defer out.Close()

	var store storage.SeenStore
	if cfg.StateDir != "" {
		badgerStore, err := storage.NewBadgerStore(cfg.StateDir, task.Name(), cmd.common.resume, log)
		if err != nil {
			log.Errorf("Failed to open state DB: %v", err)
			return 1
		}
		defer badgerStore.Close()
		go badgerStore.RunGC(ctx, 10*time.Minute)
		store = badgerStore
	} else if cmd.common.resume {
		log.Warn("-resume has no effect without state_dir; starting fresh")
	}

	scheduler := crawler.NewScheduler(fetcher, out, store, crawler.Options{
		Concurrency: cfg.ConcurrentRequests,
		MaxTargets:  cfg.MaxTargets,
		Resume:      cmd.common.resume && store != nil,
	}, log)

	summary, err := scheduler.Run(ctx, task)
	if summary.Items > 0 {
		log.Infof("Output: %s", out.Path(task.Name()))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Crawl interrupted; rerun with -resume to continue")
		} else {
			log.Errorf("Crawl failed: %v", err)
		}
		return 1
	}
	return 0
}
