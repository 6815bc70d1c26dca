package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"
	"github.com/Sriram-PR/linkedin-scraper/pkg/fetch"
	applog "github.com/Sriram-PR/linkedin-scraper/pkg/log"
	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
)

const version = "0.4.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "person", "people-profile", "people", "company", "jobs", "job":
		os.Exit(runCrawl(cmd, os.Args[2:]))
	case "validate":
		os.Exit(runValidate(os.Args[2:]))
	case "check-proxies":
		os.Exit(runCheckProxies(os.Args[2:]))
	case "version":
		fmt.Printf("linkedin-scraper %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `linkedin-scraper - LinkedIn profile, company and job crawler

Usage:
  linkedin-scraper <command> [options] [args]

Commands:
  person          Scrape profiles by URL
  people-profile  Scrape public profiles by profile id
  people          Search people (-query, -location, -details N)
  company         Scrape company pages by URL (-employees)
  jobs            Search jobs via the guest API (-query, -location, -details N, -max-pages)
  job             Scrape job postings by URL
  validate        Validate configuration and selector tables
  check-proxies   Probe configured proxies and report which are live
  version         Show version info

Common options: -config, -loglevel, -output, -concurrency, -resume
Run 'linkedin-scraper <command> -h' for command-specific help.`)
}

// loadConfig reads path, applies environment overrides and validates.
// Warnings are returned for the caller to log.
func loadConfig(path string, lookup config.LookupFunc) (*config.AppConfig, []string, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	warnings := cfg.ApplyEnv(lookup)
	validateWarnings, err := cfg.Validate()
	warnings = append(warnings, validateWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	return &cfg, warnings, nil
}

func runValidate(args []string) int {
	fs := newFlagSet("validate", os.Stderr)
	configFile := fs.String("config", "", "Path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	return doValidate(*configFile, os.LookupEnv, os.Stdout, os.Stderr)
}

// doValidate checks the config and every selector table.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, lookup config.LookupFunc, stdout, stderr io.Writer) int {
	cfg, warnings, err := loadConfig(configPath, lookup)
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "OK: config (concurrency %d, retries %d, timeout %v, %d proxies)\n",
		cfg.ConcurrentRequests, cfg.Retries(), cfg.RequestTimeout, len(cfg.Proxies))

	reg, err := selectors.Default()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "OK: %d selector chains compiled\n", reg.Count())

	fmt.Fprintln(stdout, "\nConfiguration valid.")
	return 0
}

func runCheckProxies(args []string) int {
	fs := newFlagSet("check-proxies", os.Stderr)
	configFile := fs.String("config", "", "Path to YAML config file")
	logLevel := fs.String("loglevel", "warn", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log, closer := applog.Setup(applog.Options{Level: *logLevel})
	defer closer.Close()

	ctx, stop := signalContext(log)
	defer stop()
	return doCheckProxies(ctx, *configFile, os.LookupEnv, log.WithField("command", "check-proxies"), os.Stdout, os.Stderr)
}

// doCheckProxies probes every configured proxy and prints one line per proxy.
// Returns 1 when none are live.
func doCheckProxies(ctx context.Context, configPath string, lookup config.LookupFunc, log *logrus.Entry, stdout, stderr io.Writer) int {
	cfg, warnings, err := loadConfig(configPath, lookup)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		log.Warn(w)
	}
	if len(cfg.Proxies) == 0 {
		fmt.Fprintln(stderr, "ERROR: no proxies configured (set 'proxies' or PROXIES)")
		return 1
	}

	client := fetch.NewClient(cfg, log)
	live := fetch.CheckProxies(ctx, client, cfg.Proxies, cfg.ProxyCheckURL, cfg.ProxyCheckTimeout, log)
	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(stderr, "Interrupted.")
		return 1
	}

	alive := make(map[string]bool, len(live))
	for _, p := range live {
		alive[p] = true
	}
	for _, p := range cfg.Proxies {
		state := "DEAD"
		if alive[p] {
			state = "LIVE"
		}
		fmt.Fprintf(stdout, "%s  %s\n", state, p)
	}
	fmt.Fprintf(stdout, "\n%d of %d proxies live via %s\n", len(live), len(cfg.Proxies), cfg.ProxyCheckURL)
	if len(live) > 0 {
		fmt.Fprintf(stdout, "PROXIES=%s\n", strings.Join(live, ","))
		return 0
	}
	return 1
}
