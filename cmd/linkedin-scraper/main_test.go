package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"
	"github.com/Sriram-PR/linkedin-scraper/pkg/extract"
	"github.com/Sriram-PR/linkedin-scraper/pkg/selectors"
	"github.com/Sriram-PR/linkedin-scraper/pkg/spiders"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testEngine(t *testing.T) *extract.Engine {
	t.Helper()
	reg, err := selectors.Default()
	require.NoError(t, err)
	return extract.NewEngine(reg, "")
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
concurrent_requests: 4
output_dir: "./out"
session:
  token: "from-file"
`)
	cfg, warnings, err := loadConfig(path, envOf(map[string]string{"MAX_RETRIES": "5", "LINKEDIN_SESSION_TOKEN": "from-env"}))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, cfg.ConcurrentRequests)
	assert.Equal(t, 5, cfg.Retries())
	assert.Equal(t, "from-env", cfg.Session.Token)
	assert.Equal(t, "./out", cfg.OutputDir)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	cfg, warnings, err := loadConfig("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ConcurrentRequests)
	assert.Equal(t, "data", cfg.OutputDir)
	assert.NotEmpty(t, warnings, "missing session should warn")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := loadConfig("/nonexistent/path/config.yaml", noEnv)
	require.Error(t, err)

	_, _, err = loadConfig(writeConfig(t, "{{invalid yaml"), noEnv)
	require.Error(t, err)

	_, _, err = loadConfig(writeConfig(t, `proxies: ["::bad"]`), noEnv)
	require.Error(t, err)
}

func TestDoValidate(t *testing.T) {
	path := writeConfig(t, "session:\n  token: abc\n")

	var stdout, stderr bytes.Buffer
	exitCode := doValidate(path, noEnv, &stdout, &stderr)

	assert.Equal(t, 0, exitCode, stderr.String())
	assert.Contains(t, stdout.String(), "OK: config")
	assert.Contains(t, stdout.String(), "selector chains compiled")
	assert.Contains(t, stdout.String(), "Configuration valid")
	assert.NotContains(t, stdout.String(), "WARN")
}

func TestDoValidate_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "origin: \"not a url\"\n")

	var stdout, stderr bytes.Buffer
	exitCode := doValidate(path, noEnv, &stdout, &stderr)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "ERROR")
	assert.NotContains(t, stdout.String(), "Configuration valid")
}

func TestParseCrawlCommand_Tasks(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		taskName string
	}{
		{"person", []string{"https://www.linkedin.com/in/jane/"}, spiders.NamePerson},
		{"people-profile", []string{"jane-doe"}, spiders.NamePeopleProfile},
		{"company", []string{"-employees", "https://www.linkedin.com/company/acme/"}, spiders.NameCompany},
		{"job", []string{"https://www.linkedin.com/jobs/view/1/"}, spiders.NameJob},
		{"jobs", []string{"-query", "golang", "-location", "Berlin", "-max-pages", "3"}, spiders.NameJobs},
		{"people", []string{"-query", "recruiter", "-details", "5"}, spiders.NamePeopleSearch},
	}
	engine := testEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parseCrawlCommand(tt.name, tt.args, io.Discard)
			require.NoError(t, err)
			task := cmd.newTask(engine)
			assert.Equal(t, tt.taskName, task.Name())
			assert.NotEmpty(t, task.Seeds())
		})
	}
}

func TestParseCrawlCommand_CommonFlags(t *testing.T) {
	cmd, err := parseCrawlCommand("person", []string{
		"-config", "c.yaml", "-loglevel", "debug", "-output", "out", "-concurrency", "6", "-resume",
		"https://www.linkedin.com/in/a/", "https://www.linkedin.com/in/b/",
	}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, commonFlags{configFile: "c.yaml", logLevel: "debug", output: "out", concurrency: 6, resume: true}, cmd.common)
	assert.Len(t, cmd.newTask(testEngine(t)).Seeds(), 2)

	cfg := &config.AppConfig{OutputDir: "data", ConcurrentRequests: 1}
	cmd.applyFlags(cfg)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 6, cfg.ConcurrentRequests)
	assert.Equal(t, 6, cfg.HTTPClientSettings.MaxIdleConnsPerHost)
}

func TestParseCrawlCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"person", nil},
		{"company", []string{"-employees"}},
		{"jobs", []string{"-location", "Berlin"}},
		{"people", []string{"-query", "  "}},
		{"people", []string{"-query", "recruiter", "-details"}},
		{"jobs", []string{"-query", "golang", "-details", "-1"}},
		{"job", []string{"-unknown-flag"}},
		{"bogus", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := parseCrawlCommand(tt.name, tt.args, &stderr)
			assert.Error(t, err)
		})
	}
}

func TestJobsFlagsReachTask(t *testing.T) {
	cmd, err := parseCrawlCommand("jobs", []string{"-query", "go developer", "-location", "Remote"}, io.Discard)
	require.NoError(t, err)
	seeds := cmd.newTask(testEngine(t)).Seeds()
	require.Len(t, seeds, 1)
	assert.Contains(t, seeds[0].URL, "keywords=go+developer")
	assert.Contains(t, seeds[0].URL, "location=Remote")
	assert.Contains(t, seeds[0].URL, "start=0")
}

func TestPeopleFlagsReachTask(t *testing.T) {
	cmd, err := parseCrawlCommand("people", []string{"-query", "recruiter", "-location", "103644278", "-details", "2"}, io.Discard)
	require.NoError(t, err)
	seeds := cmd.newTask(testEngine(t)).Seeds()
	require.Len(t, seeds, 1)
	assert.Contains(t, seeds[0].URL, "keywords=recruiter")
	assert.Contains(t, seeds[0].URL, "geoUrn=103644278")
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsageTo(&buf)
	for _, cmd := range []string{"person", "people-profile", "people", "company", "jobs", "job", "validate", "check-proxies", "version"} {
		assert.Contains(t, buf.String(), "  "+cmd+" ")
	}
}

func TestDoCheckProxies(t *testing.T) {
	// Any request reaching this server counts as proxied successfully
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"origin": "203.0.113.7"}`)
	}))
	defer proxy.Close()

	path := writeConfig(t, fmt.Sprintf(`
proxies: ["%s", "http://127.0.0.1:1"]
proxy_check_url: "http://check.invalid/ip"
proxy_check_timeout: 2s
`, proxy.URL))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var stdout, stderr bytes.Buffer
	exitCode := doCheckProxies(context.Background(), path, noEnv, logrus.NewEntry(logger), &stdout, &stderr)

	assert.Equal(t, 0, exitCode, stderr.String())
	assert.Contains(t, stdout.String(), "LIVE  "+proxy.URL)
	assert.Contains(t, stdout.String(), "DEAD  http://127.0.0.1:1")
	assert.Contains(t, stdout.String(), "1 of 2 proxies live")
	assert.Contains(t, stdout.String(), "PROXIES="+proxy.URL)
}

func TestDoCheckProxies_NoneConfigured(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var stdout, stderr bytes.Buffer
	exitCode := doCheckProxies(context.Background(), "", noEnv, logrus.NewEntry(logger), &stdout, &stderr)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "no proxies configured")
}
