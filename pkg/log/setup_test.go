package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := Setup(Options{Level: "debug", Out: &buf})
	defer closer.Close()

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := Setup(Options{Level: "chatty", Out: &buf})
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level 'chatty'")
}

func TestSetup_TeesIntoFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "scraper.log")
	logger, closer := Setup(Options{Out: &buf, File: path})

	logger.WithField("component", "test").Info("hello file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, string(data), "component=test")
	assert.Contains(t, buf.String(), "hello file")
}
