package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// BadgerLogger routes badger's internal logging into the crawl log under component=seen_store.
// Badger's info chatter (compactions, value log GC) is demoted to debug.
type BadgerLogger struct {
	entry *logrus.Entry
}

// NewBadgerLogger wraps entry for use as badger.Options.Logger
func NewBadgerLogger(entry *logrus.Entry) *BadgerLogger {
	return &BadgerLogger{entry: entry.WithField("component", "seen_store")}
}

// badger terminates most messages with a newline
func badgerMessage(f string, v []any) string {
	return strings.TrimRight(fmt.Sprintf(f, v...), "\n")
}

func (l *BadgerLogger) Errorf(f string, v ...any)   { l.entry.Error(badgerMessage(f, v)) }
func (l *BadgerLogger) Warningf(f string, v ...any) { l.entry.Warn(badgerMessage(f, v)) }
func (l *BadgerLogger) Infof(f string, v ...any)    { l.entry.Debug(badgerMessage(f, v)) }
func (l *BadgerLogger) Debugf(f string, v ...any)   { l.entry.Trace(badgerMessage(f, v)) }
