package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control logger construction
type Options struct {
	Level   string    // logrus level name; invalid or empty falls back to info
	File    string    // optional rotating log file, tee'd with Out
	Out     io.Writer // defaults to os.Stderr
	MaxSize int       // megabytes before rotation, default 50
}

// Setup creates a configured logrus.Logger. The returned closer releases the log file, if any.
func Setup(opts Options) (*logrus.Logger, io.Closer) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		maxSize := opts.MaxSize
		if maxSize <= 0 {
			maxSize = 50
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		}
		out = io.MultiWriter(out, rotating)
		closer = rotating
	}
	log.SetOutput(out)

	if opts.Level != "" {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", opts.Level, err)
		} else {
			log.SetLevel(level)
		}
	}

	return log, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
