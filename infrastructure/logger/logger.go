package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	logger.Out = os.Stdout
	// LOG_TO_FILE=true writes to logs/<date><env>.log under the working
	// directory instead.
	if os.Getenv("LOG_TO_FILE") == "true" {
		if f, err := openLogFile(os.Getenv("ENV")); err != nil {
			log.Warnf("Failed to open log file: %v, falling back to stdout", err)
		} else {
			logger.Out = f
		}
	}
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.InfoLevel)
}

func openLogFile(env string) (*os.File, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), env))
	return os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// Configure sets the formatter ("json" or "text") and the level name.
func Configure(format, level string) error {
	switch strings.ToLower(format) {
	case "", "json":
		logger.Formatter = &log.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	case "text":
		logger.Formatter = &log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	if level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// SetOutput redirects the logger, mainly for tests.
func SetOutput(w io.Writer) {
	logger.Out = w
}

func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	functionObject := runtime.FuncForPC(function)
	entry := logger.WithFields(log.Fields{
		"function": functionObject.Name(),
		"file":     file,
		"line":     line,
	})

	return entry
}
