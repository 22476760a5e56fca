// Package mcplog sets up the bridge's logging sink.
//
// The MCP transport owns stdout; every log line must go to the file named by
// MCP_LOG_FILE, or a default path under the temp directory when that
// variable is unset. The sink must be established before any other
// subsystem logs, so New is called first thing in cmd.Options.Run.
package mcplog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

const (
	// EnvLogFile names the environment variable carrying the log file path.
	EnvLogFile = "MCP_LOG_FILE"
	// EnvLogLevel names the environment variable carrying the verbosity level.
	EnvLogLevel = "REVIEW_BRIDGE_LOG_LEVEL"
)

// defaultLogFileName is where logs land when MCP_LOG_FILE is unset. This
// bridge has no GUI mode to fall back to stderr for: MCP mode always logs to
// a file.
const defaultLogFileName = "review-bridge-mcp-server.log"

// New builds the process-wide logger. level follows logr's V-level
// convention: higher means more verbose. If path is empty, New consults
// MCP_LOG_FILE, then falls back to a fixed path in the temp directory.
func New(path string, level int) (logr.Logger, func(), error) {
	if path == "" {
		path = os.Getenv(EnvLogFile)
	}
	if path == "" {
		path = filepath.Join(os.TempDir(), defaultLogFileName)
	}

	var w io.Writer
	var closer func()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	w = f
	closer = func() { _ = f.Close() }

	logger := funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{
		LogTimestamp: true,
		Verbosity:    level,
	})

	return logger.WithName("review-bridge"), closer, nil
}

// LevelFromEnv reads REVIEW_BRIDGE_LOG_LEVEL, defaulting to 0.
func LevelFromEnv() int {
	v := os.Getenv(EnvLogLevel)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
