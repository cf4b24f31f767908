package mcp

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiagnosticLogger keeps server diagnostics off stdio, which carries the
// MCP protocol. In MCP mode output goes to a timestamped file.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
}

// NewDiagnosticLogger logs to a file under the temp directory in MCP mode
// and to stderr otherwise. A log file that cannot be created silences the
// logger rather than failing startup.
func NewDiagnosticLogger(isMCP bool) *DiagnosticLogger {
	if !isMCP {
		return NewWriterLogger(os.Stderr)
	}

	logDir := filepath.Join(os.TempDir(), "docnav-mcp-logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return NewWriterLogger(io.Discard)
	}
	logPath := filepath.Join(logDir, fmt.Sprintf("mcp-%s.log", time.Now().Format("2006-01-02T150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return NewWriterLogger(io.Discard)
	}
	return &DiagnosticLogger{
		file:     file,
		filePath: logPath,
		logger:   log.New(file, "[MCP] ", log.LstdFlags|log.Lshortfile),
	}
}

// NewWriterLogger logs to w
func NewWriterLogger(w io.Writer) *DiagnosticLogger {
	return &DiagnosticLogger{logger: log.New(w, "[MCP] ", log.LstdFlags)}
}

func (dl *DiagnosticLogger) Printf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf(format, v...)
}

func (dl *DiagnosticLogger) Errorf(format string, v ...interface{}) {
	dl.Printf("ERROR: "+format, v...)
}

// Close closes the log file if one is open
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}

// LogPath returns the log file path, empty outside MCP mode
func (dl *DiagnosticLogger) LogPath() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}

// NoOpLogger discards everything
var NoOpLogger = NewWriterLogger(io.Discard)
