package logs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	Logger  *log.Logger
	logFile *os.File
	mu      sync.Mutex
)

// This runs automatically when the package is imported.
// Writes to debug.log in the current directory until Initialize points it
// somewhere else.
func init() {
	f, err := os.OpenFile("debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Read-only working directory: keep going on stderr
		Logger = log.New(os.Stderr, "[readings] ", log.LstdFlags|log.Lshortfile)
		return
	}
	logFile = f
	Logger = log.New(f, "[readings] ", log.LstdFlags|log.Lshortfile)
}

// Initialize reinitializes the logger to write to debug.log inside logDir.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" || logDir == "." {
		return nil
	}

	logPath := filepath.Join(logDir, "debug.log")

	Logger.Printf("Reinitializing logger to: %s", logPath)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger.Printf("Failed to open new log file at %s: %v", logPath, err)
		return err
	}

	if logFile != nil {
		logFile.Close()
	}

	logFile = f
	Logger = log.New(f, "[readings] ", log.LstdFlags|log.Lshortfile)

	Logger.Printf("Logger successfully reinitialized to: %s", logPath)

	return nil
}

// Warn logs an advisory warning. Warnings never stop processing.
func Warn(format string, args ...any) {
	Logger.Output(2, fmt.Sprintf("WARNING: "+format, args...))
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
