// Package logger wires a process-wide zerolog logger, following the
// init/Get/Close pattern in smcdaniel54-LlamaGate/internal/logger/logger.go.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	fileHandle *os.File
	fileMutex  sync.Mutex
	closed     bool
)

// Init configures the global logger: debug toggles verbosity, logFile
// optionally tees output to a file in addition to stdout.
func Init(debug bool, logFile string) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	writers := []io.Writer{os.Stdout}

	if logFile != "" {
		fileMutex.Lock()
		if fileHandle != nil {
			if err := fileHandle.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close previous log file handle")
			}
			fileHandle = nil
		}
		fileMutex.Unlock()

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			log.Warn().Err(err).Str("log_file", logFile).Msg("failed to open log file, logging to stdout only")
		} else {
			fileMutex.Lock()
			fileHandle = f
			closed = false
			fileMutex.Unlock()
			writers = append(writers, f)
		}
	}

	var output io.Writer
	if len(writers) > 1 {
		output = io.MultiWriter(writers...)
	} else {
		output = writers[0]
	}

	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()
}

// Close closes the log file handle, if any, and falls back the global
// logger to stdout. Safe to call multiple times.
func Close() {
	fileMutex.Lock()
	defer fileMutex.Unlock()
	if fileHandle != nil {
		if err := fileHandle.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close log file handle")
		}
		fileHandle = nil
	}
	if !closed {
		closed = true
		level := zerolog.GlobalLevel()
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(level)
	}
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}
