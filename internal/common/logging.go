// Package common holds the diagnostic logger used across gong-mcp.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const (
	timeFormat      = "2006-01-02T15:04:05Z07:00"
	defaultLogFile  = "logs/gong-mcp.log"
	defaultLogBytes = 500 * 1024
	defaultBackups  = 20
)

// LoggingConfig is the [logging] table of the config file.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Logger is the arbor logger handed to every component.
type Logger struct {
	arbor.ILogger
}

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (d *discardWriter) WithLevel(_ log.Level) writers.IWriter { return d }
func (d *discardWriter) GetFilePath() string                   { return "" }
func (d *discardWriter) Close() error                          { return nil }

// lineWriter renders arbor's JSON events as "message k=v ..." lines on out.
type lineWriter struct {
	out     io.Writer
	minimum log.Level
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return lw.out.Write(p)
	}
	if evt.Level < lw.minimum {
		return len(p), nil
	}

	names := make([]string, 0, len(evt.Fields))
	for name := range evt.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var line strings.Builder
	line.WriteString(evt.Message)
	for _, name := range names {
		fmt.Fprintf(&line, " %s=%v", name, evt.Fields[name])
	}
	if evt.Error != "" {
		fmt.Fprintf(&line, " error=%s", evt.Error)
	}
	line.WriteByte('\n')

	if _, err := io.WriteString(lw.out, line.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (lw *lineWriter) WithLevel(level log.Level) writers.IWriter {
	lw.minimum = level
	return lw
}

func (lw *lineWriter) GetFilePath() string { return "" }
func (lw *lineWriter) Close() error        { return nil }

// NewLogger logs to stderr at level.
func NewLogger(level string) *Logger {
	return NewLoggerFromConfig(LoggingConfig{Level: level})
}

// NewLoggerFromConfig builds a logger for the configured outputs
// ("console", "file"). Console output goes to stderr because stdout
// belongs to the stdio transport.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: timeFormat,
			})
		case "file":
			l = l.WithFileWriter(fileWriterConfig(cfg))
		}
	}
	return &Logger{ILogger: l.WithLevelFromString(level)}
}

func fileWriterConfig(cfg LoggingConfig) models.WriterConfiguration {
	wc := models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   cfg.FilePath,
		MaxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		MaxBackups: cfg.MaxBackups,
		TimeFormat: timeFormat,
	}
	if wc.FileName == "" {
		wc.FileName = defaultLogFile
	}
	if wc.MaxSize <= 0 {
		wc.MaxSize = defaultLogBytes
	}
	if wc.MaxBackups <= 0 {
		wc.MaxBackups = defaultBackups
	}
	return wc
}

// NewLoggerWithOutput sends text lines to w. Used by tests that assert on
// log output; w replaces arbor's global console writer.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	arbor.RegisterWriter(arbor.WRITER_CONSOLE, &lineWriter{out: w, minimum: log.TraceLevel})

	l := arbor.NewLogger().
		WithMemoryWriter(models.WriterConfiguration{Type: models.LogWriterTypeMemory}).
		WithLevelFromString(level)
	return &Logger{ILogger: l}
}

// NewSilentLogger drops every event, global writers included.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId tags every event from the returned logger with id.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
