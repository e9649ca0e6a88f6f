// Package logging provides leveled console output for the embedding
// pipeline. Output is advisory monitoring only; usage accounting and
// ranking results are the data of record, not the log stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger provides structured logging to stdout.
type Logger struct {
	mu        sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

// WithComponent returns a new logger with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stdout).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry in traditional format: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Pipeline event methods ---
// Called by the embedding client and matcher for real-time visibility
// into throttling, retries, and batch progress.

// RetryAttempt logs a failed attempt and the delay before the next one.
func (l *Logger) RetryAttempt(attempt, maxAttempts int, delay time.Duration, err error) {
	l.Warn("retry_attempt", map[string]interface{}{
		"attempt": attempt,
		"max":     maxAttempts,
		"delay":   delay.String(),
		"error":   err.Error(),
	})
}

// RateLimitWait logs a throttling sleep before an outbound request.
func (l *Logger) RateLimitWait(d time.Duration) {
	l.Debug("rate_limit_wait", map[string]interface{}{
		"sleep": d.String(),
	})
}

// BatchStart logs the start of a chunked embedding run.
func (l *Logger) BatchStart(texts, batchSize int) {
	l.Info("batch_start", map[string]interface{}{
		"texts":      texts,
		"batch_size": batchSize,
	})
}

// BatchChunk logs progress through the chunks of a batch run.
func (l *Logger) BatchChunk(chunk, totalChunks, size, tokens int, cost float64) {
	l.Info("batch_chunk", map[string]interface{}{
		"chunk":  chunk,
		"total":  totalChunks,
		"size":   size,
		"tokens": tokens,
		"cost":   fmt.Sprintf("$%.6f", cost),
	})
}

// BatchChunkFailed logs a chunk that exhausted its retry budget.
func (l *Logger) BatchChunkFailed(chunk, totalChunks, size int, err error) {
	l.Error("batch_chunk_failed", map[string]interface{}{
		"chunk": chunk,
		"total": totalChunks,
		"size":  size,
		"error": err.Error(),
	})
}

// BatchComplete logs the end of a chunked embedding run.
func (l *Logger) BatchComplete(vectors, failed int, duration time.Duration) {
	l.Info("batch_complete", map[string]interface{}{
		"vectors":  vectors,
		"failed":   failed,
		"duration": duration.String(),
	})
}

// EmptyInput logs a skipped blank text.
func (l *Logger) EmptyInput() {
	l.Warn("empty_input_skipped")
}

// UsageSnapshot logs cumulative provider usage.
func (l *Logger) UsageSnapshot(requests, tokens int, costUSD float64) {
	l.Info("usage", map[string]interface{}{
		"requests": requests,
		"tokens":   tokens,
		"cost":     fmt.Sprintf("$%.6f", costUSD),
	})
}

// RankingComplete logs a finished similarity ranking pass.
func (l *Logger) RankingComplete(candidates, ranked int, duration time.Duration) {
	l.Info("ranking_complete", map[string]interface{}{
		"candidates": candidates,
		"ranked":     ranked,
		"duration":   duration.String(),
	})
}
