// log/log.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes structured records with the call stack of the logging
// site attached. Its methods may be called with a nil *Logger, in which
// case debug and info messages are discarded and warnings and errors go
// to the default slog logger.
type Logger struct {
	*slog.Logger
	LogFile string
	LogDir  string
	Start   time.Time
}

// New returns a Logger that writes JSON records at the given level to a
// rotated log file in dir. If dir is empty, a "bunnymark" directory under
// the user's config directory is used.
func New(level string, dir string) *Logger {
	if dir == "" {
		dir = defaultDir()
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "bunnymark.slog"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}
	if level == "debug" {
		w.MaxSize = 512
	}

	l := NewWithHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	l.LogFile, l.LogDir = w.Filename, dir
	l.logStartup()
	return l
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to find user config dir: %v\n", err)
		return "."
	}
	return filepath.Join(dir, "bunnymark")
}

// logStartup records the system and the build being run so that logs
// from different machines can be compared.
func (l *Logger) logStartup() {
	l.Info("Logging started", slog.Time("start", l.Start), slog.String("file", l.LogFile))
	l.Info("System", slog.String("GOARCH", runtime.GOARCH), slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	deps := make([]any, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		if dep.Replace != nil {
			deps = append(deps, slog.String(dep.Path, dep.Version+" => "+dep.Replace.Path+" "+dep.Replace.Version))
		} else {
			deps = append(deps, slog.String(dep.Path, dep.Version))
		}
	}
	settings := make([]any, 0, len(bi.Settings))
	for _, s := range bi.Settings {
		settings = append(settings, slog.String(s.Key, s.Value))
	}
	l.Info("Build", slog.String("go", bi.GoVersion), slog.String("path", bi.Path),
		slog.Group("deps", deps...), slog.Group("settings", settings...))
}

// NewWithHandler returns a Logger that sends its records to h; it is
// mostly useful for tests that want to capture log output.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{
		Logger: slog.New(h),
		LogDir: ".",
		Start:  time.Now(),
	}
}

// ParseLevel maps a level name to a slog.Level. Unknown names are
// reported on stderr and map to slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
		return slog.LevelInfo
	}
}

func (l *Logger) enabled(level slog.Level) bool {
	return l != nil && l.Logger.Enabled(context.Background(), level)
}

// record logs msg with the call stack starting at the caller of the
// exported logging method. Errors go to the default slog logger (stderr)
// as well as to l.
func (l *Logger) record(level slog.Level, msg string, args []any) {
	args = append([]any{slog.Any("callstack", Callstack(2))}, args...)
	ctx := context.Background()
	if l == nil || level >= slog.LevelError {
		slog.Log(ctx, level, msg, args...)
	}
	if l != nil {
		l.Logger.Log(ctx, level, msg, args...)
	}
}

// Only these methods attach call stacks; the rest of the slog.Logger
// interface (DebugContext, Log, ...) is passed through as is.

func (l *Logger) Debug(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		l.record(slog.LevelDebug, msg, args)
	}
}

// Debugf is a convenience wrapper that logs just a message and allows
// printf-style formatting of the provided args.
func (l *Logger) Debugf(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		l.record(slog.LevelDebug, fmt.Sprintf(msg, args...), nil)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.record(slog.LevelInfo, msg, args)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.record(slog.LevelInfo, fmt.Sprintf(msg, args...), nil)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	l.record(slog.LevelWarn, msg, args)
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.record(slog.LevelWarn, fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) Error(msg string, args ...any) {
	l.record(slog.LevelError, msg, args)
}

func (l *Logger) Errorf(msg string, args ...any) {
	l.record(slog.LevelError, fmt.Sprintf(msg, args...), nil)
}

// With returns a Logger that includes the given attributes in each
// record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	nl := *l
	nl.Logger = l.Logger.With(args...)
	return &nl
}

// CatchAndReportCrash must be called via defer. If the goroutine is
// panicking, it logs the panic value, prints a report with the stack to
// stderr, saves the report in the log directory and returns the panic
// value; otherwise it returns nil.
func (l *Logger) CatchAndReportCrash() any {
	// Let the debugger stop at the panic.
	if dlv, ok := os.LookupEnv("_"); ok && filepath.Base(dlv) == "dlv" {
		return nil
	}

	err := recover()
	if err == nil {
		return nil
	}
	l.Errorf("Crashed: %v", err)

	var report strings.Builder
	fmt.Fprintf(&report, "Crashed: %v\n", err)
	fmt.Fprintf(&report, "Sys: %s/%s\n", runtime.GOARCH, runtime.GOOS)
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			fmt.Fprintf(&report, "%s: %s\n", s.Key, s.Value)
		}
	}
	report.Write(debug.Stack())

	// stdout carries the frame time series, so the report goes to stderr.
	fmt.Fprintln(os.Stderr, report.String())

	dir := "."
	if l != nil && l.LogDir != "" {
		dir = l.LogDir
	}
	fn := filepath.Join(dir, "crash-"+time.Now().Format("20060102-150405")+".txt")
	if werr := os.WriteFile(fn, []byte(report.String()), 0o600); werr == nil {
		fmt.Fprintf(os.Stderr, "Crash report saved to %s\n", fn)
	}

	return err
}
