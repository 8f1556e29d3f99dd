// Package logger is the levelled console logger shared by the freetar
// executables and the library service.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// EnvLevel names the variable read by GetLogger.
const EnvLevel = "FREETAR_LOG_LEVEL"

var levelNames = [...]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR"}

var levelColors = [...]string{DEBUG: "\033[90m", INFO: "\033[34m", WARN: "\033[33m", ERROR: "\033[31m"}

const colorReset = "\033[0m"

func (l LogLevel) String() string {
	if l < DEBUG || l > ERROR {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a level name (any case) to its LogLevel.
func ParseLevel(s string) (LogLevel, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return WARN, true
	}
	for lvl, name := range levelNames {
		if name == s {
			return LogLevel(lvl), true
		}
	}
	return INFO, false
}

type Config struct {
	Level  LogLevel
	Prefix string
	// Color wraps level tags in ANSI colours.
	Color bool
	// TimeFormat stamps every line when set.
	TimeFormat string
	Output     io.Writer
}

type Logger struct {
	mu     *sync.Mutex
	cfg    Config
	prefix string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{mu: &sync.Mutex{}, cfg: cfg, prefix: cfg.Prefix}
}

// GetLogger returns the process-wide stderr logger, levelled from
// FREETAR_LOG_LEVEL and coloured only on a terminal.
func GetLogger() *Logger {
	once.Do(func() {
		cfg := Config{
			Level:      INFO,
			Color:      isatty.IsTerminal(os.Stderr.Fd()),
			TimeFormat: "2006-01-02 15:04:05",
			Output:     os.Stderr,
		}
		if lvl, ok := ParseLevel(os.Getenv(EnvLevel)); ok {
			cfg.Level = lvl
		}
		defaultLogger = New(cfg)
	})
	return defaultLogger
}

// With returns a logger sharing l's output that tags every line with
// component.
func (l *Logger) With(component string) *Logger {
	prefix := component
	if l.prefix != "" {
		prefix = l.prefix + "/" + component
	}
	return &Logger{mu: l.mu, cfg: l.cfg, prefix: prefix}
}

func (l *Logger) logf(level LogLevel, format string, args []any) {
	if level < l.cfg.Level {
		return
	}

	var b strings.Builder
	if l.cfg.TimeFormat != "" {
		b.WriteString(time.Now().Format(l.cfg.TimeFormat))
		b.WriteByte(' ')
	}
	tag := "[" + level.String() + "]"
	if l.cfg.Color {
		tag = levelColors[level] + tag + colorReset
	}
	b.WriteString(tag)
	if l.prefix != "" {
		b.WriteString(" (" + l.prefix + ")")
	}
	b.WriteByte(' ')
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	b.WriteString(format)
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.cfg.Output, b.String())
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(DEBUG, format, args) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(INFO, format, args) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(WARN, format, args) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(ERROR, format, args) }
