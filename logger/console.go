package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

const isWindows = runtime.GOOS == "windows"

var noColor = os.Getenv("TERM") == "dumb" ||
	(!isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()))

const (
	Reset       = "\033[0m"
	Red         = "\033[31m"
	Green       = "\033[32m"
	Magenta     = "\033[35m"
	WhiteBold   = "\033[37;1m"
	BlueBold    = "\033[34;1m"
	MagentaBold = "\033[35;1m"
	RedBold     = "\033[31;1m"
	YellowBold  = "\033[33;1m"
	CyanBold    = "\033[36;1m"
	Gray        = "\033[1;90m"
	Purple      = "\u001b[38;5;200m"
)

type levelStyle struct {
	level   string
	message string
}

var consoleStyles = map[LogLevel]levelStyle{
	LevelTrace: {CyanBold, Gray},
	LevelDebug: {BlueBold, Green},
	LevelInfo:  {YellowBold, WhiteBold},
	LevelWarn:  {MagentaBold, Magenta},
	LevelError: {RedBold, Red},
}

type consoleLogger struct {
	prefixes  []string
	metadata  map[string]interface{}
	sink      Sink
	logLevel  LogLevel
	colorize  bool
	timestamp bool
	child     Logger
}

var _ Logger = (*consoleLogger)(nil)

func (c *consoleLogger) clone() *consoleLogger {
	return &consoleLogger{
		prefixes:  slices.Clone(c.prefixes),
		metadata:  copyMetadata(nil, c.metadata),
		sink:      c.sink,
		logLevel:  c.logLevel,
		colorize:  c.colorize,
		timestamp: c.timestamp,
		child:     c.child,
	}
}

func (c *consoleLogger) color(val string) string {
	if !c.colorize {
		return ""
	}
	return val
}

// WithPrefix will return a new logger with a prefix prepended to the message
func (c *consoleLogger) WithPrefix(prefix string) Logger {
	l := c.clone()
	if !slices.Contains(l.prefixes, prefix) {
		l.prefixes = append(l.prefixes, prefix)
	}
	if l.child != nil {
		l.child = l.child.WithPrefix(prefix)
	}
	return l
}

func (c *consoleLogger) With(metadata map[string]interface{}) Logger {
	l := c.clone()
	copyMetadata(l.metadata, metadata)
	if l.child != nil {
		l.child = l.child.With(metadata)
	}
	return l
}

func (c *consoleLogger) IsLevelEnabled(level LogLevel) bool {
	return level >= c.logLevel && level < LevelNone
}

func (c *consoleLogger) log(level LogLevel, msg string, args ...interface{}) {
	if !c.IsLevelEnabled(level) {
		return
	}
	style := consoleStyles[level]
	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}
	var b strings.Builder
	if c.timestamp {
		b.WriteString(time.Now().Format(time.RFC3339Nano))
		b.WriteByte(' ')
	}
	name := level.String()
	b.WriteString(c.color(style.level))
	fmt.Fprintf(&b, "[%s]%s", name, strings.Repeat(" ", max(0, 5-len(name))))
	b.WriteString(c.color(Reset))
	b.WriteByte(' ')
	if len(c.prefixes) > 0 {
		b.WriteString(c.color(Purple) + strings.Join(c.prefixes, " ") + c.color(Reset) + " ")
	}
	b.WriteString(c.color(style.message) + text + c.color(Reset))
	if len(c.metadata) > 0 {
		buf, _ := json.Marshal(c.metadata)
		b.WriteString(" " + c.color(Gray) + string(buf) + c.color(Reset))
	}
	b.WriteByte('\n')
	c.sink.Write([]byte(b.String()))
}

func (c *consoleLogger) Trace(msg string, args ...interface{}) {
	c.log(LevelTrace, msg, args...)
	if c.child != nil {
		c.child.Trace(msg, args...)
	}
}

func (c *consoleLogger) Debug(msg string, args ...interface{}) {
	c.log(LevelDebug, msg, args...)
	if c.child != nil {
		c.child.Debug(msg, args...)
	}
}

func (c *consoleLogger) Info(msg string, args ...interface{}) {
	c.log(LevelInfo, msg, args...)
	if c.child != nil {
		c.child.Info(msg, args...)
	}
}

func (c *consoleLogger) Warn(msg string, args ...interface{}) {
	c.log(LevelWarn, msg, args...)
	if c.child != nil {
		c.child.Warn(msg, args...)
	}
}

func (c *consoleLogger) Error(msg string, args ...interface{}) {
	c.log(LevelError, msg, args...)
	if c.child != nil {
		c.child.Error(msg, args...)
	}
}

func (c *consoleLogger) Stack(next Logger) Logger {
	l := c.clone()
	l.child = next
	return l
}

// NewConsoleLogger returns a new Logger instance which will log to stderr.
// When no level is given the level is read from the environment.
func NewConsoleLogger(levels ...LogLevel) Logger {
	level := GetLevelFromEnv()
	if len(levels) > 0 {
		level = levels[0]
	}
	return &consoleLogger{
		sink:     os.Stderr,
		logLevel: level,
		colorize: !isWindows && !noColor,
	}
}

// NewConsoleLoggerWithSink returns a console logger writing uncolored,
// timestamped lines to sink.
func NewConsoleLoggerWithSink(sink Sink, level LogLevel) Logger {
	return &consoleLogger{
		sink:      sink,
		logLevel:  level,
		timestamp: true,
	}
}

// StripColor removes ANSI color sequences from val.
func StripColor(val string) string {
	return ansiColorStripper.ReplaceAllString(val, "")
}
