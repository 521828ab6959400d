package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// JSONLogEntry is a single structured log line.
type JSONLogEntry struct {
	Timestamp time.Time              `json:"timestamp,omitempty"`
	Message   string                 `json:"message"`
	Severity  string                 `json:"severity,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Component string                 `json:"component,omitempty"`
}

// String renders an entry as a single JSON object.
func (e JSONLogEntry) String() string {
	if e.Severity == "" {
		e.Severity = "INFO"
	}
	out, err := json.Marshal(e)
	if err != nil {
		log.Printf("json.Marshal: %v", err)
	}
	return string(out)
}

type jsonLogger struct {
	metadata  map[string]interface{}
	component string
	sink      Sink
	logLevel  LogLevel
	now       func() time.Time
	child     Logger
}

var _ Logger = (*jsonLogger)(nil)

func (c *jsonLogger) clone() *jsonLogger {
	return &jsonLogger{
		metadata:  copyMetadata(nil, c.metadata),
		component: c.component,
		sink:      c.sink,
		logLevel:  c.logLevel,
		now:       c.now,
		child:     c.child,
	}
}

// WithPrefix will return a new logger with the prefix appended to the component
func (c *jsonLogger) WithPrefix(prefix string) Logger {
	l := c.clone()
	switch {
	case l.component == "":
		l.component = prefix
	case !strings.Contains(l.component, prefix):
		l.component += " " + prefix
	}
	if l.child != nil {
		l.child = l.child.WithPrefix(prefix)
	}
	return l
}

func (c *jsonLogger) With(metadata map[string]interface{}) Logger {
	l := c.clone()
	copyMetadata(l.metadata, metadata)
	if comp, ok := l.metadata["component"].(string); ok {
		l.component = comp
		delete(l.metadata, "component")
	}
	if l.child != nil {
		l.child = l.child.With(metadata)
	}
	return l
}

func (c *jsonLogger) IsLevelEnabled(level LogLevel) bool {
	return level >= c.logLevel && level < LevelNone
}

func (c *jsonLogger) log(level LogLevel, severity string, msg string, args ...interface{}) {
	if !c.IsLevelEnabled(level) {
		return
	}
	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}
	entry := JSONLogEntry{
		Timestamp: c.now(),
		Message:   StripColor(text),
		Severity:  severity,
		Component: c.component,
	}
	if len(c.metadata) > 0 {
		entry.Metadata = c.metadata
	}
	if _, err := c.sink.Write([]byte(entry.String() + "\n")); err != nil {
		log.Printf("sink.Write: %v", err)
	}
}

func (c *jsonLogger) Trace(msg string, args ...interface{}) {
	c.log(LevelTrace, "TRACE", msg, args...)
	if c.child != nil {
		c.child.Trace(msg, args...)
	}
}

func (c *jsonLogger) Debug(msg string, args ...interface{}) {
	c.log(LevelDebug, "DEBUG", msg, args...)
	if c.child != nil {
		c.child.Debug(msg, args...)
	}
}

func (c *jsonLogger) Info(msg string, args ...interface{}) {
	c.log(LevelInfo, "INFO", msg, args...)
	if c.child != nil {
		c.child.Info(msg, args...)
	}
}

func (c *jsonLogger) Warn(msg string, args ...interface{}) {
	c.log(LevelWarn, "WARNING", msg, args...)
	if c.child != nil {
		c.child.Warn(msg, args...)
	}
}

func (c *jsonLogger) Error(msg string, args ...interface{}) {
	c.log(LevelError, "ERROR", msg, args...)
	if c.child != nil {
		c.child.Error(msg, args...)
	}
}

func (c *jsonLogger) Stack(next Logger) Logger {
	l := c.clone()
	l.child = next
	return l
}

// NewJSONLogger returns a new Logger instance writing one JSON object per line to stdout
func NewJSONLogger(levels ...LogLevel) Logger {
	level := GetLevelFromEnv()
	if len(levels) > 0 {
		level = levels[0]
	}
	return NewJSONLoggerWithSink(os.Stdout, level)
}

// NewJSONLoggerWithSink returns a new JSON Logger writing to sink
func NewJSONLoggerWithSink(sink Sink, level LogLevel) Logger {
	return &jsonLogger{sink: sink, logLevel: level, now: time.Now}
}
