package logger

type TestLogEntry struct {
	Severity  string
	Message   string
	Arguments []interface{}
}

// TestLogger records every entry in Logs. Derived loggers share the parent's
// entry list so assertions can be made on the root instance.
type TestLogger struct {
	metadata map[string]interface{}
	logs     *[]TestLogEntry
	Logs     []TestLogEntry
	child    Logger
}

var _ Logger = (*TestLogger)(nil)

func (c *TestLogger) WithPrefix(prefix string) Logger {
	return c
}

func (c *TestLogger) With(metadata map[string]interface{}) Logger {
	kv := copyMetadata(copyMetadata(nil, c.metadata), metadata)
	child := c.child
	if child != nil {
		child = child.With(metadata)
	}
	return &TestLogger{metadata: kv, logs: c.root(), child: child}
}

func (c *TestLogger) root() *[]TestLogEntry {
	if c.logs != nil {
		return c.logs
	}
	return &c.Logs
}

func (c *TestLogger) IsLevelEnabled(level LogLevel) bool {
	return level < LevelNone
}

func (c *TestLogger) Log(level string, msg string, args ...interface{}) {
	logs := c.root()
	*logs = append(*logs, TestLogEntry{level, msg, args})
}

// Count returns the number of recorded entries with the given severity.
func (c *TestLogger) Count(severity string) int {
	var n int
	for _, entry := range *c.root() {
		if entry.Severity == severity {
			n++
		}
	}
	return n
}

func (c *TestLogger) Trace(msg string, args ...interface{}) {
	c.Log("TRACE", msg, args...)
	if c.child != nil {
		c.child.Trace(msg, args...)
	}
}

func (c *TestLogger) Debug(msg string, args ...interface{}) {
	c.Log("DEBUG", msg, args...)
	if c.child != nil {
		c.child.Debug(msg, args...)
	}
}

func (c *TestLogger) Info(msg string, args ...interface{}) {
	c.Log("INFO", msg, args...)
	if c.child != nil {
		c.child.Info(msg, args...)
	}
}

func (c *TestLogger) Warn(msg string, args ...interface{}) {
	c.Log("WARNING", msg, args...)
	if c.child != nil {
		c.child.Warn(msg, args...)
	}
}

func (c *TestLogger) Error(msg string, args ...interface{}) {
	c.Log("ERROR", msg, args...)
	if c.child != nil {
		c.child.Error(msg, args...)
	}
}

func (c *TestLogger) Stack(next Logger) Logger {
	return &TestLogger{metadata: c.metadata, logs: c.root(), child: next}
}

// NewTestLogger returns a new Logger instance useful for testing
func NewTestLogger() *TestLogger {
	return &TestLogger{
		Logs: make([]TestLogEntry, 0),
	}
}
