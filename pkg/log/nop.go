package log

// nopLogger discards all messages.
type nopLogger struct{}

// NewNop creates a Logger that discards everything.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(msg string, fields ...Field) {}
func (nopLogger) Info(msg string, fields ...Field)  {}
func (nopLogger) Warn(msg string, fields ...Field)  {}
func (nopLogger) Error(msg string, fields ...Field) {}
