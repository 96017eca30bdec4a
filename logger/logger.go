package logger

import (
	"log"
)

// Logger is the minimal surface the resolution engine logs through.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

var LoggerEnabled = true

// DefaultLogger writes namespaced lines through the standard library log
// package.
type DefaultLogger struct {
	name string
}

func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.printf("DEBUG", format, args...)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.printf("INFO", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.printf("ERROR", format, args...)
}

func (d *DefaultLogger) printf(level, format string, args ...any) {
	if LoggerEnabled {
		log.Printf("["+level+"] "+d.name+" | "+format+"\n", args...)
	}
}

// Noop discards everything; useful in tests and in embedders that bring
// their own logging.
type Noop struct{}

func (Noop) Debug(string, ...any) {}
func (Noop) Info(string, ...any)  {}
func (Noop) Error(string, ...any) {}
