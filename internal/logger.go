package internal

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

// Logger is the logger every component receives. *log.Logger and
// log.Interface from apex/log satisfy it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Debug(message string)
	Infof(format string, v ...interface{})
	Info(message string)
	Warnf(format string, v ...interface{})
	Warn(message string)
	Errorf(format string, v ...interface{})
	Error(message string)
}

var _ Logger = &log.Logger{}

// NewLogger returns a terminal logger writing to w. quiet wins over verbose.
func NewLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	level := log.InfoLevel
	if quiet {
		level = log.WarnLevel
	} else if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{
		Handler: cli.New(w),
		Level:   level,
	}
}

// NullLogger is a Logger that does not emit logs.
type NullLogger struct{}

func (NullLogger) Debugf(format string, v ...interface{}) {}
func (NullLogger) Debug(message string)                  {}
func (NullLogger) Infof(format string, v ...interface{})  {}
func (NullLogger) Info(message string)                   {}
func (NullLogger) Warnf(format string, v ...interface{})  {}
func (NullLogger) Warn(message string)                   {}
func (NullLogger) Errorf(format string, v ...interface{}) {}
func (NullLogger) Error(message string)                  {}

var _ Logger = NullLogger{}
