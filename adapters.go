// adapters.go: Logger adapters for common logging frameworks
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"github.com/sirupsen/logrus"
)

// LogrusAdapter adapts a *logrus.Logger to the Logger interface.
//
// Structured key-value pairs are mapped to logrus fields. The CLI host
// uses this adapter; library code only ever sees the Logger interface.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter creates a Logger backed by the given logrus logger.
func NewLogrusAdapter(logger *logrus.Logger) *LogrusAdapter {
	return &LogrusAdapter{entry: logrus.NewEntry(logger)}
}

// Debug implements Logger interface
func (a *LogrusAdapter) Debug(msg string, args ...any) {
	a.entry.WithFields(fieldsFromArgs(args)).Debug(msg)
}

// Info implements Logger interface
func (a *LogrusAdapter) Info(msg string, args ...any) {
	a.entry.WithFields(fieldsFromArgs(args)).Info(msg)
}

// Warn implements Logger interface
func (a *LogrusAdapter) Warn(msg string, args ...any) {
	a.entry.WithFields(fieldsFromArgs(args)).Warn(msg)
}

// Error implements Logger interface
func (a *LogrusAdapter) Error(msg string, args ...any) {
	a.entry.WithFields(fieldsFromArgs(args)).Error(msg)
}

// With implements Logger interface
func (a *LogrusAdapter) With(args ...any) Logger {
	return &LogrusAdapter{entry: a.entry.WithFields(fieldsFromArgs(args))}
}

// fieldsFromArgs converts alternating key-value pairs to logrus fields.
// Non-string keys and a dangling final key are preserved under synthetic
// names instead of being dropped.
func fieldsFromArgs(args []any) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			fields["!BADKEY"] = args[i]
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}
