/*
 * MIT License
 *
 * Copyright (c) 2026 excavator-link contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields attaches structured context to a log entry.
type Fields map[string]interface{}

func (f Fields) toLogrus() logrus.Fields {
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func defaultFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        time.RFC3339,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	}
}

// Logger is the session's logging surface: leveled entries carrying the
// fields attached through With.
type Logger struct {
	base   *logrus.Logger
	fields Fields
}

// New builds a Logger writing to w at the given level, grounded on the same
// text formatter defaults as the wider ecosystem logger.
func New(w io.Writer, level Level) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(defaultFormatter())
	l.SetLevel(level.Logrus())

	return &Logger{base: l, fields: Fields{}}
}

// SetLevel changes the minimum level emitted from this point forward.
func (l *Logger) SetLevel(level Level) {
	l.base.SetLevel(level.Logrus())
}

// With returns a derived Logger that always includes fields in addition to
// l's own fields.
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{base: l.base, fields: merged}
}

func (l *Logger) entry() *logrus.Entry {
	return l.base.WithFields(l.fields.toLogrus())
}

func (l *Logger) Debug(msg string) { l.entry().Debug(msg) }
func (l *Logger) Info(msg string)  { l.entry().Info(msg) }
func (l *Logger) Warn(msg string)  { l.entry().Warn(msg) }
func (l *Logger) Error(msg string) { l.entry().Error(msg) }

// Debugf, Infof, Warnf, Errorf format msg with args before emitting.
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry().Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry().Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry().Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry().Errorf(format, args...) }
