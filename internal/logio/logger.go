// Package logio provides a small leveled logger a host can wire in as the
// string-logging callback that shaderforth.WithLogf expects.
package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger implements a leveled logging facility around a plain io.Writer.
// Its Leveledf method is shaped to be handed directly to shaderforth's
// WithLogf option.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	buf    bytes.Buffer
}

// New returns a Logger writing formatted lines to w.
func New(w io.Writer) *Logger {
	return &Logger{output: w}
}

// Leveledf returns a printf-style function that logs messages at the given
// level, suitable for passing straight to an Option like WithLogf.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// Printf prints a line to the output stream like "level: message...\n".
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) > 0 && b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	log.buf.WriteTo(log.output) //nolint:errcheck // best-effort log sink
}
