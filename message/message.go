// Package message provides the ordered diagnostic log shared by the
// assembler, the execution engine and the machine.
//
// A Log never writes anywhere. Presentation layers iterate the produced
// messages and decide what to show; hiding Debug output is their call.
package message

import (
	"errors"
	"iter"
	"slices"

	"github.com/ezrec/mano/internal"
	"github.com/ezrec/mano/translate"
	xmessage "golang.org/x/text/message"
)

// Level is the severity of a message.
type Level int

//go:generate go tool stringer -linecomment -type=Level
const (
	LEVEL_INFO  = Level(0) // info
	LEVEL_DEBUG = Level(1) // debug
	LEVEL_ERROR = Level(2) // error
)

// Message is a single leveled, source-tagged notice.
type Message struct {
	Level  Level  // Severity.
	Source string // Component that emitted the message.
	Text   string // Rendered text.
	Err    error  // Underlying error, set for LEVEL_ERROR only.
}

// String renders the message as 'source: level: text'.
func (msg Message) String() string {
	return translate.From("%v: %v: %v", msg.Source, msg.Level, msg.Text)
}

// Log is an append-only ordered sequence of messages.
// The zero value is usable, with an empty source tag.
type Log struct {
	Source  string // Tag applied to messages appended by this log.
	entries []Message
}

// New creates an empty log whose messages are tagged with source.
func New(source string) *Log {
	return &Log{Source: source}
}

func (log *Log) append(level Level, text string, err error) {
	log.entries = append(log.entries, Message{
		Level:  level,
		Source: log.Source,
		Text:   text,
		Err:    err,
	})
}

// Info appends an informational message.
func (log *Log) Info(key xmessage.Reference, args ...any) {
	log.append(LEVEL_INFO, translate.From(key, args...), nil)
}

// Debug appends a debug trace message.
func (log *Log) Debug(key xmessage.Reference, args ...any) {
	log.append(LEVEL_DEBUG, translate.From(key, args...), nil)
}

// Error appends an error message for err.
func (log *Log) Error(err error) {
	log.append(LEVEL_ERROR, err.Error(), err)
}

// Add appends an existing message, keeping its source tag.
func (log *Log) Add(msg Message) {
	log.entries = append(log.entries, msg)
}

// Combine appends the entries of other after the current entries.
// Each message keeps the source tag it was created with.
func (log *Log) Combine(other *Log) {
	if other == nil {
		return
	}
	log.entries = append(log.entries, other.entries...)
}

// All iterates over the messages in order.
func (log *Log) All() iter.Seq[Message] {
	if log == nil {
		return slices.Values([]Message(nil))
	}
	return slices.Values(log.entries)
}

// Filter iterates over the messages whose level is one of levels.
func (log *Log) Filter(levels ...Level) iter.Seq[Message] {
	return internal.IterSeqFilter(log.All(), func(msg Message) bool {
		return slices.Contains(levels, msg.Level)
	})
}

// Concat iterates over the messages of several logs, in argument order.
func Concat(logs ...*Log) iter.Seq[Message] {
	seqs := make([]iter.Seq[Message], 0, len(logs))
	for _, log := range logs {
		seqs = append(seqs, log.All())
	}
	return internal.IterSeqConcat(seqs...)
}

// Entries returns a copy of the messages.
func (log *Log) Entries() []Message {
	if log == nil {
		return nil
	}
	return slices.Clone(log.entries)
}

// Len is the number of messages.
func (log *Log) Len() int {
	if log == nil {
		return 0
	}
	return len(log.entries)
}

// ErrorCount is the number of LEVEL_ERROR messages.
func (log *Log) ErrorCount() (count int) {
	for range log.Filter(LEVEL_ERROR) {
		count++
	}
	return
}

// HasErrors returns true if any LEVEL_ERROR message is present.
func (log *Log) HasErrors() bool {
	for range log.Filter(LEVEL_ERROR) {
		return true
	}
	return false
}

// Err joins the errors of all LEVEL_ERROR messages, or returns nil.
func (log *Log) Err() error {
	var errs []error
	for msg := range log.Filter(LEVEL_ERROR) {
		errs = append(errs, msg.Err)
	}
	return errors.Join(errs...)
}

// Clear drops all messages.
func (log *Log) Clear() {
	log.entries = nil
}
