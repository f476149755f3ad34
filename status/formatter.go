package status

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// PrefixCapacity is the longest prefix kept by NewFormatter.
	PrefixCapacity = 9
	// MessageCapacity bounds a formatted line, terminator included.
	MessageCapacity = 100

	separator  = ","
	terminator = "\r\n"
)

// ErrMissingCode is returned by Format for a code without a template.
var ErrMissingCode = errors.New("status: no message for code")

// Formatter composes prefixed message lines. The prefixes are fixed when it
// is created. A Formatter is meant for the single foreground loop and is not
// safe for concurrent use.
type Formatter struct {
	successPrefix string
	errorPrefix   string
	lastError     string
}

// NewFormatter returns a Formatter using the given success and error
// prefixes. Prefixes longer than PrefixCapacity are cut.
func NewFormatter(successPrefix, errorPrefix string) *Formatter {
	return &Formatter{
		successPrefix: truncate(successPrefix, PrefixCapacity),
		errorPrefix:   truncate(errorPrefix, PrefixCapacity),
	}
}

// Format returns the line to send for code.
//
// For Success the body is msg, composed by the caller. Every other code uses
// its fixed template, with content substituted where the template takes it.
// The line is "<prefix>,<body>\r\n", "<prefix>\r\n" when the body is empty,
// or "<body>\r\n" for prefix-less entries. Bodies that would not fit in
// MessageCapacity are cut.
//
// An unknown code returns ErrMissingCode and leaves the last error untouched.
func (f *Formatter) Format(code Code, content, msg string) (string, error) {
	e, ok := lookup(code)
	if !ok {
		return "", fmt.Errorf("%w 0x%02X", ErrMissingCode, uint8(code))
	}

	var body string
	switch {
	case code == Success:
		body = msg
	case e.takesContent:
		body = fmt.Sprintf(e.template, content)
	default:
		body = e.template
	}

	var head string
	switch e.prefix {
	case prefixSuccess:
		head = f.successPrefix
	case prefixError:
		head = f.errorPrefix
	}
	if head != "" && body != "" {
		head += separator
	}

	body = truncate(body, MessageCapacity-len(head)-len(terminator))
	f.lastError = body
	return head + body + terminator, nil
}

// LastError returns the body of the most recently formatted message.
func (f *Formatter) LastError() string {
	return f.lastError
}

// truncate cuts s to at most n bytes. A rune split by the cut is dropped
// whole; other bytes, valid UTF-8 or not, are kept.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	start := n - 1
	for start > 0 && n-start < utf8.UTFMax && !utf8.RuneStart(s[start]) {
		start--
	}
	if !utf8.FullRuneInString(s[start:n]) {
		return s[:start]
	}
	return s[:n]
}
