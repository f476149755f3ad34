package command

import (
	"bufio"
	"bytes"
	"context"
	"strings"
)

// Delimiter separates the fields of a keyword command.
const Delimiter = ','

// splitFields is a bufio.SplitFunc returning the non-empty fields of a
// keyword command. Runs of delimiters count as one, so "a,,b" gives "a" and
// "b".
func splitFields(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	start := 0
	for start < len(data) && data[start] == Delimiter {
		start++
	}

	if i := bytes.IndexByte(data[start:], Delimiter); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}

	if atEOF {
		if start == len(data) {
			return len(data), nil, nil
		}
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

var _ bufio.SplitFunc = splitFields

// Cursor walks the fields of one keyword command. The decoder creates it
// after reading the keyword and hands it to the handler of that command;
// it must not outlive that handler.
type Cursor struct {
	scanner *bufio.Scanner
}

func newCursor(frame string) *Cursor {
	scanner := bufio.NewScanner(strings.NewReader(frame))
	scanner.Split(splitFields)
	return &Cursor{scanner: scanner}
}

// Next returns the next argument. It returns false once the arguments are
// exhausted. A nil Cursor has no arguments.
func (c *Cursor) Next() (string, bool) {
	if c == nil || !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}

// Args adapts the cursor to an ArgSource. A missing argument yields the
// empty string.
func (c *Cursor) Args(context.Context) (string, error) {
	arg, _ := c.Next()
	return arg, nil
}
