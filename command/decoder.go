package command

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCommand is returned when a keyword frame holds no field.
	ErrEmptyCommand = errors.New("empty command")

	// ErrUnrecognizedCommand is returned for a keyword or selector that is
	// not in the command table.
	ErrUnrecognizedCommand = errors.New("unrecognized command")
)

// DecodeError reports a command that could not be resolved.
type DecodeError struct {
	// Token is the offending keyword or selector. It is empty for
	// ErrEmptyCommand.
	Token string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Token == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Token)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder resolves received tokens to commands and remembers why the last
// resolution failed.
type Decoder struct {
	lastError string
}

// NewDecoder returns a Decoder with an empty last error.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeKeyword resolves the first field of a keyword frame. On success the
// returned Cursor is positioned on the first argument. Unknown or empty
// frames give CmdInvalid, a nil Cursor and a *DecodeError.
func (d *Decoder) DecodeKeyword(frame string) (CommandID, *Cursor, error) {
	d.lastError = ""

	cur := newCursor(frame)
	keyword, ok := cur.Next()
	if !ok {
		d.lastError = "Empty command"
		return CmdInvalid, nil, &DecodeError{Err: ErrEmptyCommand}
	}

	id := LookupKeyword(keyword)
	if id == CmdInvalid {
		d.lastError = "Unrecognized command: " + keyword
		return CmdInvalid, nil, &DecodeError{Token: keyword, Err: ErrUnrecognizedCommand}
	}
	return id, cur, nil
}

// DecodeSelector resolves a menu character. The quit character gives
// CmdNone with no error.
func (d *Decoder) DecodeSelector(c byte) (CommandID, error) {
	d.lastError = ""

	id := LookupSelector(c)
	if id == CmdInvalid {
		d.lastError = "Unrecognized command"
		return CmdInvalid, &DecodeError{Token: string(c), Err: ErrUnrecognizedCommand}
	}
	return id, nil
}

// LastError describes the most recent decode failure, or is empty when the
// most recent decode succeeded.
func (d *Decoder) LastError() string {
	return d.lastError
}
