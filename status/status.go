// Package status maps result codes of sensor and command operations to the
// prefixed message lines sent back to the terminal.
package status

import "fmt"

// Code is the result of a command or sensor operation.
type Code uint8

const (
	Success                Code = 0x00
	UARTError              Code = 0xEE
	UnrecognizedNotice     Code = 0xF2
	ToFRead                Code = 0xF3
	ToFWrite               Code = 0xF4
	FailedStartingCalib    Code = 0xF5
	FailedStartingMeasure  Code = 0xF6
	CmdEmpty               Code = 0xF7
	CmdUnrecognized        Code = 0xF8
	CmdMissingCode         Code = 0xF9
	EpromRead              Code = 0xFA
	EpromWrite             Code = 0xFB
	IncorrectCalibDistance Code = 0xFC
	EpromMagicNo           Code = 0xFD
	EpromCRC               Code = 0xFE
)

func (c Code) String() string {
	if e, ok := lookup(c); ok && c != Success {
		return fmt.Sprintf("0x%02X (%s)", uint8(c), e.template)
	}
	return fmt.Sprintf("0x%02X", uint8(c))
}

// prefix selects which configured prefix a message gets.
type prefix int

const (
	prefixSuccess prefix = iota
	prefixError
	prefixNone
)

type entry struct {
	code     Code
	prefix   prefix
	template string

	// takesContent marks templates with a %s for the content argument.
	takesContent bool
}

// templates is the closed set of known codes. The success body is composed
// by the caller, so its template is empty.
var templates = []entry{
	{code: Success, prefix: prefixSuccess},
	{code: IncorrectCalibDistance, prefix: prefixError, template: "Incorrect calibration distance(distance is less than 5 cm)."},
	{code: EpromCRC, prefix: prefixError, template: "Invalid EPROM checksum."},
	{code: EpromMagicNo, prefix: prefixError, template: "Invalid EPROM magic number."},
	{code: FailedStartingMeasure, prefix: prefixError, template: "Failed starting measurement."},
	{code: FailedStartingCalib, prefix: prefixError, template: "Failed starting manual calibration."},
	{code: EpromWrite, prefix: prefixError, template: "EPROM write over IIC error."},
	{code: EpromRead, prefix: prefixError, template: "EPROM read over IIC error."},
	{code: ToFWrite, prefix: prefixError, template: "ToF write over IIC error."},
	{code: ToFRead, prefix: prefixError, template: "ToF read over IIC error."},
	{code: UARTError, prefix: prefixError, template: "UART error."},
	{code: CmdUnrecognized, prefix: prefixError, template: "Unrecognized command: %s", takesContent: true},
	{code: CmdEmpty, prefix: prefixError, template: "Empty command"},
	{code: CmdMissingCode, prefix: prefixError, template: "No message for status code %s.", takesContent: true},
	{code: UnrecognizedNotice, prefix: prefixNone, template: "Unrecognized command"},
}

func lookup(c Code) (entry, bool) {
	for _, e := range templates {
		if e.code == c {
			return e, true
		}
	}
	return entry{}, false
}

// Known reports whether c has a message template.
func Known(c Code) bool {
	_, ok := lookup(c)
	return ok
}
