// Package command decodes commands received from the terminal, runs them
// against the sensor and reports the result back over the line.
//
// Two command shapes are understood. The keyword shape is one line holding a
// command keyword followed by comma separated arguments, for example
// "ToFStartCalib,12.5". The selector shape is a single character typed at an
// interactive menu, for example 'm' to measure.
package command

// CommandID identifies a command.
type CommandID int

const (
	CmdNone CommandID = iota - 1
	CmdInvalid
	CmdStartCalibration
	CmdReadSerialNumber
	CmdMeasure
	CmdSaveCalibration
	CmdRestoreFactoryCalibration
)

func (id CommandID) String() string {
	switch id {
	case CmdNone:
		return "None"
	case CmdInvalid:
		return "Invalid"
	case CmdStartCalibration:
		return "StartCalibration"
	case CmdReadSerialNumber:
		return "ReadSerialNumber"
	case CmdMeasure:
		return "Measure"
	case CmdSaveCalibration:
		return "SaveCalibration"
	case CmdRestoreFactoryCalibration:
		return "RestoreFactoryCalibration"
	default:
		return "Unknown"
	}
}

// QuitSelector ends the interactive loop. It is never dispatched.
const QuitSelector = 'q'

// Entry binds a command to its keyword and its menu selector.
type Entry struct {
	Keyword     string
	Selector    byte
	ID          CommandID
	Description string
}

var table = []Entry{
	{Keyword: "ToFStartCalib", Selector: 'c', ID: CmdStartCalibration, Description: "Start manual calibration"},
	{Keyword: "ToFReadSerialNo", Selector: 'n', ID: CmdReadSerialNumber, Description: "Display Pmod serial number"},
	{Keyword: "ToFMeasure", Selector: 'm', ID: CmdMeasure, Description: "Measure and display distance"},
	{Keyword: "ToFSaveCalib", Selector: 's', ID: CmdSaveCalibration, Description: "Save manual calibration to EEPROM"},
	{Keyword: "ToFRestoreFactCalib", Selector: 'r', ID: CmdRestoreFactoryCalibration, Description: "Restore factory calibration from EEPROM"},
}

// Entries returns a copy of the command table.
func Entries() []Entry {
	return append([]Entry(nil), table...)
}

// LookupKeyword returns the command for an exact, case sensitive keyword
// match, or CmdInvalid.
func LookupKeyword(keyword string) CommandID {
	for _, e := range table {
		if e.Keyword == keyword {
			return e.ID
		}
	}
	return CmdInvalid
}

// LookupSelector returns the command for a menu character. The quit
// character maps to CmdNone and anything else unknown to CmdInvalid.
func LookupSelector(c byte) CommandID {
	if c == QuitSelector {
		return CmdNone
	}
	for _, e := range table {
		if e.Selector == c {
			return e.ID
		}
	}
	return CmdInvalid
}
