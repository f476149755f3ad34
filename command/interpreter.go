package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"i4.energy/across/tofterm/status"
)

const (
	// DefaultSettle is the quiet time after every dispatched command.
	DefaultSettle = 500 * time.Microsecond
	// DefaultSamples is the number of samples averaged by a measurement.
	DefaultSamples = 100
	// maxSample bounds a sample, in metres, so the millimetre sum cannot
	// overflow.
	maxSample = 1000
	// maxDistanceInput is the longest calibration distance accepted at the
	// interactive prompt.
	maxDistanceInput = 19

	backspace = 0x08
	del       = 0x7f
)

// State is the position of the interpreter in its command cycle.
type State int

const (
	StateAwaitingCommand State = iota
	StateResolvingToken
	StateDispatching
	StateAwaitingArgument
	StateIdle
)

func (s State) String() string {
	switch s {
	case StateAwaitingCommand:
		return "AwaitingCommand"
	case StateResolvingToken:
		return "ResolvingToken"
	case StateDispatching:
		return "Dispatching"
	case StateAwaitingArgument:
		return "AwaitingArgument"
	case StateIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// ArgSource supplies the arguments of the command being dispatched, one per
// call. A missing argument is the empty string.
type ArgSource func(ctx context.Context) (string, error)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithSettle sets the quiet time after every dispatched command.
func WithSettle(d time.Duration) Option {
	return func(in *Interpreter) {
		in.settle = d
	}
}

// WithSamples sets how many samples a measurement averages.
func WithSamples(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.samples = n
		}
	}
}

// Interpreter runs received commands against the sensor and answers over
// the port. It is driven by one foreground goroutine; State and LastMessage
// may be read from any goroutine.
type Interpreter struct {
	port      Port
	sensor    Sensor
	formatter *status.Formatter
	decoder   *Decoder
	logger    *slog.Logger
	settle    time.Duration
	samples   int

	// afterCR is set when the last character read was a carriage return,
	// so that the line feed of a CR/LF pair is not taken as a key press.
	afterCR bool

	mu          sync.Mutex
	state       State
	lastMessage string
	dispatched  uint64
}

// NewInterpreter returns an Interpreter waiting for its first command.
func NewInterpreter(port Port, sensor Sensor, formatter *status.Formatter, opts ...Option) *Interpreter {
	in := &Interpreter{
		port:      port,
		sensor:    sensor,
		formatter: formatter,
		decoder:   NewDecoder(),
		settle:    DefaultSettle,
		samples:   DefaultSamples,
		state:     StateAwaitingCommand,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.logger == nil {
		in.logger = slog.New(slog.DiscardHandler)
	}
	return in
}

// State returns the current position in the command cycle.
func (in *Interpreter) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// LastMessage returns the body of the last status line sent.
func (in *Interpreter) LastMessage() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lastMessage
}

// Dispatched returns the number of commands run against the sensor.
func (in *Interpreter) Dispatched() uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dispatched
}

func (in *Interpreter) setState(s State) {
	in.mu.Lock()
	in.state = s
	in.mu.Unlock()
}

// CheckForCommand waits for one keyword command and runs it. Empty frames
// are ignored. Invalid commands are reported over the line and do not
// return an error; only failures of the port or ctx do.
func (in *Interpreter) CheckForCommand(ctx context.Context) error {
	in.setState(StateAwaitingCommand)
	frame, err := in.port.ReceiveFrame(ctx)
	if err != nil {
		return fmt.Errorf("receive command: %w", err)
	}
	if frame == "" {
		return nil
	}
	in.logger.Debug("command received", "frame", frame)
	if err := in.send(fmt.Sprintf("Received command: %s\r\n", frame)); err != nil {
		return err
	}

	in.setState(StateResolvingToken)
	id, cur, err := in.decoder.DecodeKeyword(frame)
	if err != nil {
		in.logger.Info("invalid command", "frame", frame, "error", err)
		var de *DecodeError
		if errors.As(err, &de) && errors.Is(err, ErrUnrecognizedCommand) {
			err = in.report(status.CmdUnrecognized, de.Token, "")
		} else {
			err = in.report(status.CmdEmpty, "", "")
		}
		return in.finish(ctx, err)
	}
	return in.Dispatch(ctx, id, cur.Args)
}

// ProcessSelector runs the command selected by one menu character. It
// returns quit for the quit selector. An unknown selector is answered with
// a notice and is not an error.
func (in *Interpreter) ProcessSelector(ctx context.Context, c byte) (quit bool, err error) {
	in.setState(StateResolvingToken)
	id, err := in.decoder.DecodeSelector(c)
	if err != nil {
		in.logger.Info("invalid selector", "selector", string(c), "error", err)
		return false, in.finish(ctx, in.report(status.UnrecognizedNotice, "", ""))
	}
	if id == CmdNone {
		in.setState(StateIdle)
		return true, nil
	}
	return false, in.Dispatch(ctx, id, in.promptDistance)
}

// Dispatch runs the handler of id, taking its arguments from args. CmdNone
// and CmdInvalid have no handler. Sensor failures are reported over the
// line; the returned error is only set when the port or ctx failed.
func (in *Interpreter) Dispatch(ctx context.Context, id CommandID, args ArgSource) error {
	in.setState(StateDispatching)
	in.logger.Debug("dispatching", "command", id)

	var err error
	switch id {
	case CmdStartCalibration:
		err = in.startCalibration(ctx, args)
	case CmdReadSerialNumber:
		err = in.readSerialNumber(ctx)
	case CmdMeasure:
		err = in.measure(ctx)
	case CmdSaveCalibration:
		err = in.report(in.sensor.SaveCalibration(ctx), "", "Calibration saved to EEPROM.")
	case CmdRestoreFactoryCalibration:
		err = in.report(in.sensor.RestoreFactoryCalibration(ctx), "", "Factory calibration restored.")
	default:
		return in.finish(ctx, nil)
	}

	in.mu.Lock()
	in.dispatched++
	in.mu.Unlock()
	return in.finish(ctx, err)
}

// finish waits out the settle time and leaves the interpreter idle.
func (in *Interpreter) finish(ctx context.Context, err error) error {
	if in.settle > 0 {
		t := time.NewTimer(in.settle)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}
	in.setState(StateIdle)
	return err
}

func (in *Interpreter) startCalibration(ctx context.Context, args ArgSource) error {
	in.setState(StateAwaitingArgument)
	arg, err := args(ctx)
	if err != nil {
		return fmt.Errorf("read calibration distance: %w", err)
	}
	in.setState(StateDispatching)

	distance := ParseDistance(arg)
	in.logger.Info("starting calibration", "distance_cm", distance)
	return in.report(in.sensor.StartCalibration(ctx, distance), "", "Calibration completed.")
}

func (in *Interpreter) readSerialNumber(ctx context.Context) error {
	sn, code := in.sensor.ReadSerialNumber(ctx)
	return in.report(code, "", fmt.Sprintf("SerialNo = \"%s\".", sn))
}

func (in *Interpreter) measure(ctx context.Context) error {
	var sum int
	for i := 0; i < in.samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, code := in.sensor.MeasureDistance(ctx)
		if code != status.Success {
			in.logger.Warn("measurement failed", "sample", i, "status", code)
			return in.report(code, "", "")
		}
		if math.IsNaN(d) || math.Abs(d) > maxSample {
			in.logger.Warn("sample out of range", "sample", i, "distance", d)
			return in.report(status.FailedStartingMeasure, "", "")
		}
		sum += int(1000 * d)
	}
	return in.report(status.Success, "", fmt.Sprintf("Distance measured D = %d mm.", sum/in.samples))
}

// report formats code and sends it. A code without a template is reported
// as such instead.
func (in *Interpreter) report(code status.Code, content, msg string) error {
	line, err := in.formatter.Format(code, content, msg)
	if errors.Is(err, status.ErrMissingCode) {
		in.logger.Warn("no message for status code", "status", code)
		line, err = in.formatter.Format(status.CmdMissingCode, fmt.Sprintf("0x%02X", uint8(code)), "")
	}
	if err != nil {
		return err
	}

	in.mu.Lock()
	in.lastMessage = in.formatter.LastError()
	in.mu.Unlock()
	return in.send(line)
}

func (in *Interpreter) send(s string) error {
	if err := in.port.SendString(s); err != nil {
		return fmt.Errorf("send response: %w", err)
	}
	return nil
}

// ReadKey returns the next character typed by the operator. The line feed
// of a CR/LF pair is skipped.
func (in *Interpreter) ReadKey(ctx context.Context) (byte, error) {
	for {
		c, err := in.port.ReadChar(ctx)
		if err != nil {
			return 0, err
		}
		afterCR := in.afterCR
		in.afterCR = c == '\r'
		if c == '\n' && afterCR {
			continue
		}
		return c, nil
	}
}

// promptDistance asks the operator for the calibration distance and reads
// it up to the end of the line, echoing what is typed.
func (in *Interpreter) promptDistance(ctx context.Context) (string, error) {
	if err := in.send("Enter calibration distance in cm: "); err != nil {
		return "", err
	}

	var input []byte
	for {
		c, err := in.ReadKey(ctx)
		if err != nil {
			return "", err
		}
		switch {
		case c == '\r' || c == '\n':
			return string(input), in.send("\r\n")
		case c == backspace || c == del:
			if len(input) == 0 {
				continue
			}
			input = input[:len(input)-1]
			if err := in.send("\b \b"); err != nil {
				return "", err
			}
		case len(input) < maxDistanceInput:
			input = append(input, c)
			if err := in.send(string(c)); err != nil {
				return "", err
			}
		}
	}
}
