package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"

	"i4.energy/across/tofterm/command"
	"i4.energy/across/tofterm/status"
	"i4.energy/across/tofterm/tof"
	"i4.energy/across/tofterm/uart"
)

var _ command.Sensor = (*tof.Sensor)(nil)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port the terminal is attached to")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "", "Bind address for the HTTP status endpoint (empty disables it)")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("protocol", ProtocolKeyword, "Command protocol (keyword, char)")
	flag.String("success-prefix", "OK", "Prefix of success lines")
	flag.String("error-prefix", "ERROR", "Prefix of error lines")
	flag.String("eeprom-file", "", "File backing the sensor EEPROM (empty keeps it in memory)")
	flag.Duration("receive-timeout", 0, "Longest wait for a command (0 waits forever)")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger, nil); err != nil {
		logger.Error("tofterm stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

// run opens the sensor and the serial line and serves commands until the
// operator quits, ctx is done or the line fails. A nil dialer opens the
// configured serial port.
func run(ctx context.Context, config *Config, logger *slog.Logger, dialer uart.Dialer) error {
	eeprom := tof.NewEEPROM()
	if config.EEPROMFile != "" {
		var err error
		eeprom, err = tof.LoadEEPROM(config.EEPROMFile)
		if err != nil {
			return err
		}
	}
	sensor, err := tof.New(eeprom, tof.WithLogger(logger.With("component", "sensor")))
	if err != nil {
		return fmt.Errorf("create sensor: %w", err)
	}

	if dialer == nil {
		dialer = uart.SerialDialer{
			PortName: config.SerialPort,
			Mode: &serial.Mode{
				BaudRate: config.BaudRate,
				DataBits: 8,
				Parity:   serial.NoParity,
				StopBits: serial.OneStopBit,
			},
		}
	}
	uartConfig, err := uart.NewConfigBuilder().
		WithDialer(dialer).
		WithBaudRate(config.BaudRate).
		WithReceiveTimeout(config.ReceiveTimeout).
		WithLogger(logger.With("component", "uart")).
		Build()
	if err != nil {
		return fmt.Errorf("create serial config: %w", err)
	}

	port, err := uart.Open(ctx, uartConfig)
	if err != nil {
		return err
	}
	defer port.Close()

	in := command.NewInterpreter(port, sensor,
		status.NewFormatter(config.SuccessPrefix, config.ErrorPrefix),
		command.WithLogger(logger.With("component", "command")))

	logger.Info("Starting ToF terminal", "serial_port", config.SerialPort, "protocol", config.Protocol)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(loopCtx)

	g.Go(func() error {
		defer cancel()
		var err error
		if config.Protocol == ProtocolChar {
			err = runMenu(gctx, port, in)
		} else {
			err = runKeyword(gctx, in)
		}
		if errors.Is(err, context.Canceled) {
			logger.Info("Command loop stopped")
			return nil
		}
		return err
	})

	if config.BindAddress != "" {
		httpServer := &http.Server{
			Addr: config.BindAddress,
			Handler: &Server{
				Logger:      logger.With("component", "server"),
				Line:        port,
				Interpreter: in,
			},
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			logger.Info("Closing HTTP server")
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
