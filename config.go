package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// ProtocolKeyword reads comma separated keyword commands, one per line.
	ProtocolKeyword = "keyword"
	// ProtocolChar shows a menu and reads single character selectors.
	ProtocolChar = "char"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the status endpoint listens on (e.g. "127.0.0.1:8080").
	// Empty disables the endpoint.
	BindAddress string
	// SerialPort is the path to the terminal's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the line rate of the serial port (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// Protocol selects the command shape, ProtocolKeyword or ProtocolChar
	Protocol string
	// SuccessPrefix and ErrorPrefix start every status line sent back
	SuccessPrefix string
	ErrorPrefix   string
	// EEPROMFile is the image backing the sensor's EEPROM. Empty keeps it in memory.
	EEPROMFile string
	// ReceiveTimeout bounds the wait for a command. Zero waits forever.
	ReceiveTimeout time.Duration
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if config.Protocol != ProtocolKeyword && config.Protocol != ProtocolChar {
		return nil, fmt.Errorf("unknown protocol %q, want %q or %q", config.Protocol, ProtocolKeyword, ProtocolChar)
	}
	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.Protocol = ProtocolKeyword
		c.SuccessPrefix = "OK"
		c.ErrorPrefix = "ERROR"
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if protocol := os.Getenv("PROTOCOL"); protocol != "" {
			c.Protocol = protocol
		}

		if prefix, ok := os.LookupEnv("SUCCESS_PREFIX"); ok {
			c.SuccessPrefix = prefix
		}

		if prefix, ok := os.LookupEnv("ERROR_PREFIX"); ok {
			c.ErrorPrefix = prefix
		}

		if file := os.Getenv("EEPROM_FILE"); file != "" {
			c.EEPROMFile = file
		}

		if timeout := os.Getenv("RECEIVE_TIMEOUT"); timeout != "" {
			d, err := time.ParseDuration(timeout)
			if err != nil {
				return fmt.Errorf("RECEIVE_TIMEOUT: %w", err)
			}
			c.ReceiveTimeout = d
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "protocol":
				c.Protocol = f.Value.String()
			case "success-prefix":
				c.SuccessPrefix = f.Value.String()
			case "error-prefix":
				c.ErrorPrefix = f.Value.String()
			case "eeprom-file":
				c.EEPROMFile = f.Value.String()
			case "receive-timeout":
				d, perr := time.ParseDuration(f.Value.String())
				if perr != nil {
					err = fmt.Errorf("-receive-timeout: %w", perr)
					return
				}
				c.ReceiveTimeout = d
			}
		})
		return err
	}
}
