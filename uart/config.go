package uart

import (
	"log/slog"
	"time"
)

const (
	// DefaultBaudRate is the line rate used by the demo terminal.
	DefaultBaudRate = 115200
	// DefaultRecvBufferSize is the capacity of the receive buffer, and so the
	// longest frame that is delivered in one piece.
	DefaultRecvBufferSize = 100
	// interCharTimeoutChars is the receive gap, in character times, after
	// which a partial frame is considered complete.
	interCharTimeoutChars = 32
)

// supportedBaudRates lists the rates the line can be clocked at.
var supportedBaudRates = []int{
	1200, 2400, 4800, 9600, 19200, 38400, 57600,
	115200, 230400, 460800, 921600,
}

func baudRateAttainable(rate int) bool {
	for _, r := range supportedBaudRates {
		if r == rate {
			return true
		}
	}
	return false
}

// Config holds the settings used by Open.
type Config struct {
	Dialer   Dialer
	BaudRate int
	// InterCharTimeout is the gap after which a partial frame is completed.
	// It is only applied when the transport implements ReadTimeouter.
	InterCharTimeout time.Duration
	// ReceiveTimeout bounds ReceiveFrame and ReadChar. Zero blocks until a
	// frame arrives, which is what a single interactive operator expects.
	ReceiveTimeout time.Duration
	BufferSize     int
	Logger         *slog.Logger
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.InterCharTimeout == 0 && c.BaudRate > 0 {
		// 10 bit times per character on an 8N1 line.
		charTime := time.Second * 10 / time.Duration(c.BaudRate)
		c.InterCharTimeout = max(charTime*interCharTimeoutChars, time.Millisecond)
	}
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultRecvBufferSize
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder builds a Config step by step.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns an empty builder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithBaudRate(rate int) *ConfigBuilder {
	b.config.BaudRate = rate
	return b
}

func (b *ConfigBuilder) WithInterCharTimeout(d time.Duration) *ConfigBuilder {
	b.config.InterCharTimeout = d
	return b
}

func (b *ConfigBuilder) WithReceiveTimeout(d time.Duration) *ConfigBuilder {
	b.config.ReceiveTimeout = d
	return b
}

func (b *ConfigBuilder) WithBufferSize(n int) *ConfigBuilder {
	b.config.BufferSize = n
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
