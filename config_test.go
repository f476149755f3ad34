package main

import (
	"flag"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults())
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		want := Config{
			SerialPort:    "/dev/ttyUSB0",
			BaudRate:      115200,
			LogLevel:      "info",
			Protocol:      ProtocolKeyword,
			SuccessPrefix: "OK",
			ErrorPrefix:   "ERROR",
		}
		if *config != want {
			t.Errorf("LoadConfig() = %+v, want %+v", *config, want)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyGS0")
		t.Setenv("BAUD_RATE", "57600")
		t.Setenv("PROTOCOL", ProtocolChar)
		t.Setenv("SUCCESS_PREFIX", "")
		t.Setenv("ERROR_PREFIX", "ERR")
		t.Setenv("EEPROM_FILE", "/var/lib/tofterm/eeprom.bin")
		t.Setenv("BIND_ADDRESS", "127.0.0.1:9090")
		t.Setenv("RECEIVE_TIMEOUT", "30s")

		config, err := LoadConfig(WithDefaults(), WithEnv())
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		want := Config{
			BindAddress:    "127.0.0.1:9090",
			SerialPort:     "/dev/ttyGS0",
			BaudRate:       57600,
			LogLevel:       "info",
			Protocol:       ProtocolChar,
			SuccessPrefix:  "",
			ErrorPrefix:    "ERR",
			EEPROMFile:     "/var/lib/tofterm/eeprom.bin",
			ReceiveTimeout: 30 * time.Second,
		}
		if *config != want {
			t.Errorf("LoadConfig() = %+v, want %+v", *config, want)
		}
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyGS0")
		t.Setenv("LOG_LEVEL", "warn")

		fs := flag.NewFlagSet("tofterm", flag.ContinueOnError)
		fs.String("serial-port", "/dev/ttyUSB0", "")
		fs.String("log-level", "info", "")
		fs.String("protocol", ProtocolKeyword, "")
		fs.Duration("receive-timeout", 0, "")
		fs.Int("baud-rate", 115200, "")
		if err := fs.Parse([]string{"-serial-port", "/dev/ttyACM0", "-protocol", "char", "-receive-timeout", "1m", "-baud-rate", "9600"}); err != nil {
			t.Fatalf("Parse() error: %v", err)
		}

		config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fs))
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if config.SerialPort != "/dev/ttyACM0" {
			t.Errorf("SerialPort = %q", config.SerialPort)
		}
		if config.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want the environment value", config.LogLevel)
		}
		if config.Protocol != ProtocolChar || config.ReceiveTimeout != time.Minute || config.BaudRate != 9600 {
			t.Errorf("unexpected config %+v", *config)
		}
	})

	t.Run("unknown protocol", func(t *testing.T) {
		t.Setenv("PROTOCOL", "binary")
		if _, err := LoadConfig(WithDefaults(), WithEnv()); err == nil {
			t.Error("LoadConfig() should reject an unknown protocol")
		}
	})

	t.Run("bad receive timeout", func(t *testing.T) {
		t.Setenv("RECEIVE_TIMEOUT", "soon")
		if _, err := LoadConfig(WithDefaults(), WithEnv()); err == nil {
			t.Error("LoadConfig() should reject an unparsable timeout")
		}
	})
}
