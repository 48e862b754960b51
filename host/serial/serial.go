// Package serial opens the host end of the trace link.
package serial

import (
	"errors"
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows a native port or an in-memory stream in tests.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the link-port UART
	Baud int

	// ReadTimeout bounds a single read (0 = blocking)
	ReadTimeout time.Duration
}

// DefaultBaud is the highest rate the link-port UART supports
const DefaultBaud = 115200

var (
	errConfigIsNotSet = errors.New("serial config is not set")
	errDeviceRequired = errors.New("serial device must be provided")
	errBadBaud        = errors.New("link-port UART supports 9600, 38400, 57600 or 115200 baud")
)

// DefaultConfig returns the configuration matching the firmware's UART setup
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Validate checks cfg before a port is opened
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}
	if cfg.Device == "" {
		return errDeviceRequired
	}
	switch cfg.Baud {
	case 9600, 38400, 57600, 115200:
		return nil
	}
	return errBadBaud
}
