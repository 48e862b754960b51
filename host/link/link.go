// Package link receives timing traces from a device over the link-port UART.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gbatime/host/logger"
	"gbatime/host/serial"
	"gbatime/trace"
)

// Device is a connection to a board streaming trace frames
type Device struct {
	port    io.ReadCloser
	decoder *trace.Decoder

	// follow treats an empty read as a timeout instead of end of stream
	follow bool
}

// ConnectWithConfig opens a serial port with a custom config
func ConnectWithConfig(cfg *serial.Config) (*Device, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	// Bytes left over from before we connected are mid-frame
	if err := port.Flush(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}

	d := New(port)
	d.follow = cfg.ReadTimeout > 0
	return d, nil
}

// New wraps an already open stream. End of input ends Run.
func New(r io.ReadCloser) *Device {
	d := &Device{port: r}
	d.decoder = trace.NewDecoder(readerFunc(d.read))
	return d
}

// Close closes the underlying port
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

// Stats returns the decoder counters
func (d *Device) Stats() trace.DecoderStats {
	return d.decoder.Stats()
}

// Run decodes frames and hands each to fn until ctx is done, the stream
// ends, or fn returns an error. Framing errors are logged and skipped.
func (d *Device) Run(ctx context.Context, fn func(trace.Frame) error) error {
	stop := context.AfterFunc(ctx, func() { _ = d.Close() })
	defer stop()

	for {
		frame, err := d.decoder.Next()
		switch {
		case err == nil:
			if err := fn(frame); err != nil {
				return err
			}
		case errors.Is(err, io.EOF):
			return nil
		case isFramingError(err):
			logger.WarnKV(ctx, "Dropped bad trace frame", "error", err)
		default:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read trace: %w", err)
		}
	}
}

// read is the decoder's view of the port. Timeouts on a followed port
// surface as empty reads and are retried.
func (d *Device) read(b []byte) (int, error) {
	for {
		n, err := d.port.Read(b)
		if n == 0 && d.follow && (err == nil || errors.Is(err, io.EOF)) {
			continue
		}
		return n, err
	}
}

func isFramingError(err error) bool {
	for _, target := range []error{
		trace.ErrFrameLength,
		trace.ErrBadSync,
		trace.ErrBadDest,
		trace.ErrBadCRC,
		trace.ErrInvalidVLQ,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(b []byte) (int, error) { return f(b) }
