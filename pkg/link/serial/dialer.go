// Package serial provides the serial port transport: a link.Dialer
// opening ports at 8 data bits, 1 stop bit, no parity, and port
// enumeration per platform.
package serial

import (
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/robotalks/mculink/pkg/link"
)

// DefaultReadTimeout bounds a single blocking read so the owning Conn
// can observe a stop request between attempts.
const DefaultReadTimeout = 50 * time.Millisecond

// Dialer opens serial ports. The zero value is ready to use.
type Dialer struct {
	// ReadTimeout bounds a single blocking read, DefaultReadTimeout
	// when zero.
	ReadTimeout time.Duration
}

// Dial implements link.Dialer.
func (d *Dialer) Dial(name string, baud int) (link.Channel, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: d.readTimeout(),
	})
	if err != nil {
		return nil, err
	}
	return &channel{rwc: port}, nil
}

// Ports implements link.PortLister.
func (d *Dialer) Ports() ([]string, error) {
	return portNames()
}

func (d *Dialer) readTimeout() time.Duration {
	if d.ReadTimeout > 0 {
		return d.ReadTimeout
	}
	return DefaultReadTimeout
}

// channel adapts a timeout-reading port to the link.Channel contract.
// An expired read timeout surfaces from the descriptor as io.EOF with
// no data and is mapped to an idle read; serial devices have no real
// end of stream, removal shows up as a read error instead.
type channel struct {
	rwc io.ReadWriteCloser
}

// Read implements io.Reader.
func (c *channel) Read(p []byte) (int, error) {
	n, err := c.rwc.Read(p)
	if n == 0 && err == io.EOF {
		return 0, nil
	}
	return n, err
}

// Write implements io.Writer.
func (c *channel) Write(p []byte) (int, error) {
	return c.rwc.Write(p)
}

// Close implements io.Closer.
func (c *channel) Close() error {
	return c.rwc.Close()
}
