// Package tcp provides a TCP byte channel, for simulated devices and
// serial-over-TCP gateways.
package tcp

import (
	"net"
	"time"

	"github.com/robotalks/mculink/pkg/link"
)

// Dialer opens TCP byte channels. The endpoint name is a host:port
// address; the baud rate has no meaning on TCP and is ignored.
type Dialer struct {
	// Timeout bounds the dial, no limit when zero.
	Timeout time.Duration
	// PollInterval bounds blocking reads, link.DefaultPollInterval
	// when zero.
	PollInterval time.Duration
}

// Dial implements link.Dialer.
func (d *Dialer) Dial(name string, baud int) (link.Channel, error) {
	conn, err := net.DialTimeout("tcp", name, d.Timeout)
	if err != nil {
		return nil, err
	}
	return link.NetChannel(conn, d.PollInterval), nil
}
