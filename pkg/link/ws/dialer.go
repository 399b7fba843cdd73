// Package ws provides a websocket byte channel for links tunneled
// through a web endpoint.
package ws

import (
	"time"

	"golang.org/x/net/websocket"

	"github.com/robotalks/mculink/pkg/link"
)

// DefaultOrigin is the handshake origin used when Dialer.Origin is
// unset.
const DefaultOrigin = "http://localhost/"

// Dialer opens websocket byte channels. The endpoint name is a ws://
// or wss:// URL; the baud rate is ignored.
type Dialer struct {
	// Origin is the originating URL sent in the handshake,
	// DefaultOrigin when empty.
	Origin string
	// PollInterval bounds blocking reads, link.DefaultPollInterval
	// when zero.
	PollInterval time.Duration
}

// Dial implements link.Dialer.
func (d *Dialer) Dial(name string, baud int) (link.Channel, error) {
	origin := d.Origin
	if origin == "" {
		origin = DefaultOrigin
	}
	conn, err := websocket.Dial(name, "", origin)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return link.NetChannel(conn, d.PollInterval), nil
}
