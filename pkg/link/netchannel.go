package link

import (
	"net"
	"time"
)

// DefaultPollInterval bounds blocking reads on net.Conn backed
// channels.
const DefaultPollInterval = 100 * time.Millisecond

// NetChannel wraps a net.Conn into a Channel, using read deadlines to
// keep reads bounded per the Channel contract. A poll of zero or less
// selects DefaultPollInterval.
func NetChannel(conn net.Conn, poll time.Duration) Channel {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &netChannel{conn: conn, poll: poll}
}

type netChannel struct {
	conn net.Conn
	poll time.Duration
}

// Read implements io.Reader. An expired deadline surfaces as an idle
// read.
func (c *netChannel) Read(p []byte) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.poll)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(p)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return n, nil
		}
	}
	return n, err
}

// Write implements io.Writer.
func (c *netChannel) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// Close implements io.Closer.
func (c *netChannel) Close() error {
	return c.conn.Close()
}
