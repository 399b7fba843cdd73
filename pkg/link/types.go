package link

import "io"

// Channel is an open bidirectional byte stream to a device.
//
// Read must return within a bounded interval, with (0, nil) when no
// bytes arrived, so the owning reader task can observe a stop request
// between attempts. Close releases the underlying resource and is
// called at most once per session, after the reader task stopped.
type Channel interface {
	io.ReadWriteCloser
}

// Dialer opens Channels to named endpoints.
type Dialer interface {
	// Dial opens a channel to the named endpoint at the given bit rate.
	// Transports without a bit rate ignore baud.
	Dial(name string, baud int) (Channel, error)
}

// PortLister enumerates the endpoints a Dialer can reach. Dialers for
// transports without discovery don't implement it.
type PortLister interface {
	// Ports returns known endpoint names. An empty list means no
	// device is present, which is not an error.
	Ports() ([]string, error)
}

// Listener receives lifecycle and packet events from a Conn. For one
// Conn the callbacks are never invoked concurrently: Connected and
// packet deliveries come from the reader task, Disconnected comes from
// the reader task or, on an explicit Close, from the closing goroutine
// after the reader stopped. Callbacks must not call Close on the same
// Conn.
type Listener interface {
	// Connected reports the link is up on the named port.
	Connected(id, port string)
	// Disconnected reports the link is down. It is delivered exactly
	// once per established session, whether torn down by Close or by a
	// read failure.
	Disconnected(id string)
	// PacketReceived delivers one framed packet read from source. The
	// slice is owned by the receiver.
	PacketReceived(id, source string, packet []byte)
}

// ListenerFuncs adapts plain funcs to Listener. Nil members are
// skipped.
type ListenerFuncs struct {
	OnConnected      func(id, port string)
	OnDisconnected   func(id string)
	OnPacketReceived func(id, source string, packet []byte)
}

// Connected implements Listener.
func (l ListenerFuncs) Connected(id, port string) {
	if fn := l.OnConnected; fn != nil {
		fn(id, port)
	}
}

// Disconnected implements Listener.
func (l ListenerFuncs) Disconnected(id string) {
	if fn := l.OnDisconnected; fn != nil {
		fn(id)
	}
}

// PacketReceived implements Listener.
func (l ListenerFuncs) PacketReceived(id, source string, packet []byte) {
	if fn := l.OnPacketReceived; fn != nil {
		fn(id, source, packet)
	}
}
