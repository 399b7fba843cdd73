package link

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
)

// DefaultBaud is the bit rate used when Open receives zero.
const DefaultBaud = 115200

const readBufSize = 4096

// instanceCount generates default connection identities.
var instanceCount uint32

// Conn is a connection to a device over a divider-framed byte stream.
// It owns the Channel and the reader task for the life of a session
// and reports lifecycle and packet events to its Listener. A Conn is
// reusable: after Close, or an implicit disconnect on a read failure,
// it can be opened again.
//
// Open, Close and Write are safe for concurrent use. State transitions
// are serialized: at most one session exists at a time and a session
// is fully torn down before Close returns.
type Conn struct {
	id       string
	divider  byte
	dialer   Dialer
	listener Listener

	mu    sync.Mutex
	state int32 // State, written under mu, read atomically
	ch    Channel
	port  string
	stop  chan struct{}
	done  chan struct{}

	wmu sync.Mutex // serializes writes
}

// Option configures a Conn at construction. The configuration is
// immutable afterwards.
type Option func(*Conn)

// WithID sets the connection identity used in listener callbacks and
// logs. The default is a per-process instance number starting at "0".
func WithID(id string) Option {
	return func(c *Conn) {
		c.id = id
	}
}

// WithDivider sets the packet boundary byte, DefaultDivider when
// unset. The device on the other end must frame with the same value.
func WithDivider(divider byte) Option {
	return func(c *Conn) {
		c.divider = divider
	}
}

// New creates a Conn using dialer for channels and delivering events
// to listener. A nil listener discards events.
func New(dialer Dialer, listener Listener, opts ...Option) *Conn {
	if dialer == nil {
		panic("link: nil dialer")
	}
	conn := &Conn{
		divider:  DefaultDivider,
		dialer:   dialer,
		listener: listener,
	}
	for _, opt := range opts {
		opt(conn)
	}
	if conn.listener == nil {
		conn.listener = ListenerFuncs{}
	}
	if conn.id == "" {
		conn.id = strconv.Itoa(int(atomic.AddUint32(&instanceCount, 1)) - 1)
	}
	return conn
}

// ID returns the connection identity.
func (c *Conn) ID() string {
	return c.id
}

// Divider returns the packet boundary byte in use.
func (c *Conn) Divider() byte {
	return c.divider
}

// State returns the current connection state without blocking on
// in-flight transitions.
func (c *Conn) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// Port returns the endpoint name of the current session, or "" when
// disconnected.
func (c *Conn) Port() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State() == StateConnected {
		return c.port
	}
	return ""
}

func (c *Conn) setState(s State) {
	atomic.StoreInt32(&c.state, int32(s))
}

// ListPorts enumerates endpoints reachable through the Conn's dialer.
// Dialers without discovery yield an empty list. Zero available ports
// is not an error.
func (c *Conn) ListPorts() ([]string, error) {
	lister, ok := c.dialer.(PortLister)
	if !ok {
		return nil, nil
	}
	ports, err := lister.Ports()
	if err != nil {
		return nil, err
	}
	if glog.V(2) {
		glog.Infof("link[%s]: found the following ports:", c.id)
		for _, port := range ports {
			glog.Infof("link[%s]:    %s", c.id, port)
		}
	}
	return ports, nil
}

// Open establishes a session on the named port. A zero baud selects
// DefaultBaud. On success the listener's Connected callback is
// delivered from the new reader task before any packets. On failure
// the Conn stays disconnected. Opening an already connected Conn fails
// with ErrAlreadyConnected.
func (c *Conn) Open(port string, baud int) error {
	if port == "" {
		return ErrPortRequired
	}
	if baud == 0 {
		baud = DefaultBaud
	}
	if baud < 0 {
		return ErrInvalidBaud
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State() != StateDisconnected {
		return ErrAlreadyConnected
	}
	c.setState(StateConnecting)
	ch, err := c.dialer.Dial(port, baud)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("open %s: %v", port, err)
	}
	c.ch, c.port = ch, port
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.setState(StateConnected)
	go c.readTask(ch, NewFramer(c.divider), port, c.stop, c.done)
	glog.V(1).Infof("link[%s]: connection on %s established", c.id, port)
	return nil
}

// Connect is a loosely typed form of Open: it accepts a port name and
// an optional baud rate and validates both before any I/O.
// Connect(port) uses DefaultBaud.
func (c *Conn) Connect(params ...interface{}) error {
	port, baud, err := connectParams(params)
	if err != nil {
		return err
	}
	return c.Open(port, baud)
}

// connectParams validates Connect arguments into a typed pair.
func connectParams(params []interface{}) (port string, baud int, err error) {
	if len(params) == 0 {
		return "", 0, &ParamError{Index: 0, Reason: "port name required"}
	}
	if len(params) > 2 {
		return "", 0, &ParamError{Index: 2, Reason: "at most a port name and a baud rate are accepted"}
	}
	port, ok := params[0].(string)
	if !ok {
		return "", 0, &ParamError{Index: 0, Reason: "port name must be a string"}
	}
	if len(params) > 1 {
		if baud, ok = params[1].(int); !ok {
			return "", 0, &ParamError{Index: 1, Reason: "baud rate must be an int"}
		}
	}
	return port, baud, nil
}

// Write sends raw bytes over the open channel without framing. It
// fails with ErrNotConnected unless the state is Connected at the time
// of the call; a Close racing the write surfaces as a synchronous
// write error.
func (c *Conn) Write(p []byte) error {
	if c.State() != StateConnected {
		return ErrNotConnected
	}
	c.mu.Lock()
	if c.State() != StateConnected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	ch := c.ch
	c.mu.Unlock()
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := ch.Write(p)
	return err
}

// Close tears down the current session: the reader task is signalled
// and joined before the channel is released, so no callbacks are
// delivered after Close returns. The Disconnected callback fires
// exactly once per session. Closing a disconnected Conn is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.State() != StateConnected {
		c.mu.Unlock()
		return nil
	}
	ch, stop, done := c.ch, c.stop, c.done
	c.ch = nil
	c.setState(StateDisconnected)
	close(stop)
	c.mu.Unlock()
	<-done
	err := ch.Close()
	glog.V(1).Infof("link[%s]: connection disconnected", c.id)
	c.listener.Disconnected(c.id)
	return err
}

// readTask reads the channel until stopped or failed, feeding bytes
// through the framer and delivering completed packets.
func (c *Conn) readTask(ch Channel, framer *Framer, port string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	c.listener.Connected(c.id, port)
	buf := make([]byte, readBufSize)
	for {
		n, err := ch.Read(buf)
		for _, b := range buf[:n] {
			if pkt, ok := framer.Feed(b); ok {
				c.listener.PacketReceived(c.id, port, pkt)
			}
		}
		if err != nil {
			c.readFailed(port, err)
			return
		}
		select {
		case <-stop:
			return
		default:
		}
	}
}

// readFailed handles a transport failure seen by the reader task. The
// session is torn down and Disconnected delivered, unless a concurrent
// Close already took over the teardown.
func (c *Conn) readFailed(port string, err error) {
	c.mu.Lock()
	if c.State() != StateConnected {
		c.mu.Unlock()
		return
	}
	ch := c.ch
	c.ch = nil
	c.setState(StateDisconnected)
	c.mu.Unlock()
	ch.Close()
	glog.Warningf("link[%s]: read on %s failed: %v", c.id, port, err)
	c.listener.Disconnected(c.id)
}
