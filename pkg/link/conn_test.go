package link

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testTimeout = 500 * time.Millisecond

type testChannel struct {
	readCh  chan byte
	errCh   chan error
	writeCh chan []byte
	closeCh chan struct{}
	once    sync.Once
}

func newTestChannel() *testChannel {
	return &testChannel{
		readCh:  make(chan byte, 64),
		errCh:   make(chan error, 1),
		writeCh: make(chan []byte, 16),
		closeCh: make(chan struct{}),
	}
}

func (s *testChannel) Read(p []byte) (int, error) {
	select {
	case b := <-s.readCh:
		p[0] = b
		return 1, nil
	case err := <-s.errCh:
		return 0, err
	case <-s.closeCh:
		return 0, io.ErrClosedPipe
	case <-time.After(5 * time.Millisecond):
		return 0, nil
	}
}

func (s *testChannel) Write(p []byte) (int, error) {
	select {
	case <-s.closeCh:
		return 0, io.ErrClosedPipe
	default:
	}
	data := make([]byte, len(p))
	copy(data, p)
	s.writeCh <- data
	return len(p), nil
}

func (s *testChannel) Close() error {
	s.once.Do(func() { close(s.closeCh) })
	return nil
}

func (s *testChannel) inject(data ...byte) {
	for _, b := range data {
		s.readCh <- b
	}
}

func (s *testChannel) fail(err error) {
	s.errCh <- err
}

func (s *testChannel) closed() bool {
	select {
	case <-s.closeCh:
		return true
	default:
		return false
	}
}

// testDialer mints a fresh channel per dial, keeping the most recent
// one in ch.
type testDialer struct {
	ch    *testChannel
	err   error
	dials int
	name  string
	baud  int
}

func (d *testDialer) Dial(name string, baud int) (Channel, error) {
	d.dials++
	d.name, d.baud = name, baud
	if d.err != nil {
		return nil, d.err
	}
	d.ch = newTestChannel()
	return d.ch, nil
}

type testListerDialer struct {
	testDialer
	ports    []string
	portsErr error
}

func (d *testListerDialer) Ports() ([]string, error) {
	return d.ports, d.portsErr
}

type testEvents struct {
	ch chan string
}

func newTestEvents() *testEvents {
	return &testEvents{ch: make(chan string, 64)}
}

func (e *testEvents) Connected(id, port string) {
	e.ch <- fmt.Sprintf("connected %s %s", id, port)
}

func (e *testEvents) Disconnected(id string) {
	e.ch <- fmt.Sprintf("disconnected %s", id)
}

func (e *testEvents) PacketReceived(id, source string, packet []byte) {
	e.ch <- fmt.Sprintf("packet %s %s %v", id, source, packet)
}

func (e *testEvents) expect(t *testing.T, event string) {
	t.Helper()
	select {
	case actual := <-e.ch:
		require.Equal(t, event, actual)
	case <-time.After(testTimeout):
		require.FailNow(t, "timeout waiting for event", event)
	}
}

func (e *testEvents) expectNone(t *testing.T) {
	t.Helper()
	select {
	case actual := <-e.ch:
		require.FailNow(t, "unexpected event", actual)
	case <-time.After(20 * time.Millisecond):
	}
}

type connTestCtx struct {
	t      *testing.T
	dialer *testDialer
	events *testEvents
	conn   *Conn
}

func newConnTest(t *testing.T, opts ...Option) *connTestCtx {
	ctx := &connTestCtx{
		t:      t,
		dialer: &testDialer{},
		events: newTestEvents(),
	}
	opts = append([]Option{WithID("t")}, opts...)
	ctx.conn = New(ctx.dialer, ctx.events, opts...)
	return ctx
}

// channel returns the channel of the current session.
func (ctx *connTestCtx) channel() *testChannel {
	return ctx.dialer.ch
}

func (ctx *connTestCtx) open(port string) *connTestCtx {
	require.NoError(ctx.t, ctx.conn.Open(port, 0))
	ctx.events.expect(ctx.t, "connected t "+port)
	return ctx
}

func (ctx *connTestCtx) close() *connTestCtx {
	require.NoError(ctx.t, ctx.conn.Close())
	ctx.events.expect(ctx.t, "disconnected t")
	return ctx
}

func (ctx *connTestCtx) expectPacket(port string, packet []byte) *connTestCtx {
	ctx.events.expect(ctx.t, fmt.Sprintf("packet t %s %v", port, packet))
	return ctx
}

func (ctx *connTestCtx) expectWritten(data []byte) *connTestCtx {
	select {
	case actual := <-ctx.channel().writeCh:
		require.Equal(ctx.t, data, actual)
	case <-time.After(testTimeout):
		require.FailNow(ctx.t, "timeout waiting for write")
	}
	return ctx
}

func TestConnLifecycle(t *testing.T) {
	ctx := newConnTest(t)
	require.Equal(t, StateDisconnected, ctx.conn.State())
	ctx.open("ttyS0")
	require.Equal(t, StateConnected, ctx.conn.State())
	require.Equal(t, "ttyS0", ctx.conn.Port())
	ctx.close()
	require.Equal(t, StateDisconnected, ctx.conn.State())
	require.Equal(t, "", ctx.conn.Port())
	require.True(t, ctx.channel().closed())

	require.NoError(t, ctx.conn.Close())
	ctx.events.expectNone(t)
}

func TestConnEndToEnd(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0")
	ctx.channel().inject(10, 20, 255, 30, 255)
	ctx.expectPacket("ttyS0", []byte{10, 20}).
		expectPacket("ttyS0", []byte{30}).
		close()
	ctx.events.expectNone(t)
}

func TestConnCustomDivider(t *testing.T) {
	ctx := newConnTest(t, WithDivider(0))
	require.Equal(t, byte(0), ctx.conn.Divider())
	ctx.open("ttyS0")
	ctx.channel().inject(10, 0, 255, 20, 0)
	ctx.expectPacket("ttyS0", []byte{10}).
		expectPacket("ttyS0", []byte{255, 20}).
		close()
}

func TestConnOpenBaud(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0")
	require.Equal(t, "ttyS0", ctx.dialer.name)
	require.Equal(t, DefaultBaud, ctx.dialer.baud)
	ctx.close()

	require.NoError(t, ctx.conn.Open("ttyS0", 57600))
	ctx.events.expect(t, "connected t ttyS0")
	require.Equal(t, 57600, ctx.dialer.baud)
	ctx.close()
}

func TestConnOpenValidate(t *testing.T) {
	ctx := newConnTest(t)
	require.Equal(t, ErrPortRequired, ctx.conn.Open("", 0))
	require.Equal(t, ErrInvalidBaud, ctx.conn.Open("ttyS0", -1))
	require.Zero(t, ctx.dialer.dials)
	require.Equal(t, StateDisconnected, ctx.conn.State())
	ctx.events.expectNone(t)
}

func TestConnOpenFailure(t *testing.T) {
	ctx := newConnTest(t)
	ctx.dialer.err = errors.New("no such port")
	err := ctx.conn.Open("ttyS9", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ttyS9")
	require.Contains(t, err.Error(), "no such port")
	require.Equal(t, StateDisconnected, ctx.conn.State())
	ctx.events.expectNone(t)

	ctx.dialer.err = nil
	ctx.open("ttyS0").close()
}

func TestConnDoubleOpen(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0")
	require.Equal(t, ErrAlreadyConnected, ctx.conn.Open("ttyS1", 0))
	require.Equal(t, 1, ctx.dialer.dials)
	require.Equal(t, "ttyS0", ctx.conn.Port())
	ctx.close()
}

func TestConnReopen(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0").close()
	ctx.open("ttyS0").close()
	require.Equal(t, 2, ctx.dialer.dials)
}

func TestConnWrite(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0")
	require.NoError(t, ctx.conn.Write([]byte{5, 6, 7}))
	ctx.expectWritten([]byte{5, 6, 7})
	ctx.close()
}

func TestConnWriteDisconnected(t *testing.T) {
	ctx := newConnTest(t)
	require.Equal(t, ErrNotConnected, ctx.conn.Write([]byte{1}))
	require.Zero(t, ctx.dialer.dials)

	ctx.open("ttyS0").close()
	require.Equal(t, ErrNotConnected, ctx.conn.Write([]byte{1}))
	require.Empty(t, ctx.channel().writeCh)
}

func TestConnReadFailure(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0")
	ctx.channel().inject(1, 2, 255)
	ctx.expectPacket("ttyS0", []byte{1, 2})
	ctx.channel().fail(io.ErrUnexpectedEOF)
	ctx.events.expect(t, "disconnected t")
	require.Equal(t, StateDisconnected, ctx.conn.State())
	require.True(t, ctx.channel().closed())

	require.NoError(t, ctx.conn.Close())
	ctx.events.expectNone(t)
}

func TestConnNoEventsAfterClose(t *testing.T) {
	ctx := newConnTest(t)
	ctx.open("ttyS0")
	ctx.channel().inject(1, 2, 255)
	ctx.expectPacket("ttyS0", []byte{1, 2})
	ctx.close()
	ctx.channel().inject(3, 255)
	ctx.events.expectNone(t)
}

func TestConnConnectParams(t *testing.T) {
	testCases := []struct {
		name   string
		params []interface{}
		errIdx int // -1 means success
		port   string
		baud   int
	}{
		{"no args", nil, 0, "", 0},
		{"port only", []interface{}{"ttyS0"}, -1, "ttyS0", DefaultBaud},
		{"port and baud", []interface{}{"ttyS0", 57600}, -1, "ttyS0", 57600},
		{"bad port type", []interface{}{42}, 0, "", 0},
		{"bad baud type", []interface{}{"ttyS0", "fast"}, 1, "", 0},
		{"too many args", []interface{}{"ttyS0", 57600, true}, 2, "", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newConnTest(t)
			err := ctx.conn.Connect(tc.params...)
			if tc.errIdx >= 0 {
				require.Error(t, err)
				paramErr, ok := err.(*ParamError)
				require.True(t, ok, "expect ParamError, got %v", err)
				require.Equal(t, tc.errIdx, paramErr.Index)
				require.Zero(t, ctx.dialer.dials)
				require.Equal(t, StateDisconnected, ctx.conn.State())
				return
			}
			require.NoError(t, err)
			ctx.events.expect(t, "connected t "+tc.port)
			require.Equal(t, tc.port, ctx.dialer.name)
			require.Equal(t, tc.baud, ctx.dialer.baud)
			ctx.close()
		})
	}
}

func TestConnDefaultID(t *testing.T) {
	a := New(&testDialer{}, nil)
	b := New(&testDialer{}, nil)
	require.NotEqual(t, a.ID(), b.ID())
	require.Equal(t, "x", New(&testDialer{}, nil, WithID("x")).ID())
}

func TestConnNilListener(t *testing.T) {
	dialer := &testDialer{}
	conn := New(dialer, nil)
	require.NoError(t, conn.Open("ttyS0", 0))
	dialer.ch.inject(1, 255)
	require.NoError(t, conn.Write([]byte{2}))
	require.NoError(t, conn.Close())
}

func TestConnListPorts(t *testing.T) {
	lister := &testListerDialer{ports: []string{"ttyS0", "ttyUSB0"}}
	conn := New(lister, nil)
	ports, err := conn.ListPorts()
	require.NoError(t, err)
	require.Equal(t, []string{"ttyS0", "ttyUSB0"}, ports)

	lister.ports = nil
	ports, err = conn.ListPorts()
	require.NoError(t, err)
	require.Empty(t, ports)

	lister.portsErr = errors.New("subsystem down")
	_, err = conn.ListPorts()
	require.Equal(t, lister.portsErr, err)

	ports, err = New(&testDialer{}, nil).ListPorts()
	require.NoError(t, err)
	require.Empty(t, ports)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "disconnected", StateDisconnected.String())
	require.Equal(t, "connecting", StateConnecting.String())
	require.Equal(t, "connected", StateConnected.String())
	require.Equal(t, "unknown", State(9).String())
}
