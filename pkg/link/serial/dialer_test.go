package serial

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type readStep struct {
	data []byte
	err  error
}

type scriptedPort struct {
	reads []readStep
}

func (p *scriptedPort) Read(buf []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	step := p.reads[0]
	p.reads = p.reads[1:]
	return copy(buf, step.data), step.err
}

func (p *scriptedPort) Write(buf []byte) (int, error) {
	return len(buf), nil
}

func (p *scriptedPort) Close() error {
	return nil
}

func TestChannelTimeoutAsIdle(t *testing.T) {
	ch := &channel{rwc: &scriptedPort{reads: []readStep{
		{nil, io.EOF},
		{[]byte{1, 2}, nil},
	}}}
	buf := make([]byte, 16)

	n, err := ch.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = ch.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, buf[:n])
}

func TestChannelReadError(t *testing.T) {
	ioErr := errors.New("input/output error")
	ch := &channel{rwc: &scriptedPort{reads: []readStep{
		{nil, ioErr},
	}}}
	buf := make([]byte, 16)

	_, err := ch.Read(buf)
	require.Equal(t, ioErr, err)
}

func TestDialerReadTimeout(t *testing.T) {
	require.Equal(t, DefaultReadTimeout, (&Dialer{}).readTimeout())
	d := &Dialer{ReadTimeout: time.Second}
	require.Equal(t, time.Second, d.readTimeout())
}
