package run

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupWait(t *testing.T) {
	done := make(chan struct{}, 2)
	g := NewGroup(nil)
	g.Go(Func(func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	}), Func(func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	}))
	require.NoError(t, g.Wait())
	require.Len(t, done, 2)
}

func TestGroupStop(t *testing.T) {
	g := NewGroup(nil)
	g.Go(Func(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	go func() {
		time.Sleep(10 * time.Millisecond)
		g.Stop()
	}()
	require.NoError(t, g.Wait())
}

func TestGroupErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	g := NewGroup(nil)
	g.Go(Func(func(ctx context.Context) error { return errA }))
	require.Equal(t, errA, g.Wait())

	g = NewGroup(nil)
	g.Go(Func(func(ctx context.Context) error { return errA }),
		Func(func(ctx context.Context) error { return errB }))
	err := g.Wait()
	require.Error(t, err)
	multi, ok := err.(*MultiError)
	require.True(t, ok)
	require.Len(t, multi.Errors, 2)
	require.Contains(t, err.Error(), "a")
	require.Contains(t, err.Error(), "b")
}

func TestMultiErrorNilErr(t *testing.T) {
	var e MultiError
	e.Add(nil, nil)
	require.NoError(t, e.Err())
}
