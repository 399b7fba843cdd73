// Package run provides small helpers to drive long-running tasks in
// command binaries.
package run

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// Runnable is a long-running task driven by a context.
type Runnable interface {
	Run(ctx context.Context) error
}

// Func adapts a plain func to Runnable.
type Func func(ctx context.Context) error

// Run implements Runnable.
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// MultiError collects errors from multiple tasks.
type MultiError struct {
	Errors []error
}

// Add appends non-nil errors.
func (e *MultiError) Add(errs ...error) {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
}

// Err returns nil when nothing was collected, the sole error when one
// was, and the MultiError itself otherwise.
func (e *MultiError) Err() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}

// Error implements error.
func (e *MultiError) Error() string {
	msgs := make([]string, len(e.Errors))
	for n, err := range e.Errors {
		msgs[n] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Group runs Runnables on a shared context and waits for all of them.
// Context cancellations are not treated as task failures.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	wg   sync.WaitGroup
	mu   sync.Mutex
	errs MultiError
}

// NewGroup creates a Group. A nil ctx selects context.Background.
func NewGroup(ctx context.Context) *Group {
	if ctx == nil {
		ctx = context.Background()
	}
	g := &Group{}
	g.ctx, g.cancel = context.WithCancel(ctx)
	return g
}

// HandleSignals stops the group on SIGINT/SIGTERM. A second signal
// exits the process without waiting.
func (g *Group) HandleSignals() *Group {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		g.cancel()
		<-sigCh
		glog.Warning("forced exit")
		os.Exit(1)
	}()
	return g
}

// Go starts runnables on the group context.
func (g *Group) Go(runnables ...Runnable) *Group {
	for _, r := range runnables {
		r := r
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			if err := r.Run(g.ctx); err != nil && err != context.Canceled {
				g.mu.Lock()
				g.errs.Add(err)
				g.mu.Unlock()
			}
		}()
	}
	return g
}

// Stop cancels the group context.
func (g *Group) Stop() {
	g.cancel()
}

// Wait blocks until all runnables return and reports their errors.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs.Err()
}
