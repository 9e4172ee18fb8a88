package landing

import (
	"context"
	"sync"
)

// Loop serializes controller callbacks onto the goroutine that owns the
// controller. Post must not block and may be called from any goroutine.
type Loop interface {
	Post(fn func())
}

// ChanLoop is a Loop backed by an unbounded queue. One goroutine drains it
// with Run, or with RunPending in tests.
type ChanLoop struct {
	mu     sync.Mutex
	queue  []func()
	wakeup chan struct{}
}

// NewChanLoop creates an empty loop
func NewChanLoop() *ChanLoop {
	return &ChanLoop{wakeup: make(chan struct{}, 1)}
}

// Post enqueues fn
func (l *ChanLoop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

// Run executes callbacks until ctx is done
func (l *ChanLoop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wakeup:
		}
	}
}

// RunPending executes queued callbacks, including ones they enqueue, and
// returns how many ran.
func (l *ChanLoop) RunPending() int {
	n := 0
	for {
		fn, ok := l.pop()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// Wait blocks until a callback is queued or ctx is done
func (l *ChanLoop) Wait(ctx context.Context) bool {
	if l.Len() > 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-l.wakeup:
		return true
	}
}

// Len returns the number of queued callbacks
func (l *ChanLoop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *ChanLoop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}
