package actor

import (
	"context"

	"github.com/gammazero/deque"
)

// Actor is the lifecycle contract shared by every running concurrent task in
// this package: a Mailbox, a dispatch loop, and anything built from Combine
// all satisfy it.
type Actor interface {
	// Start launches the Actor's goroutine(s). For an Actor built by New,
	// ctx governs its lifetime: cancelling it ends the work loop as Stop
	// does. An Idle Actor ignores ctx and ends only on Stop.
	Start(ctx Context)
	// Stop requests the Actor's goroutine(s) to end and blocks until they
	// have. Safe to call more than once.
	Stop()
}

// Context is the subset of context.Context the engine needs to observe
// cancellation. It is a distinct name (rather than a direct alias) so the
// rest of the package depends on an engine-owned contract, not on
// context.Context's full surface.
type Context interface {
	Done() <-chan struct{}
}

// WorkerStatus is returned by Worker.DoWork to tell the driving goroutine
// whether to keep looping.
type WorkerStatus int

const (
	// WorkerContinue indicates the worker has more to do; DoWork will be
	// called again immediately.
	WorkerContinue WorkerStatus = iota
	// WorkerEnd indicates the worker observed c.Done() and the driving
	// goroutine should stop calling DoWork.
	WorkerEnd
)

// Worker performs one unit of work per call and reports whether to
// continue. Implementations must return WorkerEnd promptly once c.Done()
// fires; they must not block indefinitely without selecting on c.Done().
type Worker interface {
	DoWork(c Context) WorkerStatus
}

// New returns an Actor that drives w in its own goroutine until Stop is
// called or the Start context is cancelled.
func New(w Worker) Actor {
	return &actor{worker: w}
}

// Idle returns an Actor with no work loop, useful as a wrapper around
// resources (such as channels) that only need an OnStop hook run at
// shutdown.
func Idle(opt ...Option) Actor {
	opts := newOptions(opt)

	return &idleActor{onStop: opts.OnStop}
}

// Combine returns a single Actor that starts and stops all of aa together.
func Combine(aa ...Actor) Actor {
	return &combinedActor{actors: aa}
}

type actor struct {
	worker Worker
	cancel context.CancelFunc
	done   chan struct{}
}

// onStopWorker is implemented by Workers that need to run a cleanup step
// once their DoWork loop has ended (typically closing channels they own).
type onStopWorker interface {
	OnStop()
}

func (a *actor) Start(ctx Context) {
	c, cancel := context.WithCancel(asStdContext(ctx))
	a.cancel = cancel
	a.done = make(chan struct{})

	go func() {
		defer close(a.done)

		for a.worker.DoWork(c) == WorkerContinue {
		}

		if w, ok := a.worker.(onStopWorker); ok {
			w.OnStop()
		}
	}()
}

func (a *actor) Stop() {
	if a.cancel == nil {
		return
	}

	a.cancel()
	<-a.done
}

type idleActor struct {
	onStop func()
}

func (a *idleActor) Start(Context) {}

func (a *idleActor) Stop() {
	if f := a.onStop; f != nil {
		a.onStop = nil
		f()
	}
}

type combinedActor struct {
	actors []Actor
}

func (a *combinedActor) Start(ctx Context) {
	for _, sub := range a.actors {
		sub.Start(ctx)
	}
}

func (a *combinedActor) Stop() {
	for _, sub := range a.actors {
		sub.Stop()
	}
}

// asStdContext adapts an engine Context into a context.Context so the
// worker goroutine can use context.WithCancel's machinery. Only Done is
// observed by callers; Err/Value/Deadline are never consulted by this
// package.
func asStdContext(c Context) context.Context {
	if sc, ok := c.(context.Context); ok {
		return sc
	}

	return &doneOnlyContext{Context: context.Background(), done: c.Done()}
}

type doneOnlyContext struct {
	context.Context
	done <-chan struct{}
}

func (c *doneOnlyContext) Done() <-chan struct{} { return c.done }

// Err reports context.Canceled once done is closed; context.WithCancel
// reads it from the parent when propagating cancellation.
func (c *doneOnlyContext) Err() error {
	select {
	case <-c.done:
		return context.Canceled
	default:
		return nil
	}
}

// Option configures a Mailbox or an idle Actor.
type Option func(*options)

type options struct {
	Mailbox mailboxOptions
	OnStop  func()
}

type mailboxOptions struct {
	UsingChan   bool
	Capacity    int
	MinCapacity int
}

func newOptions(opt []Option) options {
	opts := options{
		Mailbox: mailboxOptions{
			MinCapacity: 16,
		},
	}

	for _, o := range opt {
		o(&opts)
	}

	return opts
}

// OptAsChan selects a plain buffered-channel backed Mailbox instead of the
// deque-backed unbounded queue. capacity is the channel's buffer size.
func OptAsChan(capacity int) Option {
	return func(o *options) {
		o.Mailbox.UsingChan = true
		o.Mailbox.Capacity = capacity
	}
}

// OptCapacity hints the initial capacity of the deque-backed Mailbox queue.
func OptCapacity(capacity int) Option {
	return func(o *options) {
		o.Mailbox.Capacity = capacity
	}
}

// OptMinCapacity sets the floor the deque-backed Mailbox queue will shrink
// back to after a burst drains.
func OptMinCapacity(minCapacity int) Option {
	return func(o *options) {
		o.Mailbox.MinCapacity = minCapacity
	}
}

// OptOnStop registers a function run once, when an Idle Actor is first
// stopped. NewMailbox does not pass it on, so it has no effect there.
func OptOnStop(f func()) Option {
	return func(o *options) {
		prev := o.OnStop
		o.OnStop = func() {
			if prev != nil {
				prev()
			}
			f()
		}
	}
}

// newQueue returns a deque-backed FIFO queue seeded with capacity and
// floored at minCapacity.
func newQueue[T any](capacity, minCapacity int) *queue[T] {
	d := deque.New[T](capacity)
	if minCapacity > 0 {
		d.SetMinCapacity(uint(capacityLog2(minCapacity)))
	}

	return &queue[T]{d: d}
}

// queue is a thin wrapper over deque.Deque giving the mailbox worker the
// three operations it needs without exposing the rest of deque's surface.
type queue[T any] struct {
	d *deque.Deque[T]
}

func (q *queue[T]) IsEmpty() bool { return q.d.Len() == 0 }

func (q *queue[T]) PushBack(v T) { q.d.PushBack(v) }

func (q *queue[T]) Front() T { return q.d.Front() }

func (q *queue[T]) PopFront() { q.d.PopFront() }

// capacityLog2 returns the exponent of the smallest power of two that is at
// least capacity, the unit deque.SetMinCapacity expects.
func capacityLog2(capacity int) int {
	n := 0
	for (1 << n) < capacity {
		n++
	}

	return n
}
