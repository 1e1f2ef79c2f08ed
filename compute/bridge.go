package compute

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrQueueFull is returned when the worker inbox is full.
var ErrQueueFull = errors.New("compute: queue full")

// Func is a pure function run by a Bridge.
type Func[P, R any] func(P) (R, error)

// request crosses into the worker. The payload is an encoded copy.
type request struct {
	id      uuid.UUID
	payload []byte
}

// reply crosses back out of the worker.
type reply struct {
	id     uuid.UUID
	result []byte
	err    string
}

// Stats are cumulative bridge counters.
type Stats struct {
	Submitted uint64
	Completed uint64
	Failed    uint64
	Dropped   uint64
	Pending   int
}

// Bridge runs one pure function either on an isolated worker or inline.
type Bridge[P, R any] struct {
	fn   Func[P, R]
	opts options
	log  *slog.Logger

	inbox  chan request
	outbox chan reply
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[uuid.UUID]*Future[R]
	closed  bool

	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a bridge for fn. With isolation enabled the worker starts
// immediately.
func New[P, R any](fn Func[P, R], opts ...Option) *Bridge[P, R] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bridge[P, R]{
		fn:   fn,
		opts: o,
		log:  o.logger.With("bridge", o.name),
	}
	if !o.isolated {
		return b
	}

	b.inbox = make(chan request, o.queueSize)
	b.outbox = make(chan reply, o.queueSize)
	b.done = make(chan struct{})
	b.pending = make(map[uuid.UUID]*Future[R])

	b.wg.Add(2)
	go b.worker()
	go b.dispatch()

	b.log.Info("compute worker started")
	return b
}

// IsAvailable reports whether calls run on the isolated worker.
func (b *Bridge[P, R]) IsAvailable() bool {
	if !b.opts.isolated {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed
}

// Submit schedules fn(payload) and returns its future.
//
// Submit never blocks. Without isolation, and after Close, fn runs on the
// calling goroutine and the returned future is already settled.
func (b *Bridge[P, R]) Submit(payload P) *Future[R] {
	b.submitted.Add(1)

	if !b.opts.isolated {
		return b.call(payload)
	}

	data, err := msgpack.Marshal(payload)
	if err != nil {
		b.failed.Add(1)
		return Rejected[R](fmt.Errorf("compute: encode payload: %w", err))
	}

	req := request{id: uuid.New(), payload: data}
	fut := newFuture[R]()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return b.call(payload)
	}
	select {
	case b.inbox <- req:
		b.pending[req.id] = fut
	default:
		b.mu.Unlock()
		b.failed.Add(1)
		return Rejected[R](ErrQueueFull)
	}
	b.mu.Unlock()

	return fut
}

// Close stops the worker and abandons pending requests.
// Close is idempotent.
func (b *Bridge[P, R]) Close() {
	if !b.opts.isolated {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	abandoned := len(b.pending)
	clear(b.pending)
	b.mu.Unlock()

	close(b.done)
	b.wg.Wait()

	b.log.Info("compute worker stopped", "abandoned", abandoned)
}

// Stats returns a snapshot of the bridge counters.
func (b *Bridge[P, R]) Stats() Stats {
	b.mu.Lock()
	pending := len(b.pending)
	b.mu.Unlock()

	return Stats{
		Submitted: b.submitted.Load(),
		Completed: b.completed.Load(),
		Failed:    b.failed.Load(),
		Dropped:   b.dropped.Load(),
		Pending:   pending,
	}
}

// worker owns the function. It sees only decoded copies of payloads.
func (b *Bridge[P, R]) worker() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case req := <-b.inbox:
			rep := b.run(req)
			select {
			case b.outbox <- rep:
			case <-b.done:
				return
			}
		}
	}
}

func (b *Bridge[P, R]) run(req request) reply {
	var payload P
	if err := msgpack.Unmarshal(req.payload, &payload); err != nil {
		return reply{id: req.id, err: fmt.Sprintf("decode payload: %v", err)}
	}

	v, err := invoke(b.fn, payload)
	if err != nil {
		return reply{id: req.id, err: message(err)}
	}

	data, err := msgpack.Marshal(v)
	if err != nil {
		return reply{id: req.id, err: fmt.Sprintf("encode result: %v", err)}
	}
	return reply{id: req.id, result: data}
}

// dispatch matches replies to pending futures.
func (b *Bridge[P, R]) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case rep := <-b.outbox:
			b.resolve(rep)
		}
	}
}

func (b *Bridge[P, R]) resolve(rep reply) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.dropped.Add(1)
		return
	}
	fut, ok := b.pending[rep.id]
	delete(b.pending, rep.id)
	b.mu.Unlock()

	if !ok {
		b.dropped.Add(1)
		b.log.Warn("reply without pending request", "id", rep.id)
		return
	}

	if rep.err != "" {
		b.failed.Add(1)
		fut.settle(*new(R), &Error{Message: rep.err})
		return
	}

	var v R
	if err := msgpack.Unmarshal(rep.result, &v); err != nil {
		b.failed.Add(1)
		fut.settle(v, &Error{Message: fmt.Sprintf("decode result: %v", err)})
		return
	}
	b.completed.Add(1)
	fut.settle(v, nil)
}

// call runs fn on the calling goroutine.
func (b *Bridge[P, R]) call(payload P) *Future[R] {
	v, err := invoke(b.fn, payload)
	b.count(err)
	if err != nil {
		return Rejected[R](err)
	}
	return Resolved(v)
}

func (b *Bridge[P, R]) count(err error) {
	if err != nil {
		b.failed.Add(1)
	} else {
		b.completed.Add(1)
	}
}

// invoke calls fn and converts a returned error or panic into *Error.
func invoke[P, R any](fn Func[P, R], payload P) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Message: fmt.Sprint(r)}
		}
	}()

	v, err = fn(payload)
	if err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			err = &Error{Message: err.Error()}
		}
	}
	return v, err
}

func message(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
