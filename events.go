package fundpush

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Severity qualifies an Event.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Success
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Success:
		return "success"
	default:
		return "info"
	}
}

// Event is a human readable progress message of a run.
type Event struct {
	Time     time.Time
	Severity Severity
	Message  string
}

func (e Event) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), e.Severity, e.Message)
}

// Events is an unbounded stream of Event.
//
// Emitting never blocks: events are queued until the consumer reads them from C.
// Every event is also written to the logger at debug level. All methods are safe on a nil *Events.
type Events struct {
	log zerolog.Logger

	mu     sync.Mutex
	queue  []Event
	closed bool
	wake   chan struct{}
	out    chan Event
}

// NewEvents starts a new stream mirrored to log.
func NewEvents(log zerolog.Logger) *Events {
	e := &Events{
		log:  log,
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
	}
	go e.pump()
	return e
}

// C returns the channel delivering the events in emission order.
// It is closed once Close has been called and every queued event has been delivered.
func (e *Events) C() <-chan Event {
	if e == nil {
		return nil
	}
	return e.out
}

// Emit queues a new event. Events emitted after Close are only logged.
func (e *Events) Emit(s Severity, msg string) {
	if e == nil {
		return
	}
	e.log.Debug().Str("severity", s.String()).Msg(msg)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.queue = append(e.queue, Event{Time: time.Now(), Severity: s, Message: msg})
	e.signal()
}

func (e *Events) Infof(format string, args ...any)    { e.Emit(Info, fmt.Sprintf(format, args...)) }
func (e *Events) Warnf(format string, args ...any)    { e.Emit(Warning, fmt.Sprintf(format, args...)) }
func (e *Events) Errorf(format string, args ...any)   { e.Emit(Error, fmt.Sprintf(format, args...)) }
func (e *Events) Successf(format string, args ...any) { e.Emit(Success, fmt.Sprintf(format, args...)) }

// Close ends the stream.
func (e *Events) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.signal()
}

// signal wakes the pump up, e.mu must be held.
func (e *Events) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Events) pump() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			closed := e.closed
			e.mu.Unlock()
			if closed {
				close(e.out)
				return
			}
			<-e.wake
			continue
		}
		ev := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()
		e.out <- ev
	}
}
