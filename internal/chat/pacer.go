package chat

import (
	"sync"
	"time"
)

// DefaultDelay is the typing delay applied before each bot bubble.
const DefaultDelay = 400 * time.Millisecond

// PacerHooks receive the pacer's output. They are called with the pacer's
// lock held, so calls never interleave; they must not call back into the
// pacer.
type PacerHooks struct {
	Typing  func(on bool)
	Deliver func(Message)
}

// Pacer delays bot messages behind a typing indicator. At most one message
// is pending: scheduling another one delivers the pending message at once
// and restarts the indicator for the new one.
type Pacer struct {
	delay time.Duration
	hooks PacerHooks

	mu      sync.Mutex
	timer   *time.Timer
	pending *Message
	seq     uint64
	closed  bool
}

// NewPacer creates a pacer. A non-positive delay uses DefaultDelay.
func NewPacer(delay time.Duration, hooks PacerHooks) *Pacer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if hooks.Typing == nil {
		hooks.Typing = func(bool) {}
	}
	if hooks.Deliver == nil {
		hooks.Deliver = func(Message) {}
	}
	return &Pacer{delay: delay, hooks: hooks}
}

// Schedule queues m behind the typing indicator.
func (p *Pacer) Schedule(m Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.flushLocked()

	p.pending = &m
	p.seq++
	seq := p.seq
	p.hooks.Typing(true)
	p.timer = time.AfterFunc(p.delay, func() { p.fire(seq) })
}

// Flush delivers the pending message now, if any.
func (p *Pacer) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.flushLocked()
}

// Pending reports whether a message is waiting behind the indicator.
func (p *Pacer) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

// Close cancels the pending message without delivering it.
func (p *Pacer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.pending = nil
}

func (p *Pacer) fire(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || seq != p.seq {
		return
	}
	p.flushLocked()
}

func (p *Pacer) flushLocked() {
	if p.pending == nil {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	m := *p.pending
	p.pending = nil
	p.hooks.Typing(false)
	p.hooks.Deliver(m)
}
