package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type recorder struct {
	mu        sync.Mutex
	events    []string
	delivered chan Message
}

func newRecorder() *recorder {
	return &recorder{delivered: make(chan Message, 8)}
}

func (r *recorder) hooks() PacerHooks {
	return PacerHooks{
		Typing: func(on bool) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if on {
				r.events = append(r.events, "typing")
			} else {
				r.events = append(r.events, "idle")
			}
		},
		Deliver: func(m Message) {
			r.mu.Lock()
			r.events = append(r.events, "bot:"+m.Text)
			r.mu.Unlock()
			r.delivered <- m
		},
	}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) wait(t *testing.T) Message {
	t.Helper()
	select {
	case m := <-r.delivered:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return Message{}
	}
}

func TestPacerDeliversAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	p := NewPacer(20*time.Millisecond, rec.hooks())
	defer p.Close()

	start := time.Now()
	p.Schedule(Message{Role: RoleBot, Text: "a"})
	assert.True(t, p.Pending())
	assert.Equal(t, []string{"typing"}, rec.snapshot())

	m := rec.wait(t)
	assert.Equal(t, "a", m.Text)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, []string{"typing", "idle", "bot:a"}, rec.snapshot())
	assert.False(t, p.Pending())
}

func TestPacerFlushesPendingOnSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	p := NewPacer(50*time.Millisecond, rec.hooks())
	defer p.Close()

	p.Schedule(Message{Role: RoleBot, Text: "a"})
	p.Schedule(Message{Role: RoleBot, Text: "b"})

	// Exactly one indicator: the first bubble went out before the second
	// indicator was shown.
	assert.Equal(t, []string{"typing", "idle", "bot:a", "typing"}, rec.snapshot())
	assert.Equal(t, "a", rec.wait(t).Text)
	assert.Equal(t, "b", rec.wait(t).Text)
	assert.Equal(t, []string{"typing", "idle", "bot:a", "typing", "idle", "bot:b"}, rec.snapshot())
}

func TestPacerCloseDropsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	p := NewPacer(20*time.Millisecond, rec.hooks())
	p.Schedule(Message{Role: RoleBot, Text: "a"})
	p.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"typing"}, rec.snapshot())
	assert.False(t, p.Pending())

	// Scheduling after Close is a no-op.
	p.Schedule(Message{Role: RoleBot, Text: "b"})
	assert.Equal(t, []string{"typing"}, rec.snapshot())
}

func TestPacerFlush(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	p := NewPacer(time.Hour, rec.hooks())
	defer p.Close()

	p.Flush()
	assert.Empty(t, rec.snapshot())

	p.Schedule(Message{Role: RoleBot, Text: "a"})
	p.Flush()
	assert.Equal(t, "a", rec.wait(t).Text)
	assert.Equal(t, []string{"typing", "idle", "bot:a"}, rec.snapshot())
}

func TestNewPacerDefaultDelay(t *testing.T) {
	p := NewPacer(0, PacerHooks{})
	assert.Equal(t, DefaultDelay, p.delay)
	p.Close()
}
