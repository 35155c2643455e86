package core

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// sequentialCodes returns a room code generator yielding R00001, R00002, ...
func sequentialCodes() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("R%05d", n)
	}
}

func newTestHub(t *testing.T, opts Options) (*Hub, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	if opts.Now == nil {
		opts.Now = clock.Now
	}
	if opts.Coin == nil {
		opts.Coin = func() bool { return true }
	}
	if opts.NewRoomCode == nil {
		opts.NewRoomCode = sequentialCodes()
	}
	logger := zerolog.New(io.Discard)
	return NewHub(opts, &logger), clock
}

// connectClient registers a client directly on the loop state, bypassing Run.
func connectClient(h *Hub, connID, declaredID string) *Client {
	c := NewClient(connID, declaredID, 64)
	h.connect(c)
	return c
}

func drain(c *Client) []*Event {
	var out []*Event
	for {
		select {
		case ev := <-c.Events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func ofKind(events []*Event, kind EventKind) []*Event {
	var out []*Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// lastState drains the client and returns the most recent room state.
func lastState(t *testing.T, c *Client) *RoomState {
	t.Helper()
	states := ofKind(drain(c), EventRoomState)
	require.NotEmpty(t, states, "no room state delivered to %s", c.ID)
	return states[len(states)-1].State
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}
