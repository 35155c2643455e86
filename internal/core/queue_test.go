package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func entry(connID string) QueueEntry {
	return QueueEntry{ConnID: connID, ClientID: "client-" + connID}
}

func TestQueueFIFOAndIdempotentEnqueue(t *testing.T) {
	q := NewQueue()

	assert.True(t, q.Enqueue(entry("a")))
	assert.False(t, q.Enqueue(entry("a")))
	assert.True(t, q.Enqueue(entry("b")))
	assert.True(t, q.Enqueue(entry("c")))
	assert.Equal(t, 3, q.Len())

	first, second, ok := q.PopPair()
	require.True(t, ok)
	assert.Equal(t, "a", first.ConnID)
	assert.Equal(t, "b", second.ConnID)

	_, _, ok = q.PopPair()
	assert.False(t, ok)
	assert.True(t, q.IsQueued("c"))
}

func TestQueueDequeue(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entry("a"))
	q.Enqueue(entry("b"))

	assert.True(t, q.Dequeue("a"))
	assert.False(t, q.Dequeue("a"))
	assert.False(t, q.Dequeue("ghost"))
	assert.False(t, q.IsQueued("a"))
	assert.Equal(t, 1, q.Len())
}

func TestQueueRequeueKeepsPriority(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entry("b"))
	q.Requeue(entry("a"))
	assert.False(t, q.Requeue(entry("a")))

	first, second, ok := q.PopPair()
	require.True(t, ok)
	assert.Equal(t, "a", first.ConnID)
	assert.Equal(t, "b", second.ConnID)
}

func TestQueuePopPairSkipsSameClient(t *testing.T) {
	q := NewQueue()
	q.Enqueue(QueueEntry{ConnID: "tab-1", ClientID: "alice"})
	q.Enqueue(QueueEntry{ConnID: "tab-2", ClientID: "alice"})

	_, _, ok := q.PopPair()
	assert.False(t, ok)
	assert.Equal(t, 2, q.Len())

	q.Enqueue(QueueEntry{ConnID: "bob-1", ClientID: "bob"})
	first, second, ok := q.PopPair()
	require.True(t, ok)
	assert.Equal(t, "tab-1", first.ConnID)
	assert.Equal(t, "bob-1", second.ConnID)
	assert.True(t, q.IsQueued("tab-2"))
	assert.Equal(t, 1, q.Len())
}

func TestQueuePopPairNeverRepeatsWithoutEnqueue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := NewQueue()
		pending := make(map[string]bool)
		ids := []string{"c0", "c1", "c2", "c3", "c4", "c5"}

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("op%d", i)) {
			case 0:
				id := rapid.SampledFrom(ids).Draw(t, fmt.Sprintf("enqueue%d", i))
				if q.Enqueue(entry(id)) {
					pending[id] = true
				}
			case 1:
				id := rapid.SampledFrom(ids).Draw(t, fmt.Sprintf("dequeue%d", i))
				if q.Dequeue(id) {
					pending[id] = false
				}
			case 2:
				first, second, ok := q.PopPair()
				if !ok {
					continue
				}
				if first.ConnID == second.ConnID {
					t.Fatalf("pair contains %s twice", first.ConnID)
				}
				for _, e := range []QueueEntry{first, second} {
					if !pending[e.ConnID] {
						t.Fatalf("%s popped without a preceding enqueue", e.ConnID)
					}
					pending[e.ConnID] = false
				}
			}
		}
	})
}
