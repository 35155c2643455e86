package core

import "time"

// QueueEntry is a connection waiting for an opponent.
type QueueEntry struct {
	ConnID   string
	ClientID string
	JoinedAt time.Time
}

// Queue is the FIFO matchmaking list. At most one entry per connection.
// Not safe for concurrent use; the hub loop owns it.
type Queue struct {
	entries []QueueEntry
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends the entry unless its connection is already queued.
// Returns true if the entry was added.
func (q *Queue) Enqueue(entry QueueEntry) bool {
	if q.IsQueued(entry.ConnID) {
		return false
	}
	q.entries = append(q.entries, entry)
	return true
}

// Requeue puts an entry back at the head of the queue, keeping its original
// wait priority.
func (q *Queue) Requeue(entry QueueEntry) bool {
	if q.IsQueued(entry.ConnID) {
		return false
	}
	q.entries = append([]QueueEntry{entry}, q.entries...)
	return true
}

// Dequeue removes the connection's entry. Returns true if one was removed.
func (q *Queue) Dequeue(connID string) bool {
	for i, e := range q.entries {
		if e.ConnID == connID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// PopPair removes and returns the longest waiting entry together with the
// longest waiting entry of a different client. Two connections of the same
// client are never paired.
func (q *Queue) PopPair() (QueueEntry, QueueEntry, bool) {
	if len(q.entries) < 2 {
		return QueueEntry{}, QueueEntry{}, false
	}
	first := q.entries[0]
	for i := 1; i < len(q.entries); i++ {
		second := q.entries[i]
		if second.ClientID == first.ClientID {
			continue
		}
		q.entries = append(q.entries[1:i:i], q.entries[i+1:]...)
		return first, second, true
	}
	return QueueEntry{}, QueueEntry{}, false
}

// IsQueued reports whether the connection is waiting.
func (q *Queue) IsQueued(connID string) bool {
	for _, e := range q.entries {
		if e.ConnID == connID {
			return true
		}
	}
	return false
}

// Len returns the number of waiting connections.
func (q *Queue) Len() int {
	return len(q.entries)
}
