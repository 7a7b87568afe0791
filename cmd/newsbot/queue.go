// cmd/newsbot/queue.go
package main

import (
    "sort"
    "sync"
)

// PublishQueue holds processed items awaiting publication. All mutation
// goes through the mutex so the fetch and publish timers can fire
// concurrently without corrupting the queue.
type PublishQueue struct {
    mu    sync.Mutex
    items []ProcessedItem
}

// NewPublishQueue creates an empty queue.
func NewPublishQueue() *PublishQueue {
    return &PublishQueue{}
}

// Enqueue appends survivors of a fetch cycle.
func (q *PublishQueue) Enqueue(items []ProcessedItem) {
    if len(items) == 0 {
        return
    }
    q.mu.Lock()
    defer q.mu.Unlock()
    q.items = append(q.items, items...)
}

// Len returns the current queue length.
func (q *PublishQueue) Len() int {
    q.mu.Lock()
    defer q.mu.Unlock()
    return len(q.items)
}

// Snapshot returns a copy of the queued items in order.
func (q *PublishQueue) Snapshot() []ProcessedItem {
    q.mu.Lock()
    defer q.mu.Unlock()
    snapshot := make([]ProcessedItem, len(q.items))
    copy(snapshot, q.items)
    return snapshot
}

// DrainTop removes and returns up to n items. With prioritize set the
// queue is first stable-sorted by descending relevance, so equal scores
// keep their arrival order. The removed slice is gone from the queue no
// matter what the caller does with it afterward.
func (q *PublishQueue) DrainTop(n int, prioritize bool) []ProcessedItem {
    q.mu.Lock()
    defer q.mu.Unlock()

    if n <= 0 || len(q.items) == 0 {
        return nil
    }

    if prioritize {
        sort.SliceStable(q.items, func(i, j int) bool {
            return q.items[i].RelevanceScore > q.items[j].RelevanceScore
        })
    }

    if n > len(q.items) {
        n = len(q.items)
    }

    drained := make([]ProcessedItem, n)
    copy(drained, q.items[:n])
    q.items = q.items[n:]
    return drained
}
