package hotreload

import (
	"sync"

	"github.com/voidwalk/vulkn/engine/containers"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/shader"
)

// Request is a single pending reload job. Requests are immutable values;
// once enqueued they are only consumed or dropped.
type Request struct {
	Path  string
	Stage shader.Stage
}

// Queue hands reload requests from the watcher goroutine to the render
// thread. It is bounded with drop-oldest backpressure: when full, the oldest
// request is evicted so the freshest shader state wins.
type Queue struct {
	mu   sync.Mutex
	ring *containers.RingQueue[Request]
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Queue{
		ring: containers.NewRingQueue[Request](capacity),
	}
}

// Push appends a request, evicting the oldest one first if the queue is
// full. Safe to call concurrently with Drain.
func (q *Queue) Push(req Request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ring.IsFull() {
		if old, err := q.ring.Dequeue(); err == nil {
			core.LogWarn("reload queue full, dropping oldest request: %s", old.Path)
		}
	}
	// Cannot fail: a slot was just freed if needed.
	_ = q.ring.Enqueue(req)
}

// Drain atomically removes and returns all queued requests in FIFO order.
func (q *Queue) Drain() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ring.IsEmpty() {
		return nil
	}

	out := make([]Request, 0, q.ring.Len())
	for !q.ring.IsEmpty() {
		req, err := q.ring.Dequeue()
		if err != nil {
			break
		}
		out = append(out, req)
	}
	return out
}

// Len returns the number of pending requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Len()
}
