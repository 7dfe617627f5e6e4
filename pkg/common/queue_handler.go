package common

import (
	"sync"
	"time"
)

// QueueProcessor is a function that processes a batch of items from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler batches items and hands them to the processor in the
// background. Used to collapse bursts of catalog changes into fewer
// publishes.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	interval  time.Duration
	done      chan struct{}
}

func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: chunkSize,
		interval:  time.Second,
		done:      make(chan struct{}),
	}
	go q.processQueue()
	return q
}

// Add adds items to the queue.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, item...)
}

// Flush processes everything currently queued, synchronously.
func (h *QueueHandler[V]) Flush() {
	for {
		items := h.take()
		if len(items) == 0 {
			return
		}
		h.processor(items)
	}
}

// Close stops the background loop after a final flush.
func (h *QueueHandler[V]) Close() {
	close(h.done)
	h.Flush()
}

func (h *QueueHandler[V]) take() []V {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return nil
	}
	items := h.queue[:min(h.chunkSize, len(h.queue))]
	h.queue = h.queue[len(items):]
	return items
}

func (h *QueueHandler[V]) processQueue() {
	for {
		select {
		case <-h.done:
			return
		case <-time.After(h.interval):
		}
		for {
			items := h.take()
			if len(items) == 0 {
				break
			}
			h.processor(items)
		}
	}
}
