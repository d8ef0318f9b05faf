package queue

import (
	"sync"

	"github.com/onnimonni/gribflow/internal/domain"
)

// RowBuffer is a bounded in-memory FIFO of row batches. The exporter uses
// it to decouple the single-threaded scan from a possibly slower sink
// without reordering: batches leave in the order they were enqueued.
type RowBuffer struct {
	mu   sync.Mutex
	data [][]domain.Row
	rows int
	cap  int
}

// NewRowBuffer bounds the buffer at capacity rows (not batches).
func NewRowBuffer(capacity int) *RowBuffer {
	return &RowBuffer{cap: capacity}
}

// Enqueue appends a batch; it reports false when the buffer is over
// capacity and the caller should back off.
func (q *RowBuffer) Enqueue(batch []domain.Row) bool {
	if len(batch) == 0 {
		return true
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.rows+len(batch) > q.cap {
		return false
	}
	q.data = append(q.data, batch)
	q.rows += len(batch)
	return true
}

// Dequeue pops the oldest batch, or nil when the buffer is empty.
func (q *RowBuffer) Dequeue() []domain.Row {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	batch := q.data[0]
	q.data = append(q.data[:0], q.data[1:]...)
	q.rows -= len(batch)
	return batch
}

// Len reports the number of buffered rows.
func (q *RowBuffer) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.rows
}
