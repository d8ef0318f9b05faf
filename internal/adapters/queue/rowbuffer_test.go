package queue

import (
	"testing"

	"github.com/onnimonni/gribflow/internal/domain"
)

func TestRowBufferEnqueueDequeueOrder(t *testing.T) {
	q := NewRowBuffer(10)

	b1 := []domain.Row{{Variable: "temperature"}, {Variable: "temperature"}}
	b2 := []domain.Row{{Variable: "humidity"}}

	if !q.Enqueue(b1) || !q.Enqueue(b2) {
		t.Fatalf("expected successful enqueue")
	}
	if q.Len() != 3 {
		t.Fatalf("expected 3 buffered rows, got %d", q.Len())
	}

	first := q.Dequeue()
	if len(first) != 2 || first[0].Variable != "temperature" {
		t.Fatalf("unexpected first batch: %+v", first)
	}

	second := q.Dequeue()
	if len(second) != 1 || second[0].Variable != "humidity" {
		t.Fatalf("unexpected second batch: %+v", second)
	}

	if q.Dequeue() != nil {
		t.Fatalf("expected nil from empty buffer")
	}
	if q.Len() != 0 {
		t.Fatalf("buffer should be empty, got %d", q.Len())
	}
}

func TestRowBufferCapacityInRows(t *testing.T) {
	q := NewRowBuffer(3)

	if !q.Enqueue(make([]domain.Row, 2)) {
		t.Fatalf("expected enqueue within capacity")
	}
	if q.Enqueue(make([]domain.Row, 2)) {
		t.Fatalf("enqueue should fail when row capacity exceeded")
	}

	q.Dequeue()
	if !q.Enqueue(make([]domain.Row, 3)) {
		t.Fatalf("expected enqueue to succeed after dequeue")
	}
}

func TestRowBufferEmptyBatch(t *testing.T) {
	q := NewRowBuffer(1)

	if !q.Enqueue(nil) {
		t.Fatalf("empty batch must always be accepted")
	}
	if q.Len() != 0 {
		t.Fatalf("empty batch must not occupy capacity, got %d", q.Len())
	}
}
