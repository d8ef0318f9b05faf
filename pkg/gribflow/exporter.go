package gribflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onnimonni/gribflow/internal/adapters/queue"
	"github.com/onnimonni/gribflow/internal/ports"
)

// ExporterOption tunes an Exporter.
type ExporterOption func(*Exporter)

// WithExportBuffer bounds the in-flight row buffer between the scan and
// the sink.
func WithExportBuffer(rows int) ExporterOption {
	return func(e *Exporter) {
		if rows > 0 {
			e.bufferCap = rows
		}
	}
}

// WithExportTransformer applies a row transformer before the sink.
func WithExportTransformer(tr RowTransformer) ExporterOption {
	return func(e *Exporter) {
		if tr != nil {
			e.transformer = tr
		}
	}
}

// WithExportObservability overrides the observability backend.
func WithExportObservability(obs Observability) ExporterOption {
	return func(e *Exporter) {
		if obs != nil {
			e.obs = obs
		}
	}
}

// WithExportIdleSleep tunes the drain loop's idle backoff.
func WithExportIdleSleep(d time.Duration) ExporterOption {
	return func(e *Exporter) {
		if d > 0 {
			e.idle = d
		}
	}
}

// Exporter drains one whole scan into a row sink through a bounded FIFO
// buffer, so a slow sink applies backpressure to the scan instead of
// growing memory. Batches reach the sink in scan order.
type Exporter struct {
	sink        ports.RowSink
	transformer ports.RowTransformer
	obs         ports.Observability
	bufferCap   int
	idle        time.Duration

	mu      sync.Mutex
	sinkErr error
}

// NewExporter builds an exporter for the given sink.
func NewExporter(s RowSink, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		sink:        s,
		transformer: noopTransformer{},
		bufferCap:   50_000,
		idle:        5 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Run pulls the scan to completion, re-checking residual filters against
// every row, and blocks until the sink has consumed everything. A scan
// error, a sink error, or context cancellation stops the export; on every
// exit path the scan's open decoder handle is released by the caller's
// Close.
func (e *Exporter) Run(ctx context.Context, s *Scan) error {
	if e.sink == nil {
		return fmt.Errorf("exporter: sink is required")
	}

	buf := queue.NewRowBuffer(e.bufferCap)
	residual := s.Residual()

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go e.drain(buf, stopCh, doneCh)

	finish := func(err error) error {
		close(stopCh)
		<-doneCh
		if err != nil {
			return err
		}
		return e.takeSinkErr()
	}

	for {
		// A dead sink means every further fetch is wasted work.
		if err := e.takeSinkErr(); err != nil {
			return finish(err)
		}
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		rows, err := s.Next(ctx)
		if err != nil {
			return finish(err)
		}
		if rows == nil {
			return finish(nil)
		}

		rows = applyResidual(rows, residual)
		for !buf.Enqueue(rows) {
			if err := e.takeSinkErr(); err != nil {
				return finish(err)
			}
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			time.Sleep(e.idle)
		}
	}
}

// drain flushes batches until stopCh closes, then empties what remains.
func (e *Exporter) drain(buf *queue.RowBuffer, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		batch := buf.Dequeue()
		if batch == nil {
			select {
			case <-stopCh:
				if buf.Len() == 0 {
					return
				}
				continue
			default:
				time.Sleep(e.idle)
				continue
			}
		}

		if err := e.flush(batch); err != nil {
			e.mu.Lock()
			if e.sinkErr == nil {
				e.sinkErr = err
			}
			e.mu.Unlock()
			return
		}
	}
}

func (e *Exporter) flush(batch []Row) error {
	out := make([]Row, 0, len(batch))
	for _, r := range batch {
		t, err := e.transformer.Transform(r)
		if err != nil {
			if e.obs != nil {
				e.obs.LogError("row_transform_failed", err)
			}
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}

	start := time.Now()
	if err := e.sink.WriteRows(out); err != nil {
		return fmt.Errorf("sink %s: %w", e.sink.Name(), err)
	}
	if e.obs != nil {
		e.obs.ObserveLatency("gribflow_sink_latency_seconds", time.Since(start).Seconds())
	}
	return nil
}

func (e *Exporter) takeSinkErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sinkErr
}
