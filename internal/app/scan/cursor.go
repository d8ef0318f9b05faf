// Package scan drives possibly many remote GRIB2 resources as one logical
// row stream: fetch, decode, project, enforce the row limit, report
// progress. Execution is single-threaded and pull-based; each cursor owns
// at most one open decoder handle at a time.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/onnimonni/gribflow/internal/domain"
	"github.com/onnimonni/gribflow/internal/ports"
)

// ReportedCardinality is the constant row-count estimate the scan
// advertises so surrounding planners consider limit pushdown worthwhile.
const ReportedCardinality = 10_000_000

// DefaultBatchSize bounds how many samples one pull requests from the
// decoder when the caller does not configure a batch size.
const DefaultBatchSize = 2048

// State is the cursor's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateStreaming
	StateExhausted
	StateFinished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateStreaming:
		return "streaming"
	case StateExhausted:
		return "exhausted"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Cursor is the mutable execution state of one scan. It is owned by a
// single goroutine; fetches are strictly sequenced and rows come out in
// resource order, then decoder order within a resource.
type Cursor struct {
	binding     *domain.FilterBinding
	descriptors []domain.ResourceDescriptor
	fetcher     ports.Fetcher
	decoder     ports.Decoder
	obs         ports.Observability
	batchSize   int

	state        State
	idx          int
	handle       ports.DecodeHandle
	handleTotal  int
	handleRead   int
	rowsReturned int64
	completed    int
	filePct      int
	maxProgress  float64
	err          error
}

// NewCursor builds a cursor over the frozen binding and its pre-enumerated
// resource list. The descriptor slice must not be mutated afterwards.
func NewCursor(
	binding *domain.FilterBinding,
	descriptors []domain.ResourceDescriptor,
	fetcher ports.Fetcher,
	decoder ports.Decoder,
	obs ports.Observability,
	batchSize int,
) *Cursor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Cursor{
		binding:     binding,
		descriptors: descriptors,
		fetcher:     fetcher,
		decoder:     decoder,
		obs:         obs,
		batchSize:   batchSize,
		state:       StateIdle,
	}
}

// MaxWorkers declares how many goroutines may pull from this cursor.
// Cursor state (the active resource, the open decoder handle) is not
// shareable, so the answer is always one.
func (c *Cursor) MaxWorkers() int { return 1 }

// State reports the cursor's current lifecycle state.
func (c *Cursor) State() State { return c.state }

// RowsReturned is the cumulative number of emitted rows.
func (c *Cursor) RowsReturned() int64 { return c.rowsReturned }

// Next pulls the next batch of output rows. A nil batch with nil error
// means the scan is finished; subsequent calls keep returning that forever.
// Fetch and decode failures are fatal: the error propagates and the cursor
// becomes unusable.
func (c *Cursor) Next(ctx context.Context) ([]domain.Row, error) {
	switch c.state {
	case StateFinished:
		return nil, nil
	case StateFailed:
		return nil, c.err
	}

	if c.limitReached() {
		c.finish()
		return nil, nil
	}

	for c.handle == nil {
		if c.idx >= len(c.descriptors) {
			c.finish()
			return nil, nil
		}
		if err := c.openResource(ctx, c.descriptors[c.idx]); err != nil {
			c.fail(err)
			return nil, err
		}
	}

	res := c.descriptors[c.idx]

	batch, err := c.handle.ReadBatch(c.batchSize)
	if err != nil {
		derr := &DecodeError{ForecastHour: res.ForecastHour, URL: res.URL, Err: err}
		c.fail(derr)
		return nil, derr
	}

	// A genuinely empty resource: advance to the next descriptor.
	if len(batch.Samples) == 0 && !batch.More {
		c.closeResource(true)
		return c.Next(ctx)
	}

	rows := make([]domain.Row, 0, len(batch.Samples))
	for _, s := range batch.Samples {
		rows = append(rows, ProjectSample(s, res))
	}

	// Truncate to the rows still allowed, even mid-batch.
	if limit := c.binding.MaxResults; limit > 0 {
		if remaining := limit - c.rowsReturned; int64(len(rows)) > remaining {
			rows = rows[:remaining]
		}
	}

	c.rowsReturned += int64(len(rows))
	c.handleRead += len(batch.Samples)
	c.obs.IncCounter("gribflow_rows_emitted_total", float64(len(rows)))

	if c.limitReached() {
		c.finish()
		return rows, nil
	}

	if batch.More {
		c.state = StateStreaming
		c.bumpBatchProgress()
	} else {
		// The final batch of a resource may still carry trailing rows.
		c.closeResource(true)
	}
	c.obs.SetGauge("gribflow_scan_progress_ratio", c.Progress())

	return rows, nil
}

// Close releases the currently open decoder handle and fetched buffer. It
// is safe on every exit path, including abandonment mid-batch.
func (c *Cursor) Close() {
	if c.handle != nil {
		_ = c.handle.Close()
		c.handle = nil
	}
	if c.state != StateFailed {
		c.state = StateFinished
	}
}

// Progress is a monotonically non-decreasing approximate completion
// fraction in [0, 1]. Advisory only; never used for termination.
func (c *Cursor) Progress() float64 {
	total := len(c.descriptors)
	if total == 0 {
		return 1
	}

	perFile := 1.0 / float64(total)
	p := float64(c.completed)*perFile + float64(c.filePct)/100*perFile
	if c.state == StateFinished {
		p = 1
	}
	if p > c.maxProgress {
		c.maxProgress = p
	}
	return c.maxProgress
}

func (c *Cursor) openResource(ctx context.Context, res domain.ResourceDescriptor) error {
	c.state = StateFetching
	c.filePct = 10 // connecting

	start := time.Now()
	payload, err := c.fetcher.Fetch(ctx, res.URL)
	if err != nil {
		c.obs.IncCounter("gribflow_fetch_errors_total", 1)
		return fmt.Errorf("fetch gfs data for forecast hour %d: %w", res.ForecastHour, err)
	}
	c.obs.ObserveLatency("gribflow_fetch_duration_seconds", time.Since(start).Seconds())
	c.filePct = 40 // fetched, about to parse

	handle, err := c.decoder.Open(payload)
	if err != nil {
		return &DecodeError{ForecastHour: res.ForecastHour, URL: res.URL, Err: err}
	}
	c.filePct = 50 // parsed, ready to stream batches

	c.handle = handle
	c.handleTotal = handle.TotalSamples()
	c.handleRead = 0
	c.state = StateStreaming
	return nil
}

func (c *Cursor) closeResource(completed bool) {
	if c.handle != nil {
		_ = c.handle.Close()
		c.handle = nil
	}
	if completed {
		c.filePct = 100
		c.completed++
		c.idx++
		c.obs.IncCounter("gribflow_resources_completed_total", 1)
	}
	if c.idx < len(c.descriptors) {
		c.state = StateExhausted
		c.filePct = 0
	} else {
		// That was the last resource; the scan is complete as of this
		// batch, not the next pull.
		c.finish()
	}
}

// bumpBatchProgress advances the intra-resource estimate through the
// 50 to 95 percent band while batches stream, preferring the decoder's total count
// when it is known.
func (c *Cursor) bumpBatchProgress() {
	if c.handleTotal > 0 {
		pct := 50 + int(45*float64(c.handleRead)/float64(c.handleTotal))
		if pct > 95 {
			pct = 95
		}
		if pct > c.filePct {
			c.filePct = pct
		}
		return
	}
	if c.filePct < 95 {
		c.filePct += 5
	}
}

func (c *Cursor) limitReached() bool {
	return c.binding.MaxResults > 0 && c.rowsReturned >= c.binding.MaxResults
}

func (c *Cursor) finish() {
	if c.handle != nil {
		_ = c.handle.Close()
		c.handle = nil
	}
	c.state = StateFinished
	c.obs.SetGauge("gribflow_scan_progress_ratio", c.Progress())
}

func (c *Cursor) fail(err error) {
	if c.handle != nil {
		_ = c.handle.Close()
		c.handle = nil
	}
	c.state = StateFailed
	c.err = err
	c.obs.LogCritical("scan_failed", err)
}
