package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/onnimonni/gribflow/internal/domain"
	"github.com/onnimonni/gribflow/internal/ports"
)

// fakeFetcher serves canned payloads keyed by URL and records the order of
// fetches.
type fakeFetcher struct {
	payloads map[string][]byte
	statuses map[string]int
	fetched  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	if status, ok := f.statuses[url]; ok {
		return nil, fmt.Errorf("gfs api returned status %d for url %s", status, url)
	}
	return f.payloads[url], nil
}

// fakeDecoder yields a fixed number of samples per payload byte length
// convention: payload "n:<count>" produces count samples.
type fakeDecoder struct {
	openErr     error
	readErr     error
	openHandles []*fakeHandle
}

func (d *fakeDecoder) Open(payload []byte) (ports.DecodeHandle, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	var count int
	fmt.Sscanf(string(payload), "n:%d", &count)
	h := &fakeHandle{count: count, readErr: d.readErr}
	d.openHandles = append(d.openHandles, h)
	return h, nil
}

type fakeHandle struct {
	count   int
	pos     int
	readErr error
	closed  bool
}

func (h *fakeHandle) ReadBatch(maxCount int) (ports.Batch, error) {
	if h.readErr != nil {
		return ports.Batch{}, h.readErr
	}
	n := h.count - h.pos
	if n > maxCount {
		n = maxCount
	}
	samples := make([]domain.Sample, n)
	for i := range samples {
		samples[i] = domain.Sample{
			Latitude:     60,
			Longitude:    25,
			Value:        float64(h.pos + i),
			SurfaceType:  103,
			SurfaceValue: 2,
		}
	}
	h.pos += n
	return ports.Batch{Samples: samples, More: h.pos < h.count}, nil
}

func (h *fakeHandle) TotalSamples() int { return h.count }

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

type stubObs struct{}

func (stubObs) LogInfo(string, ...ports.Field)            {}
func (stubObs) LogError(string, error, ...ports.Field)    {}
func (stubObs) LogCritical(string, error, ...ports.Field) {}
func (stubObs) IncCounter(string, float64)                {}
func (stubObs) ObserveLatency(string, float64)            {}
func (stubObs) SetGauge(string, float64)                  {}

func twoResourceSetup(t *testing.T, perResource int) (*Cursor, *fakeFetcher, *fakeDecoder, *domain.FilterBinding) {
	t.Helper()

	binding := &domain.FilterBinding{
		RunDate:       "20260120",
		ForecastHours: []int32{0, 3},
	}
	descs := []domain.ResourceDescriptor{
		{RunDate: "20260120", ForecastHour: 0, URL: "http://api/f000"},
		{RunDate: "20260120", ForecastHour: 3, URL: "http://api/f003"},
	}
	fetcher := &fakeFetcher{
		payloads: map[string][]byte{
			"http://api/f000": []byte(fmt.Sprintf("n:%d", perResource)),
			"http://api/f003": []byte(fmt.Sprintf("n:%d", perResource)),
		},
		statuses: map[string]int{},
	}
	decoder := &fakeDecoder{}
	cursor := NewCursor(binding, descs, fetcher, decoder, stubObs{}, 4)
	return cursor, fetcher, decoder, binding
}

func drain(t *testing.T, c *Cursor) []domain.Row {
	t.Helper()
	var all []domain.Row
	for {
		rows, err := c.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rows == nil {
			return all
		}
		all = append(all, rows...)
	}
}

func TestCursorStreamsAllResourcesInOrder(t *testing.T) {
	cursor, fetcher, _, _ := twoResourceSetup(t, 10)

	rows := drain(t, cursor)

	if len(rows) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(rows))
	}
	// Rows come out in strict resource order.
	for i, r := range rows {
		wantFhour := int32(0)
		if i >= 10 {
			wantFhour = 3
		}
		if r.ForecastHour != wantFhour {
			t.Fatalf("row %d has fhour %d, want %d", i, r.ForecastHour, wantFhour)
		}
	}
	if len(fetcher.fetched) != 2 {
		t.Fatalf("expected 2 fetches, got %v", fetcher.fetched)
	}
	if cursor.State() != StateFinished {
		t.Fatalf("state = %v, want finished", cursor.State())
	}
}

func TestCursorWithinResourceOrderIsDecoderOrder(t *testing.T) {
	cursor, _, _, _ := twoResourceSetup(t, 10)

	rows := drain(t, cursor)

	for i := 0; i < 10; i++ {
		if rows[i].Value != float64(i) {
			t.Fatalf("row %d value = %v, want %d", i, rows[i].Value, i)
		}
	}
}

func TestCursorLimitTruncatesMidResource(t *testing.T) {
	cursor, fetcher, decoder, binding := twoResourceSetup(t, 10)
	binding.MaxResults = 5

	rows := drain(t, cursor)

	if len(rows) != 5 {
		t.Fatalf("expected exactly 5 rows, got %d", len(rows))
	}
	// Only the first resource is ever opened.
	if len(fetcher.fetched) != 1 {
		t.Fatalf("expected 1 fetch, got %v", fetcher.fetched)
	}
	// The handle is released immediately on truncation.
	if !decoder.openHandles[0].closed {
		t.Fatal("decoder handle not closed after limit truncation")
	}
	if cursor.State() != StateFinished {
		t.Fatalf("state = %v, want finished", cursor.State())
	}
	if cursor.RowsReturned() != 5 {
		t.Fatalf("rows returned = %d, want 5", cursor.RowsReturned())
	}
}

func TestCursorLimitTruncatesMidBatch(t *testing.T) {
	cursor, _, _, binding := twoResourceSetup(t, 10)
	binding.MaxResults = 3 // below the batch size of 4

	rows, err := cursor.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected batch truncated to 3 rows, got %d", len(rows))
	}
	if cursor.State() != StateFinished {
		t.Fatalf("state = %v, want finished", cursor.State())
	}
}

func TestCursorFinishedStaysFinished(t *testing.T) {
	cursor, _, _, binding := twoResourceSetup(t, 2)
	binding.MaxResults = 1

	drain(t, cursor)

	for i := 0; i < 3; i++ {
		rows, err := cursor.Next(context.Background())
		if err != nil || rows != nil {
			t.Fatalf("pull %d after finish: rows=%v err=%v", i, rows, err)
		}
	}
}

func TestCursorStateTracksResourceBoundaries(t *testing.T) {
	cursor, _, _, _ := twoResourceSetup(t, 2) // single batch per resource

	rows, err := cursor.Next(context.Background())
	if err != nil || len(rows) != 2 {
		t.Fatalf("first pull: rows=%d err=%v", len(rows), err)
	}
	// Between resources the cursor is exhausted, not streaming.
	if cursor.State() != StateExhausted {
		t.Fatalf("state after first resource = %v, want exhausted", cursor.State())
	}

	rows, err = cursor.Next(context.Background())
	if err != nil || len(rows) != 2 {
		t.Fatalf("second pull: rows=%d err=%v", len(rows), err)
	}
	// The pull that closes the last resource finishes the scan; callers
	// observing State() right after it must not see streaming.
	if cursor.State() != StateFinished {
		t.Fatalf("state after last resource = %v, want finished", cursor.State())
	}
	if cursor.Progress() != 1 {
		t.Fatalf("progress after last resource = %v, want 1", cursor.Progress())
	}
}

func TestCursorFetchFailureIsFatal(t *testing.T) {
	cursor, fetcher, _, _ := twoResourceSetup(t, 10)
	fetcher.statuses["http://api/f000"] = 404

	_, err := cursor.Next(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	// The error names the forecast hour and the full URL.
	if !strings.Contains(err.Error(), "forecast hour 0") {
		t.Errorf("error missing forecast hour: %v", err)
	}
	if !strings.Contains(err.Error(), "http://api/f000") {
		t.Errorf("error missing url: %v", err)
	}
	if cursor.State() != StateFailed {
		t.Fatalf("state = %v, want failed", cursor.State())
	}

	// The scan is unusable afterwards; no rows from later resources.
	if _, err2 := cursor.Next(context.Background()); err2 == nil {
		t.Fatal("expected error on pull after failure")
	}
	if len(fetcher.fetched) != 1 {
		t.Fatalf("no later resource may be fetched, got %v", fetcher.fetched)
	}
}

func TestCursorDecodeFailureWrapsForecastHour(t *testing.T) {
	cursor, _, decoder, _ := twoResourceSetup(t, 10)
	decoder.openErr = errors.New("not a grib2 payload")

	_, err := cursor.Next(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if derr.ForecastHour != 0 {
		t.Errorf("forecast hour = %d, want 0", derr.ForecastHour)
	}
	if !strings.Contains(err.Error(), "http://api/f000") {
		t.Errorf("error missing url: %v", err)
	}
}

func TestCursorReadFailureClosesHandle(t *testing.T) {
	cursor, _, decoder, _ := twoResourceSetup(t, 10)
	decoder.readErr = errors.New("truncated message")

	if _, err := cursor.Next(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
	if !decoder.openHandles[0].closed {
		t.Fatal("handle must be closed on the error path")
	}
}

func TestCursorEmptyResourceAdvances(t *testing.T) {
	cursor, fetcher, _, _ := twoResourceSetup(t, 10)
	fetcher.payloads["http://api/f000"] = []byte("n:0")

	rows := drain(t, cursor)

	// The empty first resource is skipped without error; the second one
	// still streams fully.
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows from second resource, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ForecastHour != 3 {
			t.Fatalf("unexpected fhour %d", r.ForecastHour)
		}
	}
}

func TestCursorCloseReleasesHandleMidStream(t *testing.T) {
	cursor, _, decoder, _ := twoResourceSetup(t, 10)

	// Pull one batch, leaving the resource open, then abandon the scan.
	if _, err := cursor.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	cursor.Close()

	if !decoder.openHandles[0].closed {
		t.Fatal("abandoning the scan must release the decoder handle")
	}
	if rows, err := cursor.Next(context.Background()); rows != nil || err != nil {
		t.Fatalf("pull after Close: rows=%v err=%v", rows, err)
	}
}

func TestCursorAtMostOneHandleOpen(t *testing.T) {
	cursor, _, decoder, _ := twoResourceSetup(t, 6)

	for {
		rows, err := cursor.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rows == nil {
			break
		}
		open := 0
		for _, h := range decoder.openHandles {
			if !h.closed {
				open++
			}
		}
		if open > 1 {
			t.Fatalf("%d handles open at once", open)
		}
	}
}

func TestCursorProgressMonotonic(t *testing.T) {
	cursor, _, _, _ := twoResourceSetup(t, 10)

	last := cursor.Progress()
	if last < 0 || last > 1 {
		t.Fatalf("initial progress %v out of range", last)
	}
	for {
		rows, err := cursor.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		p := cursor.Progress()
		if p < last {
			t.Fatalf("progress went backwards: %v -> %v", last, p)
		}
		if p < 0 || p > 1 {
			t.Fatalf("progress %v out of range", p)
		}
		last = p
		if rows == nil {
			break
		}
	}
	if last != 1 {
		t.Fatalf("final progress = %v, want 1", last)
	}
}

func TestCursorMaxWorkers(t *testing.T) {
	cursor, _, _, _ := twoResourceSetup(t, 1)
	if cursor.MaxWorkers() != 1 {
		t.Fatalf("MaxWorkers = %d, want 1", cursor.MaxWorkers())
	}
}
