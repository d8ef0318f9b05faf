// Demonstrates consuming scan output through a channel sink while the
// export runs in the background.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/onnimonni/gribflow"
)

func main() {
	query, err := gribflow.ConfFromConfig(&gribflow.Config{},
		gribflow.WithFetcher(staticFetcher("simulated")),
		gribflow.WithDecoder(rampDecoder{}),
	)
	if err != nil {
		log.Fatalf("build query: %v", err)
	}

	sink, batches, closeSink := gribflow.NewChannelSink("demo", 4)

	done := make(chan error, 1)
	go func() {
		defer closeSink()
		done <- query.
			Where(gribflow.In("forecast_hour", 0, 3)).
			Limit(20).
			Into(context.Background(), sink)
	}()

	total := 0
	for batch := range batches {
		total += len(batch)
		fmt.Printf("received batch of %d rows (first fhour=%d)\n", len(batch), batch[0].ForecastHour)
	}
	if err := <-done; err != nil {
		log.Fatalf("scan: %v", err)
	}
	fmt.Printf("done, %d rows\n", total)
}

type staticFetcher string

func (f staticFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return []byte(f), nil
}

// rampDecoder emits a fixed number of synthetic pressure samples.
type rampDecoder struct{}

func (rampDecoder) Open(payload []byte) (gribflow.DecodeHandle, error) {
	return &rampHandle{remaining: 15}, nil
}

type rampHandle struct {
	remaining int
	i         int
}

func (h *rampHandle) ReadBatch(maxCount int) (gribflow.Batch, error) {
	n := maxCount
	if n > h.remaining {
		n = h.remaining
	}
	samples := make([]gribflow.Sample, n)
	for j := range samples {
		samples[j] = gribflow.Sample{
			Latitude:          50,
			Longitude:         float64(h.i+j) * 0.25,
			Value:             101325,
			ParameterCategory: 3,
			ParameterNumber:   1,
			SurfaceType:       101,
		}
	}
	h.i += n
	h.remaining -= n
	return gribflow.Batch{Samples: samples, More: h.remaining > 0}, nil
}

func (h *rampHandle) TotalSamples() int { return 15 }
func (h *rampHandle) Close() error      { return nil }
