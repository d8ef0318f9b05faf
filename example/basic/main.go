// Demonstrates the Query builder end to end with a simulated fetcher and
// decoder, so it runs without network access or a native GRIB2 reader.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/onnimonni/gribflow"
)

func main() {
	cfg := &gribflow.Config{}

	query, err := gribflow.ConfFromConfig(cfg,
		gribflow.WithFetcher(simFetcher{}),
		gribflow.WithDecoder(simDecoder{}),
	)
	if err != nil {
		log.Fatalf("build query: %v", err)
	}

	err = query.
		Where(
			gribflow.Eq("run_date", "20260120"),
			gribflow.In("variable", "temperature", "humidity"),
			gribflow.Eq("level", "2m"),
			gribflow.Gte("latitude", 60), gribflow.Lte("latitude", 63),
			gribflow.Gte("longitude", 22), gribflow.Lte("longitude", 25),
		).
		Limit(10).
		Into(context.Background(), gribflow.NewCallbackSink("stdout", printBatch))
	if err != nil {
		log.Fatalf("scan: %v", err)
	}
}

func printBatch(rows []gribflow.Row) error {
	for _, r := range rows {
		fmt.Printf("%-12s %-4s lat=%.2f lon=%.2f value=%.2f\n",
			r.Variable, r.Level, r.Latitude, r.Longitude, r.Value)
	}
	return nil
}

// simFetcher skips the network and returns a placeholder payload.
type simFetcher struct{}

func (simFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	fmt.Printf("would fetch %s\n", url)
	return []byte("simulated"), nil
}

// simDecoder emits a small synthetic 2 m temperature field.
type simDecoder struct{}

func (simDecoder) Open(payload []byte) (gribflow.DecodeHandle, error) {
	var samples []gribflow.Sample
	for lat := 60.0; lat <= 63; lat++ {
		for lon := 22.0; lon <= 25; lon++ {
			samples = append(samples, gribflow.Sample{
				Latitude:  lat,
				Longitude: lon,
				Value:     270 + lat - lon/10,
				// discipline 0, category 0, number 0 = temperature
				SurfaceType:  103,
				SurfaceValue: 2,
			})
		}
	}
	return &simHandle{samples: samples}, nil
}

type simHandle struct {
	samples []gribflow.Sample
	pos     int
}

func (h *simHandle) ReadBatch(maxCount int) (gribflow.Batch, error) {
	if h.pos >= len(h.samples) {
		return gribflow.Batch{}, nil
	}
	end := h.pos + maxCount
	if end > len(h.samples) {
		end = len(h.samples)
	}
	batch := gribflow.Batch{
		Samples: h.samples[h.pos:end],
		More:    end < len(h.samples),
	}
	h.pos = end
	return batch, nil
}

func (h *simHandle) TotalSamples() int { return len(h.samples) }
func (h *simHandle) Close() error      { return nil }
