package ports

import "github.com/onnimonni/gribflow/internal/domain"

// Batch is one pull of decoded samples from a decoder handle.
type Batch struct {
	Samples []domain.Sample
	// More reports whether further samples remain after this batch. A
	// zero-length batch with More=false signals a genuinely empty
	// resource, not an error.
	More bool
}

// Decoder turns one binary GRIB2 payload into a stream of samples. The
// decoding algorithm itself lives outside this module; implementations wrap
// whatever native or external reader is available.
type Decoder interface {
	// Open consumes the full payload and returns an exclusive handle.
	Open(payload []byte) (DecodeHandle, error)
}

// DecodeHandle is a single-use, forward-only reader over one payload.
// There is no rewind; callers must Close on every exit path.
type DecodeHandle interface {
	// ReadBatch pulls up to maxCount samples in the decoder's internal
	// order. An error means the payload is malformed and is fatal to the
	// surrounding scan.
	ReadBatch(maxCount int) (Batch, error)
	// TotalSamples reports the total point count when known, 0 otherwise.
	// Used only for progress estimation.
	TotalSamples() int
	Close() error
}
