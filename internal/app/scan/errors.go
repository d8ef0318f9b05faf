package scan

import "fmt"

// DecodeError wraps a decoder failure with the identity of the resource
// being decoded so the failing fetch can be reproduced by hand.
type DecodeError struct {
	ForecastHour int32
	URL          string
	Err          error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode gfs data for forecast hour %d (%s): %v", e.ForecastHour, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
