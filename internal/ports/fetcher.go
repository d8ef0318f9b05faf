package ports

import "context"

// Fetcher retrieves one remote resource as an opaque payload. Any non-2xx
// response is an error; implementations carry the status code and the full
// URL so failures can be reproduced by hand.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
