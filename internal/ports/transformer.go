package ports

import "github.com/onnimonni/gribflow/internal/domain"

type RowTransformer interface {
	Transform(domain.Row) (domain.Row, error)
}
