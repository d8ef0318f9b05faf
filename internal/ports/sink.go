package ports

import "github.com/onnimonni/gribflow/internal/domain"

type RowSink interface {
	WriteRows(rows []domain.Row) error
	Name() string
}
