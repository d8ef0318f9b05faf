package sink

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/onnimonni/gribflow/internal/domain"
	"github.com/onnimonni/gribflow/internal/ports"
)

// PostgresSink persists output rows with batched multi-row inserts. Rows
// are append-only observations; there is no conflict handling because the
// scan never re-emits a row within one execution.
type PostgresSink struct {
	db        *sql.DB
	tableName string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, tableName: table}
}

func (p *PostgresSink) Name() string { return "postgres" }

func (p *PostgresSink) WriteRows(rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(p.tableName)
	b.WriteString(" (latitude, longitude, value, unit, variable, level, forecast_hour, run_date, run_hour) VALUES ")

	args := make([]any, 0, len(rows)*9)
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		base := len(args)
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))

		args = append(args,
			r.Latitude,
			r.Longitude,
			r.Value,
			r.Unit,
			r.Variable,
			r.Level,
			r.ForecastHour,
			r.RunDate,
			r.RunHour,
		)
	}

	_, err := p.db.Exec(b.String(), args...)
	return err
}

var _ ports.RowSink = (*PostgresSink)(nil)
