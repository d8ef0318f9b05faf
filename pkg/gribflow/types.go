package gribflow

import (
	"github.com/onnimonni/gribflow/internal/app/scan"
	"github.com/onnimonni/gribflow/internal/domain"
	"github.com/onnimonni/gribflow/internal/ports"
)

// Row is one schema-conformant output row of a scan.
type Row = domain.Row

// Sample is one raw decoded grid point, before projection.
type Sample = domain.Sample

// FilterBinding is the resolved scan configuration.
type FilterBinding = domain.FilterBinding

// ResourceDescriptor identifies one remote fetch target.
type ResourceDescriptor = domain.ResourceDescriptor

// Filter is the closed set of relational filter shapes the translator
// understands: Equality, Membership, Range.
type Filter = domain.Filter

// Equality is `column = constant`.
type Equality = domain.Equality

// Membership is `column IN (constants...)`.
type Membership = domain.Membership

// Range is a one-sided numeric comparison, used for the bounding box.
type Range = domain.Range

// Fetcher retrieves one remote resource as an opaque payload.
type Fetcher = ports.Fetcher

// Decoder turns one binary GRIB2 payload into a stream of samples.
type Decoder = ports.Decoder

// DecodeHandle is a single-use forward-only reader over one payload.
type DecodeHandle = ports.DecodeHandle

// Batch is one pull of decoded samples from a handle.
type Batch = ports.Batch

// RowSink consumes batches of output rows.
type RowSink = ports.RowSink

// RowTransformer mutates rows (unit conversion, enrichment) before a sink.
type RowTransformer = ports.RowTransformer

// Observability emits metrics and logs about scan throughput and failures.
type Observability = ports.Observability

// Field is a structured log/metric field.
type Field = ports.Field

// PlanNode is the minimal plan-tree view walked by the limit rewrite.
type PlanNode = ports.PlanNode

// ScanState is the cursor's position in its lifecycle.
type ScanState = scan.State

// ReportedCardinality is the constant row-count estimate the scan
// advertises to surrounding planners.
const ReportedCardinality = scan.ReportedCardinality

// Columns lists the output schema in declared order.
func Columns() []string { return domain.Columns() }

// Filter constructors. Column names are the virtual columns of the scan:
// run_date, run_hour, forecast_hour, variable, level, latitude, longitude.

func Eq(column string, value any) Filter {
	return domain.Equality{Column: column, Value: value}
}

func In(column string, values ...any) Filter {
	return domain.Membership{Column: column, Values: values}
}

func Gt(column string, value float64) Filter {
	return domain.Range{Column: column, Op: domain.OpGreater, Value: value}
}

func Gte(column string, value float64) Filter {
	return domain.Range{Column: column, Op: domain.OpGreaterEqual, Value: value}
}

func Lt(column string, value float64) Filter {
	return domain.Range{Column: column, Op: domain.OpLess, Value: value}
}

func Lte(column string, value float64) Filter {
	return domain.Range{Column: column, Op: domain.OpLessEqual, Value: value}
}
