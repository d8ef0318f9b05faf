package gribflow

import (
	base "github.com/onnimonni/gribflow/pkg/gribflow"
)

// Re-exported errors for convenience.
var ErrChannelSinkClosed = base.ErrChannelSinkClosed

// TableName is the table-function identity the limit rewrite matches.
const TableName = base.TableName

// ReportedCardinality is the constant row-count estimate the scan
// advertises to surrounding planners.
const ReportedCardinality = base.ReportedCardinality

// Type aliases so consumers can import github.com/onnimonni/gribflow directly.
type (
	Config             = base.Config
	EndpointConfig     = base.EndpointConfig
	ScanConfig         = base.ScanConfig
	MetricsConfig      = base.MetricsConfig
	PostgresConfig     = base.PostgresConfig
	Query              = base.Query
	ScanRuntime        = base.ScanRuntime
	ScanRuntimeOption  = base.ScanRuntimeOption
	Scan               = base.Scan
	ScanState          = base.ScanState
	Exporter           = base.Exporter
	ExporterOption     = base.ExporterOption
	Row                = base.Row
	Sample             = base.Sample
	FilterBinding      = base.FilterBinding
	ResourceDescriptor = base.ResourceDescriptor
	Filter             = base.Filter
	Equality           = base.Equality
	Membership         = base.Membership
	Range              = base.Range
	Fetcher            = base.Fetcher
	Decoder            = base.Decoder
	DecodeHandle       = base.DecodeHandle
	Batch              = base.Batch
	RowSink            = base.RowSink
	RowBatchSink       = base.RowBatchSink
	RowTransformer     = base.RowTransformer
	Observability      = base.Observability
	Field              = base.Field
	PlanNode           = base.PlanNode
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Query builder helpers.
func Conf(path string, opts ...ScanRuntimeOption) (*Query, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...ScanRuntimeOption) (*Query, error) {
	return base.ConfFromConfig(cfg, opts...)
}

// Filter constructors.
func Eq(column string, value any) Filter {
	return base.Eq(column, value)
}

func In(column string, values ...any) Filter {
	return base.In(column, values...)
}

func Gt(column string, value float64) Filter {
	return base.Gt(column, value)
}

func Gte(column string, value float64) Filter {
	return base.Gte(column, value)
}

func Lt(column string, value float64) Filter {
	return base.Lt(column, value)
}

func Lte(column string, value float64) Filter {
	return base.Lte(column, value)
}

// Columns lists the output schema in declared order.
func Columns() []string { return base.Columns() }

// Runtime and options.
func NewScanRuntime(cfg *Config, opts ...ScanRuntimeOption) (*ScanRuntime, error) {
	return base.NewScanRuntime(cfg, opts...)
}

func WithFetcher(f Fetcher) ScanRuntimeOption {
	return base.WithFetcher(f)
}

func WithDecoder(d Decoder) ScanRuntimeOption {
	return base.WithDecoder(d)
}

func WithSink(s RowSink) ScanRuntimeOption {
	return base.WithSink(s)
}

func WithTransformer(tr RowTransformer) ScanRuntimeOption {
	return base.WithTransformer(tr)
}

func WithObservability(obs Observability) ScanRuntimeOption {
	return base.WithObservability(obs)
}

// RegisterDecoder installs a process-wide default decoder.
func RegisterDecoder(d Decoder) {
	base.RegisterDecoder(d)
}

// Plan rewrite.
func PushdownLimit(root PlanNode) {
	base.PushdownLimit(root)
}

// Sink adapters.
func NewCallbackSink(name string, fn RowBatchSink) RowSink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (RowSink, <-chan []Row, func()) {
	return base.NewChannelSink(name, buffer)
}

// Exporter.
func NewExporter(s RowSink, opts ...ExporterOption) *Exporter {
	return base.NewExporter(s, opts...)
}

func WithExportBuffer(rows int) ExporterOption {
	return base.WithExportBuffer(rows)
}

func WithExportTransformer(tr RowTransformer) ExporterOption {
	return base.WithExportTransformer(tr)
}

func WithExportObservability(obs Observability) ExporterOption {
	return base.WithExportObservability(obs)
}
