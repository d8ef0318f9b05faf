package gribflow

import (
	"context"
	"fmt"

	"github.com/onnimonni/gribflow/internal/app/plan"
)

// Query is a convenience builder that lets callers say Conf → Where →
// Limit → Rows without touching the underlying wiring. The limit travels
// through the real plan-rewrite pass, so a constant bound reaches the scan
// configuration exactly the way an embedding planner would deliver it.
type Query struct {
	cfg      *Config
	opts     []ScanRuntimeOption
	filters  []Filter
	limit    int64
	hasLimit bool
}

// Conf loads YAML from disk and returns a Query builder.
func Conf(path string, opts ...ScanRuntimeOption) (*Query, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig bootstraps a Query from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...ScanRuntimeOption) (*Query, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return &Query{cfg: cfg, opts: opts}, nil
}

// Config returns the underlying configuration so callers can tweak it
// before opening a scan.
func (q *Query) Config() *Config {
	if q == nil {
		return nil
	}
	return q.cfg
}

// Options appends runtime options (decoder, fetcher, sink, observability).
func (q *Query) Options(opts ...ScanRuntimeOption) *Query {
	if q == nil {
		return nil
	}
	q.opts = append(q.opts, opts...)
	return q
}

// Where appends relational filters. Supported shapes are pushed into the
// scan configuration; the rest stay residual and are re-checked on export.
func (q *Query) Where(filters ...Filter) *Query {
	if q == nil {
		return nil
	}
	q.filters = append(q.filters, filters...)
	return q
}

// Limit caps the number of emitted rows.
func (q *Query) Limit(n int64) *Query {
	if q == nil {
		return nil
	}
	q.limit = n
	q.hasLimit = true
	return q
}

// Rows builds the runtime, binds the filters, runs the limit rewrite, and
// opens the scan. The caller pulls batches with Next and must Close.
func (q *Query) Rows() (*Scan, error) {
	if q == nil {
		return nil, fmt.Errorf("query is nil")
	}

	rt, err := NewScanRuntime(q.cfg, q.opts...)
	if err != nil {
		return nil, err
	}

	binding, residual := rt.Bind(q.filters...)

	if q.hasLimit {
		root := plan.Limit(q.limit, plan.Projection(plan.TableScan(plan.TableName, binding)))
		plan.PushdownLimit(root)
		// MaxResults cannot express a zero bound (0 means unlimited), and
		// with no engine above the scan nothing else would enforce it.
		// A zero limit needs no remote resources at all.
		if q.limit <= 0 {
			binding.ForecastHours = nil
		}
	}

	return rt.Open(binding, residual), nil
}

// Into opens the scan and exports every row into the given sink, applying
// residual filters on the way. It blocks until the scan is drained or
// fails, then releases the scan and the runtime.
func (q *Query) Into(ctx context.Context, s RowSink, opts ...ExporterOption) error {
	sc, err := q.Rows()
	if err != nil {
		return err
	}
	defer sc.Close()
	defer func() { _ = sc.runtime.Shutdown(context.Background()) }()

	opts = append([]ExporterOption{
		WithExportTransformer(sc.runtime.transformer),
		WithExportObservability(sc.runtime.obs),
	}, opts...)

	return NewExporter(s, opts...).Run(ctx, sc)
}

// Run exports into the sink configured on the runtime (e.g. Postgres).
func (q *Query) Run(ctx context.Context, opts ...ExporterOption) error {
	sc, err := q.Rows()
	if err != nil {
		return err
	}
	defer sc.Close()
	defer func() { _ = sc.runtime.Shutdown(context.Background()) }()

	snk := sc.runtime.Sink()
	if snk == nil {
		return fmt.Errorf("no sink configured: set postgres.conn_string or use Into")
	}

	opts = append([]ExporterOption{
		WithExportTransformer(sc.runtime.transformer),
		WithExportObservability(sc.runtime.obs),
	}, opts...)

	return NewExporter(snk, opts...).Run(ctx, sc)
}
