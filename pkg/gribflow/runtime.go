package gribflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnimonni/gribflow/internal/adapters/nomads"
	"github.com/onnimonni/gribflow/internal/adapters/observability"
	"github.com/onnimonni/gribflow/internal/adapters/sink"
	"github.com/onnimonni/gribflow/internal/app/plan"
	"github.com/onnimonni/gribflow/internal/app/scan"
	"github.com/onnimonni/gribflow/internal/app/translate"
	"github.com/onnimonni/gribflow/internal/domain"
	"github.com/onnimonni/gribflow/internal/ports"
)

// ScanRuntimeOption customizes the dependencies used by ScanRuntime.
type ScanRuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	fetcher       Fetcher
	decoder       Decoder
	sink          RowSink
	transformer   RowTransformer
	observability Observability
}

// WithFetcher injects a custom resource fetcher (caching proxies, test
// doubles, alternate mirrors).
func WithFetcher(f Fetcher) ScanRuntimeOption {
	return func(o *runtimeOverrides) {
		o.fetcher = f
	}
}

// WithDecoder injects the GRIB2 decoder the scans will use. A decoder is
// required: decoding is an external collaborator of this module.
func WithDecoder(d Decoder) ScanRuntimeOption {
	return func(o *runtimeOverrides) {
		o.decoder = d
	}
}

// WithSink injects a custom row sink so scans can export to any downstream
// system.
func WithSink(s RowSink) ScanRuntimeOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithTransformer overrides the default no-op row transformer.
func WithTransformer(t RowTransformer) ScanRuntimeOption {
	return func(o *runtimeOverrides) {
		o.transformer = t
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) ScanRuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// RegisterDecoder installs a process-wide default decoder used when a
// runtime is built without WithDecoder. Typically called from an init
// function of the package that links the native GRIB2 reader in.
func RegisterDecoder(d Decoder) {
	defaultDecoder = d
}

var defaultDecoder Decoder

// ScanRuntime wires the fetch → decode → project scan engine together and
// exposes simple lifecycle hooks for embedding it inside any Go service.
type ScanRuntime struct {
	cfg         *Config
	fetcher     ports.Fetcher
	decoder     ports.Decoder
	obs         ports.Observability
	sink        ports.RowSink
	transformer ports.RowTransformer
	db          *sql.DB
	metricsSrv  *http.Server
}

// NewScanRuntime bootstraps the default adapters (NOMADS HTTP fetcher,
// Prometheus observability, Postgres sink when configured). Callers can use
// ScanRuntimeOption values to override any dependency. The decoder must
// come from WithDecoder or a prior RegisterDecoder call.
func NewScanRuntime(cfg *Config, opts ...ScanRuntimeOption) (*ScanRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.ApplyDefaults()

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	dec := overrides.decoder
	if dec == nil {
		dec = defaultDecoder
	}
	if dec == nil {
		return nil, fmt.Errorf("no GRIB2 decoder available: use WithDecoder or RegisterDecoder")
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	fetcher := overrides.fetcher
	if fetcher == nil {
		fetcher = nomads.NewHTTPFetcher(cfg.Endpoint.Timeout)
	}

	var (
		db  *sql.DB
		snk ports.RowSink
		err error
	)
	if overrides.sink != nil {
		snk = overrides.sink
	} else if cfg.Postgres.ConnString != "" {
		db, err = sql.Open("postgres", cfg.Postgres.ConnString)
		if err != nil {
			return nil, err
		}
		snk = sink.NewPostgresSink(db, cfg.Postgres.Table)
	}

	tr := overrides.transformer
	if tr == nil {
		tr = noopTransformer{}
	}

	return &ScanRuntime{
		cfg:         cfg,
		fetcher:     fetcher,
		decoder:     dec,
		obs:         obs,
		sink:        snk,
		transformer: tr,
		db:          db,
	}, nil
}

// Sink returns the configured row sink, or nil when none is wired.
func (r *ScanRuntime) Sink() RowSink { return r.sink }

// Observability returns the wired observability backend.
func (r *ScanRuntime) Observability() Observability { return r.obs }

// Bind builds a fresh binding, folds the supported filters into it, and
// returns the residual filters the caller must keep enforcing. The binding
// is still mutable here; Open freezes it.
func (r *ScanRuntime) Bind(filters ...Filter) (*FilterBinding, []Filter) {
	binding := domain.NewFilterBinding(time.Now())
	for _, v := range r.cfg.Scan.DefaultVariables {
		if n := nomads.NormalizeVariable(v); n != "" {
			binding.Variables = append(binding.Variables, n)
		}
	}
	for _, l := range r.cfg.Scan.DefaultLevels {
		if n := nomads.NormalizeLevel(l); n != "" {
			binding.Levels = append(binding.Levels, n)
		}
	}
	residual := translate.Pushdown(binding, filters)
	return binding, residual
}

// Open freezes the binding, enumerates the resource list, and returns an
// executing scan. The descriptor list is immutable from here on.
func (r *ScanRuntime) Open(binding *FilterBinding, residual []Filter) *Scan {
	frozen := binding.Clone()
	descriptors := nomads.EnumerateResources(r.cfg.Endpoint.BaseURL, frozen)
	cursor := scan.NewCursor(frozen, descriptors, r.fetcher, r.decoder, r.obs, r.cfg.Scan.BatchSize)
	return &Scan{
		runtime:     r,
		binding:     frozen,
		descriptors: descriptors,
		residual:    append([]Filter(nil), residual...),
		cursor:      cursor,
	}
}

// Start launches the metrics HTTP server. It returns immediately.
func (r *ScanRuntime) Start() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{Addr: r.cfg.Metrics.Addr, Handler: mux}
	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.obs.LogError("metrics_server_failed", err)
		}
	}()
}

// Shutdown stops the metrics server and closes the sink database.
func (r *ScanRuntime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Scan is one executing logical scan: a frozen binding, its enumerated
// resource list, and the cursor streaming rows out of them.
type Scan struct {
	runtime     *ScanRuntime
	binding     *FilterBinding
	descriptors []ResourceDescriptor
	residual    []Filter
	cursor      *scan.Cursor
}

// Next pulls the next batch of rows. nil rows with nil error means the
// scan is finished; it stays finished forever after.
func (s *Scan) Next(ctx context.Context) ([]Row, error) {
	return s.cursor.Next(ctx)
}

// Residual returns the filters the translator could not fully consume. The
// caller is responsible for re-checking them against emitted rows; the
// bounding-box ranges always appear here even when pushed down.
func (s *Scan) Residual() []Filter {
	return append([]Filter(nil), s.residual...)
}

// Resources returns the immutable resource list, in fetch order.
func (s *Scan) Resources() []ResourceDescriptor {
	return append([]ResourceDescriptor(nil), s.descriptors...)
}

// Binding returns the frozen scan configuration.
func (s *Scan) Binding() *FilterBinding { return s.binding }

// Progress reports the advisory completion fraction in [0, 1].
func (s *Scan) Progress() float64 { return s.cursor.Progress() }

// State reports the cursor lifecycle state.
func (s *Scan) State() ScanState { return s.cursor.State() }

// Close releases the open decoder handle, if any. Safe to call at any
// point, including mid-batch abandonment.
func (s *Scan) Close() { s.cursor.Close() }

// PushdownLimit runs the plan rewrite over an arbitrary plan tree. It is
// re-exported so embedding planners can call it during their optimization
// pass.
func PushdownLimit(root PlanNode) { plan.PushdownLimit(root) }

// TableName is the table-function identity the limit rewrite matches.
const TableName = plan.TableName

type noopTransformer struct{}

func (noopTransformer) Transform(r Row) (Row, error) { return r, nil }
