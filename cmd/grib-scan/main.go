package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/onnimonni/gribflow"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "scan":
		err = scanCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("grib-scan %s: %v", cmd, err)
	}
}

func scanCommand(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file")
	date := fs.String("date", "", "Model run date (YYYYMMDD, default today)")
	hour := fs.Int("hour", -1, "Model run hour (0, 6, 12, 18)")
	fhours := fs.String("fhours", "", "Comma-separated forecast hours, e.g. 0,3,6")
	vars := fs.String("vars", "", "Comma-separated variables, e.g. temperature,humidity")
	levels := fs.String("levels", "", "Comma-separated levels, e.g. 2m,surface")
	bbox := fs.String("bbox", "", "Bounding box latmin,latmax,lonmin,lonmax")
	limit := fs.Int64("limit", 0, "Maximum rows to emit (0 = unlimited)")
	dryRun := fs.Bool("dry-run", false, "Print the resource URLs without fetching")
	toDB := fs.Bool("into-postgres", false, "Write rows to the configured Postgres table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters, err := buildFilters(*date, *hour, *fhours, *vars, *levels, *bbox)
	if err != nil {
		return err
	}

	query, err := gribflow.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	query.Where(filters...)
	if *limit > 0 {
		query.Limit(*limit)
	}

	if *dryRun {
		// Resource enumeration is pure, so no decoder is needed here.
		query.Options(gribflow.WithDecoder(unusableDecoder{}))
		sc, err := query.Rows()
		if err != nil {
			return err
		}
		defer sc.Close()
		for _, res := range sc.Resources() {
			fmt.Println(res.URL)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *toDB {
		return query.Run(ctx)
	}

	return query.Into(ctx, gribflow.NewCallbackSink("stdout", printRows))
}

func printRows(rows []gribflow.Row) error {
	w := bufio.NewWriter(os.Stdout)
	for _, r := range rows {
		unit := ""
		if r.Unit.Valid {
			unit = r.Unit.String
		}
		fmt.Fprintf(w, "%.4f,%.4f,%g,%s,%s,%s,%d,%s,%d\n",
			r.Latitude, r.Longitude, r.Value, unit, r.Variable,
			r.Level, r.ForecastHour, r.RunDate, r.RunHour)
	}
	return w.Flush()
}

func buildFilters(date string, hour int, fhours, vars, levels, bbox string) ([]gribflow.Filter, error) {
	var filters []gribflow.Filter

	if date != "" {
		filters = append(filters, gribflow.Eq("run_date", date))
	}
	if hour >= 0 {
		filters = append(filters, gribflow.Eq("run_hour", hour))
	}
	if fhours != "" {
		hours, err := splitInts(fhours)
		if err != nil {
			return nil, fmt.Errorf("parse -fhours: %w", err)
		}
		filters = append(filters, gribflow.In("forecast_hour", hours...))
	}
	if vars != "" {
		filters = append(filters, gribflow.In("variable", splitStrings(vars)...))
	}
	if levels != "" {
		filters = append(filters, gribflow.In("level", splitStrings(levels)...))
	}
	if bbox != "" {
		parts := strings.Split(bbox, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("parse -bbox: want latmin,latmax,lonmin,lonmax")
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("parse -bbox: %w", err)
			}
			vals[i] = v
		}
		filters = append(filters,
			gribflow.Gte("latitude", vals[0]),
			gribflow.Lte("latitude", vals[1]),
			gribflow.Gte("longitude", vals[2]),
			gribflow.Lte("longitude", vals[3]),
		)
	}

	return filters, nil
}

func splitStrings(s string) []any {
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitInts(s string) ([]any, error) {
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := gribflow.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"gribflow_rows_emitted_total":        0,
		"gribflow_resources_completed_total": 0,
		"gribflow_scan_progress_ratio":       0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] rows=%.0f resources=%.0f progress=%.2f\n",
		time.Now().Format(time.RFC3339),
		targets["gribflow_rows_emitted_total"],
		targets["gribflow_resources_completed_total"],
		targets["gribflow_scan_progress_ratio"],
	)
	return nil
}

// unusableDecoder satisfies the decoder requirement for -dry-run, where no
// payload is ever opened.
type unusableDecoder struct{}

func (unusableDecoder) Open([]byte) (gribflow.DecodeHandle, error) {
	return nil, fmt.Errorf("no GRIB2 decoder linked into this build")
}

func printUsage() {
	fmt.Printf(`GribFlow CLI

Usage:
  grib-scan <command> [flags]

Commands:
  scan       Execute a forecast scan and print rows (or write to Postgres)
  validate   Load and validate a config file
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  grib-scan scan -date 20260120 -hour 0 -vars temperature -levels 2m -bbox 60,63,22,25 -limit 100
  grib-scan scan -fhours 0,3,6 -dry-run
  grib-scan validate -config ./config.yaml
  grib-scan stats -url http://localhost:9100/metrics -interval 1s
`)
}
