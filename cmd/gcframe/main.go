package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/gcframe/engine"
	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/internal/logging"
	"github.com/spektr-org/gcframe/recipe"
	"github.com/spektr-org/gcframe/schema"
)

// ============================================================================
// GCFRAME CLI — Split, transform and reassemble grouped CSV data
// ============================================================================

const version = "0.1.0"

type options struct {
	file      string
	recipe    string
	schema    string
	discover  bool
	format    string
	out       string
	logLevel  string
	logFormat string
}

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	var opts options
	flag.StringVar(&opts.file, "file", "", "Path to CSV data file (required)")
	flag.StringVar(&opts.recipe, "recipe", "", "Path to YAML or JSON recipe")
	flag.StringVar(&opts.schema, "schema", "", "Path to pre-built schema JSON (skips auto-detect)")
	flag.BoolVar(&opts.discover, "discover", false, "Print auto-detected schema and exit")
	flag.StringVar(&opts.format, "format", "json", "Output format: json, pretty, text, csv")
	flag.StringVar(&opts.out, "out", "", "Write output to file instead of stdout")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.logFormat, "log-format", "console", "Log format: console, json")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `gcframe: grouped pipelines over CSV data

Usage:
  gcframe --file data.csv --recipe recipe.yaml
  gcframe --file data.csv --recipe recipe.yaml --format pretty --out out.json
  gcframe --file data.csv --recipe recipe.yaml --format text
  gcframe --file data.csv --discover --format pretty

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Formats:
  json      {"data": [...]} document (default)
  pretty    Indented JSON
  text      Reassembled table as an aligned grid
  csv       Reassembled table as CSV (ready for Sheets/Excel)

The JSON document goes to --out, else to the recipe's output file, else
to stdout. Logs go to stderr.
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("gcframe %s\n", version)
		os.Exit(0)
	}

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		flag.Usage()
		os.Exit(1)
	}
	if !opts.discover && opts.recipe == "" {
		fmt.Fprintln(os.Stderr, "Error: either --discover or --recipe is required")
		flag.Usage()
		os.Exit(1)
	}

	// ── Logger ────────────────────────────────────────────────────────────
	logger, err := logging.New(logging.Config{
		Level:  opts.logLevel,
		Format: opts.logFormat,
		Output: "stderr",
	})
	if err != nil {
		fatalf("Invalid logging flags: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	if err := run(opts, os.Stdout, logger); err != nil {
		fatalf("%v", err)
	}
}

// run executes one invocation. stdout receives the output unless opts.out
// or the recipe names a file.
func run(opts options, stdout io.Writer, logger *zap.Logger) error {
	// ── Read data ─────────────────────────────────────────────────────────
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// ── Schema ────────────────────────────────────────────────────────────
	sch, err := loadSchema(opts, data, logger)
	if err != nil {
		return err
	}

	// ── Discover mode ─────────────────────────────────────────────────────
	if opts.discover {
		return withOutput(opts.out, stdout, func(w io.Writer) error {
			return writeJSON(w, sch, opts.format)
		})
	}

	// ── Recipe mode ───────────────────────────────────────────────────────
	rec, err := recipe.Load(opts.recipe)
	if err != nil {
		return err
	}
	f, err := rec.Frame(data, *sch, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load CSV: %w", err)
	}
	f = rec.Apply(f)
	logger.Info("applied recipe",
		zap.String("recipe", rec.Name),
		zap.Bool("grouped", f.Grouped()),
		zap.Int("steps", f.Len()),
	)

	// ── Render output ─────────────────────────────────────────────────────
	switch opts.format {
	case "text":
		tbl, err := rec.Reassemble(f)
		if err != nil {
			return err
		}
		return withOutput(opts.out, stdout, func(w io.Writer) error {
			_, err := io.WriteString(w, tbl.String())
			return err
		})
	case "csv":
		tbl, err := f.Concat(append(rec.ConcatOptions(), engine.WithMultiIndex(engine.MultiIndexJoin))...)
		if err != nil {
			return err
		}
		return withOutput(opts.out, stdout, func(w io.Writer) error {
			return writeCSV(w, engine.BuildRecords(tbl, rowField(rec)))
		})
	case "pretty":
		var buf bytes.Buffer
		if err := rec.Export(f, &buf); err != nil {
			return err
		}
		return withOutput(opts.out, stdout, func(w io.Writer) error {
			var out bytes.Buffer
			if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err := w.Write(out.Bytes())
			return err
		})
	case "json":
		if opts.out != "" {
			rec.Output.File = opts.out
		}
		if rec.Output.File != "" {
			return rec.ExportFile(f)
		}
		return rec.Export(f, stdout)
	}
	return fmt.Errorf("unknown format %q", opts.format)
}

func loadSchema(opts options, data []byte, logger *zap.Logger) (*schema.Config, error) {
	if opts.schema != "" {
		raw, err := os.ReadFile(opts.schema)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		sch := &schema.Config{}
		if err := json.Unmarshal(raw, sch); err != nil {
			return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
		}
		logger.Info("loaded schema",
			zap.String("name", sch.Name),
			zap.Int("columns", len(sch.Columns)),
		)
		return sch, nil
	}

	sch, err := schema.DiscoverFromCSV(data)
	if err != nil {
		return nil, fmt.Errorf("auto-detect failed: %w", err)
	}
	logger.Info("discovered schema",
		zap.String("name", sch.Name),
		zap.String("index", sch.Index),
		zap.Strings("values", sch.ValueKeys()),
		zap.Strings("groups", sch.GroupKeys()),
	)
	return sch, nil
}

func rowField(rec *recipe.Recipe) string {
	if rec.Output.RowField != nil {
		return *rec.Output.RowField
	}
	return engine.DefaultRowField
}

// withOutput hands fn the --out file, or stdout when no file is named.
func withOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return errors.Join(fn(file), file.Close())
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// CSV OUTPUT — Reassembled table → Sheets-ready CSV
// ============================================================================

func writeCSV(w io.Writer, records []frame.Record) error {
	cw := csv.NewWriter(w)
	if len(records) == 0 {
		cw.Flush()
		return cw.Error()
	}

	headers := records[0].Keys()
	if err := cw.Write(headers); err != nil {
		return err
	}
	row := make([]string, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			v, _ := rec.Get(h)
			row[i] = csvCell(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return fmtNum(x)
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return frame.FormatISO(x)
	}
	return frame.FormatLabel(v)
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	// Whole numbers → no decimals
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
