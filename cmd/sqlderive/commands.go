package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/syssam/sqlderive/compiler/gen"
	"github.com/syssam/sqlderive/compiler/load"
	"github.com/syssam/sqlderive/dialect/sql"
	sqlschema "github.com/syssam/sqlderive/dialect/sql/schema"
	"github.com/syssam/sqlderive/schema"
)

// errVerifyFailed is returned by verify when a table does not match its record.
var errVerifyFailed = errors.New("verify: tables do not match their records")

// env is the environment a command runs in.
type env struct {
	cfg    *Config
	log    *slog.Logger
	stdout io.Writer
}

var commands = map[string]func(context.Context, *env) error{
	"gen":      runGen,
	"ddl":      runDDL,
	"apply":    runApply,
	"verify":   runVerify,
	"watch":    runWatch,
	"snapshot": runSnapshot,
}

const usage = `Usage: sqlderive [flags] <command>

Commands:
  gen       generate typed Go code for the records
  ddl       print the CREATE TABLE statements of the records
  apply     create the tables of the records in the database
  verify    compare the tables in the database with their records
  watch     reload the schema directory on change and create new tables
  snapshot  write the records as a MessagePack snapshot

Flags:
`

// records loads the records of the configured schema source: a directory,
// a schema file or a snapshot.
func (e *env) records() ([]*load.Record, error) {
	path := e.cfg.Schemas
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return nil, fmt.Errorf("schemas: %w", err)
	case info.IsDir():
		return load.LoadDir(path)
	case load.IsSchemaFile(path):
		return load.Load(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schemas: %w", err)
	}
	defer f.Close()
	return load.ReadSnapshot(f)
}

// schemas loads and resolves the records into a new registry.
func (e *env) schemas() ([]*schema.Schema, error) {
	recs, err := e.records()
	if err != nil {
		return nil, err
	}
	return load.RegisterAll(schema.NewRegistry(), recs)
}

// open opens the configured database with statement statistics.
func (e *env) open() (*sql.Driver, *sql.StatsDriver, error) {
	if e.cfg.DSN == "" {
		return nil, nil, errors.New("missing dsn: set --dsn or SQLDERIVE_DSN")
	}
	drv, err := sql.Open(e.cfg.Driver, e.cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", e.cfg.Driver, err)
	}
	stats := sql.NewStatsDriver(drv,
		sql.WithSlowThreshold(e.cfg.SlowThreshold),
		sql.WithSlowQueryLog(e.log),
	)
	return drv, stats, nil
}

func runGen(ctx context.Context, e *env) error {
	schemas, err := e.schemas()
	if err != nil {
		return err
	}
	cfg, err := gen.NewConfig(gen.WithTarget(e.cfg.Gen.Target), gen.WithWorkers(e.cfg.Gen.Workers), gen.WithHeader(e.cfg.Gen.Header))
	if err != nil {
		return err
	}
	if e.cfg.Gen.Package != "" {
		if err := cfg.Apply(gen.WithPackage(e.cfg.Gen.Package)); err != nil {
			return err
		}
	}
	m, err := gen.GenerateWithMetrics(ctx, cfg, schemas)
	if err != nil {
		return err
	}
	e.log.InfoContext(ctx, "code generated",
		"target", cfg.Target,
		"package", cfg.Package,
		"files", m.FilesGenerated,
		"bytes", m.TotalBytes,
	)
	return nil
}

func runDDL(_ context.Context, e *env) error {
	schemas, err := e.schemas()
	if err != nil {
		return err
	}
	for _, s := range schemas {
		if _, err := fmt.Fprintf(e.stdout, "%s;\n", sql.CreateTable(s)); err != nil {
			return err
		}
	}
	return nil
}

func runApply(ctx context.Context, e *env) error {
	schemas, err := e.schemas()
	if err != nil {
		return err
	}
	drv, stats, err := e.open()
	if err != nil {
		return err
	}
	defer drv.Close()
	if err := apply(ctx, stats, schemas); err != nil {
		return err
	}
	e.log.InfoContext(ctx, "tables applied", "tables", len(schemas), "stats", stats.QueryStats().Stats().String())
	return nil
}

// apply creates the table of every schema, stopping at the first failure.
func apply(ctx context.Context, drv *sql.StatsDriver, schemas []*schema.Schema) error {
	for _, s := range schemas {
		if err := drv.Exec(ctx, sql.CreateTable(s), []any{}, nil); err != nil {
			return fmt.Errorf("create table %s: %w", s.Table(), err)
		}
	}
	return nil
}

func runVerify(ctx context.Context, e *env) error {
	schemas, err := e.schemas()
	if err != nil {
		return err
	}
	drv, _, err := e.open()
	if err != nil {
		return err
	}
	defer drv.Close()
	insp, err := sqlschema.Open(drv.DB(), drv.Dialect())
	if err != nil {
		return err
	}
	var opts []sqlschema.VerifyOption
	if e.cfg.Verify.AllowExtraColumns {
		opts = append(opts, sqlschema.AllowExtraColumns())
	}
	if e.cfg.Verify.StrictTypes {
		opts = append(opts, sqlschema.StrictTypes())
	}
	failed := false
	for _, s := range schemas {
		res, err := sqlschema.VerifyWith(ctx, insp, s, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%s (%s):\n%s\n", s.Name(), s.Table(), res)
		failed = failed || res.HasErrors()
	}
	if failed {
		return errVerifyFailed
	}
	return nil
}

func runWatch(ctx context.Context, e *env) error {
	var stats *sql.StatsDriver
	if e.cfg.DSN != "" {
		drv, s, err := e.open()
		if err != nil {
			return err
		}
		defer drv.Close()
		stats = s
	}
	onChange := func(schemas []*schema.Schema) {
		e.log.InfoContext(ctx, "schemas loaded", "records", len(schemas))
		if stats == nil {
			return
		}
		if err := apply(ctx, stats, schemas); err != nil {
			e.log.ErrorContext(ctx, "applying tables failed", "error", err)
		}
	}
	return load.Watch(ctx, e.cfg.Schemas, schema.NewRegistry(), onChange, load.WatchLogger(e.log))
}

func runSnapshot(_ context.Context, e *env) error {
	recs, err := e.records()
	if err != nil {
		return err
	}
	if _, err := load.Resolve(recs); err != nil {
		return err
	}
	if e.cfg.Snapshot == "" {
		return load.WriteSnapshot(e.stdout, recs)
	}
	f, err := os.Create(e.cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := load.WriteSnapshot(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
