package gen

import (
	"context"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema"
)

// Types builds the generation model of every schema and checks that their
// package-level identifiers do not collide.
func Types(schemas []*schema.Schema) ([]*Type, error) {
	var (
		types []*Type
		errs  []error
		owner = map[string]string{"Schemas": "schemas.go", "Register": "schemas.go"}
		files = map[string]string{"schemas.go": "schemas.go"}
	)
	for _, s := range schemas {
		t, err := NewType(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, ok := files[t.FileName()]; ok {
			errs = append(errs, sqlderive.NewSchemaError(s.Name(), "", fmt.Sprintf("file %s is also generated by %s", t.FileName(), prev), nil))
			continue
		}
		files[t.FileName()] = fmt.Sprintf("record %q", s.Name())
		var clash error
		for _, name := range t.names() {
			if prev, ok := owner[name]; ok {
				clash = sqlderive.NewSchemaError(s.Name(), "", fmt.Sprintf("identifier %s is also declared by %s", name, prev), nil)
				break
			}
		}
		if clash != nil {
			errs = append(errs, clash)
			continue
		}
		for _, name := range t.names() {
			owner[name] = files[t.FileName()]
		}
		types = append(types, t)
	}
	if err := sqlderive.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return types, nil
}

// Render returns the file generated for t.
func Render(cfg *Config, t *Type) *jen.File {
	return genRecord(cfg, t)
}

// Generate writes one file per schema, plus schemas.go, into cfg.Target.
//
//	cfg, err := gen.NewConfig(gen.WithTarget("./models"))
//	...
//	err = gen.Generate(ctx, cfg, schemas)
func Generate(ctx context.Context, cfg *Config, schemas []*schema.Schema) error {
	_, err := GenerateWithMetrics(ctx, cfg, schemas)
	return err
}

// GenerateWithMetrics is like Generate and also reports the writer metrics.
func GenerateWithMetrics(ctx context.Context, cfg *Config, schemas []*schema.Schema) (WriterMetrics, error) {
	if cfg == nil {
		return WriterMetrics{}, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := cfg.defaults(); err != nil {
		return WriterMetrics{}, err
	}
	types, err := Types(schemas)
	if err != nil {
		return WriterMetrics{}, err
	}
	files := make([]fileTask, 0, len(types)+1)
	for _, t := range types {
		files = append(files, fileTask{name: t.FileName(), file: genRecord(cfg, t)})
	}
	files = append(files, fileTask{name: "schemas.go", file: genSchemas(cfg, types)})

	w := NewWriter(cfg.Target, cfg.Workers)
	if err := w.WriteAll(ctx, files); err != nil {
		return w.Metrics(), err
	}
	return w.Metrics(), nil
}
