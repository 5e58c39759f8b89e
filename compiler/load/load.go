package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema"
)

// Extensions lists the file extensions recognized as schema files.
var Extensions = []string{".yaml", ".yml", ".json"}

// IsSchemaFile reports if path has a schema file extension.
func IsSchemaFile(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Load reads the records of one schema file. YAML and JSON are supported,
// selected by the file extension. Unknown keys are rejected.
//
//	records:
//	  - name: User
//	    table: users
//	    fields:
//	      - {name: id, type: int32}
//	      - {name: name, type: text}
func Load(path string) ([]*Record, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading schema file: %w", err)
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("load: parsing %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("load: parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("load: unsupported schema file %s", path)
	}
	for i, r := range f.Records {
		if r == nil {
			return nil, fmt.Errorf("load: %s: record %d is empty", path, i)
		}
		r.Pos = path
	}
	return f.Records, nil
}

// LoadDir reads all schema files of dir, in lexical file order. A record
// name declared twice is a SchemaError.
func LoadDir(dir string) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load: reading schema dir: %w", err)
	}
	var (
		recs []*Record
		seen = make(map[string]string)
	)
	for _, e := range entries {
		if e.IsDir() || !IsSchemaFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		for _, r := range loaded {
			if prev, ok := seen[r.Name]; ok {
				return nil, sqlderive.NewSchemaError(r.Name, "", fmt.Sprintf("declared in %s and %s", prev, path), nil)
			}
			seen[r.Name] = path
		}
		recs = append(recs, loaded...)
	}
	return recs, nil
}

// Resolve resolves all records into schemas. Every record is checked and
// all failures are reported together. A record name declared twice is a
// SchemaError, even within one file.
func Resolve(recs []*Record) ([]*schema.Schema, error) {
	var (
		schemas = make([]*schema.Schema, 0, len(recs))
		seen    = make(map[string]string, len(recs))
		errs    []error
	)
	for _, r := range recs {
		if prev, ok := seen[r.Name]; ok {
			errs = append(errs, sqlderive.NewSchemaError(r.Name, "", fmt.Sprintf("declared in %s and %s", prev, r.Pos), nil))
			continue
		}
		seen[r.Name] = r.Pos
		s, err := r.Schema()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		schemas = append(schemas, s)
	}
	if err := sqlderive.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return schemas, nil
}

// RegisterAll resolves the records and registers them in r. It is
// all-or-nothing: if any record fails to resolve, nothing is registered.
func RegisterAll(r *schema.Registry, recs []*Record) ([]*schema.Schema, error) {
	schemas, err := Resolve(recs)
	if err != nil {
		return nil, err
	}
	for _, s := range schemas {
		r.Put(s)
	}
	return schemas, nil
}

// ReplaceAll resolves the records and makes them the only schemas of r.
// Records no longer present are removed. If any record fails to resolve, r
// is left unchanged.
func ReplaceAll(r *schema.Registry, recs []*Record) ([]*schema.Schema, error) {
	schemas, err := Resolve(recs)
	if err != nil {
		return nil, err
	}
	r.Replace(schemas...)
	return schemas, nil
}
