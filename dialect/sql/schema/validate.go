package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/sqlderive/dialect"
	record "github.com/syssam/sqlderive/schema"
)

// ValidationError represents a difference between a record schema and the
// table found in the database.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates that statements generated from the record schema
	// will fail against the current table.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// VerifyOption configures table verification.
type VerifyOption func(*verifyConfig)

type verifyConfig struct {
	allowExtraColumns bool
	strictTypes       bool
}

// AllowExtraColumns stops reporting table columns that the record does not
// declare. SELECT * still returns them.
func AllowExtraColumns() VerifyOption {
	return func(c *verifyConfig) {
		c.allowExtraColumns = true
	}
}

// StrictTypes reports column type differences as errors instead of warnings.
func StrictTypes() VerifyOption {
	return func(c *verifyConfig) {
		c.strictTypes = true
	}
}

// Open returns the atlas driver used to inspect a database of the given dialect.
func Open(db *sql.DB, name string) (migrate.Driver, error) {
	switch name {
	case dialect.SQLite:
		return sqlite.Open(db)
	case dialect.Postgres:
		return postgres.Open(db)
	case dialect.MySQL:
		return mysql.Open(db)
	default:
		return nil, fmt.Errorf("dialect/sql/schema: unsupported dialect %q", name)
	}
}

// Verify inspects the table of s in db and compares it with the record schema.
// A missing table or column is an error; a column type that differs from the
// mapped SQL type, or a column the record does not declare, is a warning.
// Verify is read-only: it never plans or applies a migration.
//
//	res, err := schema.Verify(ctx, db, dialect.Postgres, userSchema)
//	if err != nil {
//	    return err
//	}
//	if res.HasBreakingChanges() {
//	    log.Fatal(res)
//	}
func Verify(ctx context.Context, db *sql.DB, name string, s *record.Schema, opts ...VerifyOption) (*ValidationResult, error) {
	drv, err := Open(db, name)
	if err != nil {
		return nil, err
	}
	return VerifyWith(ctx, drv, s, opts...)
}

// VerifyWith is like Verify, using an already opened atlas inspector.
func VerifyWith(ctx context.Context, insp schema.Inspector, s *record.Schema, opts ...VerifyOption) (*ValidationResult, error) {
	cfg := &verifyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	ns, table := splitTable(s.Table())
	current, err := insp.InspectSchema(ctx, ns, &schema.InspectOptions{Tables: []string{table}})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: inspect %s: %w", s.Table(), err)
	}
	result := &ValidationResult{}
	t, ok := current.Table(table)
	if !ok {
		result.Errors = append(result.Errors, &ValidationError{
			Table:    s.Table(),
			Message:  "table does not exist",
			Breaking: true,
		})
		return result, nil
	}
	validateColumns(s, t, cfg, result)
	return result, nil
}

func validateColumns(s *record.Schema, t *schema.Table, cfg *verifyConfig, result *ValidationResult) {
	for _, f := range s.Fields() {
		c, ok := t.Column(f.Name)
		if !ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    s.Table(),
				Column:   f.Name,
				Message:  "column does not exist",
				Breaking: true,
			})
			continue
		}
		want, got := normalizeType(f.SQLType()), normalizeType(rawType(c))
		if want == got {
			continue
		}
		err := &ValidationError{
			Table:   s.Table(),
			Column:  f.Name,
			Message: fmt.Sprintf("column type is %s, record declares %s", got, want),
		}
		if cfg.strictTypes {
			err.Breaking = true
			result.Errors = append(result.Errors, err)
		} else {
			result.Warnings = append(result.Warnings, err)
		}
	}
	if cfg.allowExtraColumns {
		return
	}
	for _, c := range t.Columns {
		if s.Position(c.Name) < 0 {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   s.Table(),
				Column:  c.Name,
				Message: "column is not declared by the record",
			})
		}
	}
}

func splitTable(name string) (string, string) {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func rawType(c *schema.Column) string {
	if c.Type == nil {
		return ""
	}
	if c.Type.Raw != "" {
		return c.Type.Raw
	}
	if c.Type.Type != nil {
		return fmt.Sprintf("%T", c.Type.Type)
	}
	return ""
}

// typeAliases maps the spellings databases report for the mapped types back
// to the tokens used in generated DDL.
var typeAliases = map[string]string{
	"INT":              "INTEGER",
	"INT4":             "INTEGER",
	"INTEGER":          "INTEGER",
	"BIGINT":           "BIGINT",
	"INT8":             "BIGINT",
	"REAL":             "REAL",
	"FLOAT4":           "REAL",
	"FLOAT":            "REAL",
	"DOUBLE":           "DOUBLE PRECISION",
	"DOUBLE PRECISION": "DOUBLE PRECISION",
	"FLOAT8":           "DOUBLE PRECISION",
	"TEXT":             "TEXT",
}

func normalizeType(t string) string {
	t = strings.ToUpper(strings.Join(strings.Fields(t), " "))
	if i := strings.IndexByte(t, '('); i > 0 {
		t = strings.TrimSpace(t[:i])
	}
	if a, ok := typeAliases[t]; ok {
		return a
	}
	return t
}
