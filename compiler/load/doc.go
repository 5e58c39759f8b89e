// Package load reads record declarations from YAML or JSON schema files and
// resolves them into schemas.
package load
