// Package ignorefile reconciles version-control ignore files: deprecated
// entries are removed, duplicate lines and trailing whitespace are cleaned,
// and required entries are appended. Every pass is idempotent and supports a
// dry-run mode that reports intended changes without touching the file.
package ignorefile
