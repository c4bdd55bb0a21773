// Package execshell wraps external process execution with structured logging
// and typed results. It exposes ShellExecutor for running git commands through
// an injectable CommandRunner, enabling deterministic tests.
package execshell
