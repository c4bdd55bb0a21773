// Package lint implements the repository hygiene checks behind the check
// command: a relative-import detector and an __init__.py content-shape
// checker. Both checks scan tracked and changed Python files, append findings
// to a per-check report file, and fail once per offending file.
package lint
