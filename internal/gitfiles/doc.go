// Package gitfiles queries git for tracked and changed files within a single
// repository. It backs the lint checks with deterministic file lists while
// keeping the git invocation details behind a narrow interface.
package gitfiles
