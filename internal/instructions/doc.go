// Package instructions creates and patches the per-repository agent guidance
// file. Patching is additive: stale style-guide references are rewritten in
// place and missing required lines are appended, but no existing line is ever
// removed.
package instructions
