// Package sourceset resolves the canonical source directory and the concrete
// source file behind every managed target path before any repository is
// touched. Resolution failures abort a run up front so partial propagation
// never happens.
package sourceset
