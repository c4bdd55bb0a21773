// Package syncfile implements the copy/update/skip decision engine used to
// propagate managed files. Classification is a pure read so dry-run and real
// runs always agree; only Sync mutates the destination.
package syncfile
