// Package gitperms repairs group-write permissions on repository metadata so
// shared checkouts stay writable by every collaborator in the owning group.
package gitperms
