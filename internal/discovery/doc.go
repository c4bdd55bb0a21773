// Package discovery locates propagation target repositories beneath a base
// directory. A directory qualifies as a repository when it contains a .git
// entry; hidden directories are never considered.
package discovery
