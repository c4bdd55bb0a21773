// Package propagate implements the repokeeper propagate command. It walks
// every repository under the base directory and reconciles managed style
// guides, developer scripts, test scripts, ignore entries, metadata
// permissions, and the agent guidance file, accumulating counters for the
// final summary. Repositories are processed sequentially and a single file's
// failure never aborts the run.
package propagate
