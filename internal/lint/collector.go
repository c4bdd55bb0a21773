package lint

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const templateMarkerConstant = "TEMPLATE"

// Path segments whose files are never linted.
var skipPathSegments = map[string]struct{}{
	".git":             {},
	".venv":            {},
	"__pycache__":      {},
	"old_shell_folder": {},
}

// TrackedFileLister exposes the version-control queries the checks rely on.
type TrackedFileLister interface {
	ResolveRepositoryRoot(executionContext context.Context, workingDirectory string) (string, error)
	ListTrackedFiles(executionContext context.Context, repositoryRoot string, patterns []string) ([]string, error)
	ListChangedFiles(executionContext context.Context, repositoryRoot string) ([]string, error)
}

// FileCollector produces the deterministic candidate file list for one check.
type FileCollector struct {
	fileLister           TrackedFileLister
	extraSkipDirectories map[string]struct{}
}

// NewFileCollector constructs a collector. Extra skip directories extend the
// built-in set.
func NewFileCollector(fileLister TrackedFileLister, extraSkipDirectories []string) *FileCollector {
	extraSet := map[string]struct{}{}
	for _, directoryName := range extraSkipDirectories {
		trimmedName := strings.TrimSpace(directoryName)
		if len(trimmedName) == 0 {
			continue
		}
		extraSet[trimmedName] = struct{}{}
	}
	return &FileCollector{fileLister: fileLister, extraSkipDirectories: extraSet}
}

// Collect unions tracked files matching the patterns with all changed files,
// filters out skip-listed path segments, template-marked paths, and
// non-existing entries, then deduplicates and sorts the absolute paths.
func (collector *FileCollector) Collect(executionContext context.Context, repositoryRoot string, patterns []string) ([]string, error) {
	trackedPaths, trackedError := collector.fileLister.ListTrackedFiles(executionContext, repositoryRoot, patterns)
	if trackedError != nil {
		return nil, trackedError
	}

	changedPaths, changedError := collector.fileLister.ListChangedFiles(executionContext, repositoryRoot)
	if changedError != nil {
		return nil, changedError
	}

	candidatePaths := append(append([]string{}, trackedPaths...), filterByPatterns(changedPaths, patterns)...)

	seenPaths := map[string]struct{}{}
	collectedPaths := []string{}
	for _, relativePath := range candidatePaths {
		if _, alreadySeen := seenPaths[relativePath]; alreadySeen {
			continue
		}
		seenPaths[relativePath] = struct{}{}
		if collector.pathHasSkipSegment(relativePath) {
			continue
		}
		if strings.Contains(relativePath, templateMarkerConstant) {
			continue
		}
		absolutePath := filepath.Join(repositoryRoot, filepath.FromSlash(relativePath))
		pathInfo, statError := os.Stat(absolutePath)
		if statError != nil || !pathInfo.Mode().IsRegular() {
			continue
		}
		collectedPaths = append(collectedPaths, absolutePath)
	}
	sort.Strings(collectedPaths)
	return collectedPaths, nil
}

func (collector *FileCollector) pathHasSkipSegment(relativePath string) bool {
	for _, pathSegment := range strings.Split(filepath.ToSlash(relativePath), "/") {
		if _, skipped := skipPathSegments[pathSegment]; skipped {
			return true
		}
		if _, skipped := collector.extraSkipDirectories[pathSegment]; skipped {
			return true
		}
	}
	return false
}

// filterByPatterns keeps relative paths matching at least one glob pattern.
// Tracked listings arrive pre-filtered by the version-control query; changed
// listings do not.
func filterByPatterns(relativePaths []string, patterns []string) []string {
	if len(patterns) == 0 {
		return relativePaths
	}
	matchedPaths := []string{}
	for _, relativePath := range relativePaths {
		slashPath := filepath.ToSlash(relativePath)
		for _, pattern := range patterns {
			matched, matchError := doublestar.Match(pattern, slashPath)
			if matchError == nil && matched {
				matchedPaths = append(matchedPaths, relativePath)
				break
			}
		}
	}
	return matchedPaths
}
