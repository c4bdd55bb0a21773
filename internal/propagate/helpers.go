package propagate

import (
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	pythonFileSuffixConstant    = ".py"
	packageManifestNameConstant = "pyproject.toml"
	hiddenEntryPrefixConstant   = "."
	testScriptPrefixConstant    = "test_"
)

// Directories never descended into when scanning repository contents.
var skipWalkDirectories = map[string]struct{}{
	".git":             {},
	".mypy_cache":      {},
	".pytest_cache":    {},
	"old_shell_folder": {},
	".venv":            {},
	".system":          {},
	"__pycache__":      {},
	"build":            {},
	"dist":             {},
	"node_modules":     {},
	"venv":             {},
}

func shouldSkipWalkDirectory(directoryName string) bool {
	if strings.HasPrefix(directoryName, hiddenEntryPrefixConstant) {
		return true
	}
	_, skipped := skipWalkDirectories[directoryName]
	return skipped
}

// repositoryHasPythonFiles reports whether any Python file exists under the
// repository outside the skipped noise directories.
func repositoryHasPythonFiles(repositoryPath string) bool {
	return repositoryContains(repositoryPath, func(fileName string) bool {
		return strings.HasSuffix(fileName, pythonFileSuffixConstant)
	})
}

// repositoryHasPackageManifest reports whether a pyproject.toml exists
// anywhere under the repository outside the skipped noise directories.
func repositoryHasPackageManifest(repositoryPath string) bool {
	return repositoryContains(repositoryPath, func(fileName string) bool {
		return fileName == packageManifestNameConstant
	})
}

func repositoryContains(repositoryPath string, fileMatcher func(fileName string) bool) bool {
	found := false
	_ = filepath.WalkDir(repositoryPath, func(entryPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}
		if directoryEntry.IsDir() {
			if entryPath == repositoryPath {
				return nil
			}
			if shouldSkipWalkDirectory(directoryEntry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if fileMatcher(directoryEntry.Name()) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

func isTestScriptName(fileName string) bool {
	return strings.HasPrefix(fileName, testScriptPrefixConstant) && strings.HasSuffix(fileName, pythonFileSuffixConstant)
}
