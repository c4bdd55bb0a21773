package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	gitMetadataDirectoryNameConstant     = ".git"
	hiddenDirectoryPrefixConstant        = "."
	repositoryMissingTemplateConstant    = "repo not found under %s: %s"
	repositoryNotTrackedTemplateConstant = "repo missing %s under %s: %s"
)

// FilesystemRepositoryCollector enumerates candidate repositories beneath a base directory.
type FilesystemRepositoryCollector struct{}

// NewFilesystemRepositoryCollector constructs a collector backed by os.ReadDir.
func NewFilesystemRepositoryCollector() *FilesystemRepositoryCollector {
	return &FilesystemRepositoryCollector{}
}

// IsRepositoryDirectory reports whether the directory contains version-control metadata.
func (collector *FilesystemRepositoryCollector) IsRepositoryDirectory(candidateDirectory string) bool {
	_, statError := os.Stat(filepath.Join(candidateDirectory, gitMetadataDirectoryNameConstant))
	return statError == nil
}

// CollectRepositoryDirectories returns the immediate child directories of baseDirectory,
// skipping hidden entries. Entries without version-control metadata are returned as well
// so callers can count them as skipped.
func (collector *FilesystemRepositoryCollector) CollectRepositoryDirectories(baseDirectory string) ([]string, error) {
	directoryEntries, readError := os.ReadDir(baseDirectory)
	if readError != nil {
		return nil, readError
	}

	candidateDirectories := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		if strings.HasPrefix(directoryEntry.Name(), hiddenDirectoryPrefixConstant) {
			continue
		}
		candidateDirectories = append(candidateDirectories, filepath.Join(baseDirectory, directoryEntry.Name()))
	}

	sort.Strings(candidateDirectories)
	return candidateDirectories, nil
}

// ResolveTargetRepository validates an optional single repository name beneath baseDirectory.
// An empty name resolves to no restriction. A missing directory or one without
// version-control metadata is a fatal configuration error.
func (collector *FilesystemRepositoryCollector) ResolveTargetRepository(baseDirectory string, repositoryName string) (string, error) {
	trimmedName := strings.TrimSpace(repositoryName)
	if len(trimmedName) == 0 {
		return "", nil
	}

	targetRepository := filepath.Join(baseDirectory, trimmedName)
	targetInfo, statError := os.Stat(targetRepository)
	if statError != nil || !targetInfo.IsDir() {
		return "", fmt.Errorf(repositoryMissingTemplateConstant, baseDirectory, trimmedName)
	}
	if !collector.IsRepositoryDirectory(targetRepository) {
		return "", fmt.Errorf(repositoryNotTrackedTemplateConstant, gitMetadataDirectoryNameConstant, baseDirectory, trimmedName)
	}

	return targetRepository, nil
}
