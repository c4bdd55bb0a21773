package gitfiles

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/temirov/repokeeper/internal/execshell"
)

const (
	gitRevParseSubcommandConstant  = "rev-parse"
	gitShowTopLevelFlagConstant    = "--show-toplevel"
	gitLSFilesSubcommandConstant   = "ls-files"
	gitDiffSubcommandConstant      = "diff"
	gitNameOnlyFlagConstant        = "--name-only"
	gitHeadReferenceConstant       = "HEAD"
	gitOthersFlagConstant          = "--others"
	gitExcludeStandardFlagConstant = "--exclude-standard"
	gitNulTerminationFlagConstant  = "-z"
	gitPathspecSeparatorConstant   = "--"
	nulSeparatorConstant           = "\x00"
	newlineSeparatorConstant       = "\n"
	executorNotConfiguredConstant  = "git executor not configured"
)

// GitExecutor exposes the subset of shell execution used for file queries.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrExecutorNotConfigured indicates the lister was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredConstant)

// RepositoryFileLister lists tracked and changed files through git queries.
type RepositoryFileLister struct {
	gitExecutor GitExecutor
}

// NewRepositoryFileLister constructs a RepositoryFileLister around the provided executor.
func NewRepositoryFileLister(gitExecutor GitExecutor) (*RepositoryFileLister, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryFileLister{gitExecutor: gitExecutor}, nil
}

// ResolveRepositoryRoot returns the top-level directory of the repository containing startDirectory.
func (lister *RepositoryFileLister) ResolveRepositoryRoot(executionContext context.Context, startDirectory string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant},
		WorkingDirectory: startDirectory,
	}

	executionResult, executionError := lister.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ListTrackedFiles returns repository-relative tracked files, optionally restricted by pathspec patterns.
func (lister *RepositoryFileLister) ListTrackedFiles(executionContext context.Context, repositoryRoot string, patterns []string) ([]string, error) {
	arguments := []string{gitLSFilesSubcommandConstant, gitNulTerminationFlagConstant}
	if len(patterns) > 0 {
		arguments = append(arguments, gitPathspecSeparatorConstant)
		arguments = append(arguments, patterns...)
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryRoot,
	}

	executionResult, executionError := lister.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return nil, executionError
	}

	return splitPathOutput(executionResult.StandardOutput, nulSeparatorConstant), nil
}

// ListChangedFiles returns repository-relative files that differ from HEAD plus untracked files.
func (lister *RepositoryFileLister) ListChangedFiles(executionContext context.Context, repositoryRoot string) ([]string, error) {
	changedPaths := []string{}

	diffDetails := execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitNameOnlyFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: repositoryRoot,
	}
	diffResult, diffError := lister.gitExecutor.ExecuteGit(executionContext, diffDetails)
	if diffError == nil {
		changedPaths = append(changedPaths, splitPathOutput(diffResult.StandardOutput, newlineSeparatorConstant)...)
	}

	untrackedDetails := execshell.CommandDetails{
		Arguments: []string{
			gitLSFilesSubcommandConstant,
			gitOthersFlagConstant,
			gitExcludeStandardFlagConstant,
			gitNulTerminationFlagConstant,
		},
		WorkingDirectory: repositoryRoot,
	}
	untrackedResult, untrackedError := lister.gitExecutor.ExecuteGit(executionContext, untrackedDetails)
	if untrackedError != nil {
		return nil, untrackedError
	}
	changedPaths = append(changedPaths, splitPathOutput(untrackedResult.StandardOutput, nulSeparatorConstant)...)

	return deduplicateSorted(changedPaths), nil
}

func splitPathOutput(rawOutput string, separator string) []string {
	segments := strings.Split(rawOutput, separator)
	paths := make([]string, 0, len(segments))
	for _, segment := range segments {
		trimmedSegment := strings.TrimSpace(segment)
		if len(trimmedSegment) == 0 {
			continue
		}
		paths = append(paths, trimmedSegment)
	}
	return paths
}

func deduplicateSorted(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, exists := seen[path]; exists {
			continue
		}
		seen[path] = struct{}{}
		unique = append(unique, path)
	}
	sort.Strings(unique)
	return unique
}
