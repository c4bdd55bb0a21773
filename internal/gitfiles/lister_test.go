package gitfiles_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/gitfiles"
)

const (
	trackedFilesSubtestNameConstant   = "tracked_files"
	changedFilesSubtestNameConstant   = "changed_files"
	repositoryRootSubtestNameConstant = "repository_root"
	missingHeadSubtestNameConstant    = "changed_files_without_head"
	stubRepositoryRootConstant        = "/workspace/project"
)

type scriptedGitExecutor struct {
	responses        map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	commandKey := strings.Join(details.Arguments, " ")
	if failure, failureExists := executor.failures[commandKey]; failureExists {
		return execshell.ExecutionResult{}, failure
	}
	return executor.responses[commandKey], nil
}

func TestRepositoryFileListerRequiresExecutor(testInstance *testing.T) {
	lister, creationError := gitfiles.NewRepositoryFileLister(nil)
	require.Nil(testInstance, lister)
	require.ErrorIs(testInstance, creationError, gitfiles.ErrExecutorNotConfigured)
}

func TestRepositoryFileListerQueries(testInstance *testing.T) {
	testInstance.Run(repositoryRootSubtestNameConstant, func(testInstance *testing.T) {
		executor := &scriptedGitExecutor{
			responses: map[string]execshell.ExecutionResult{
				"rev-parse --show-toplevel": {StandardOutput: stubRepositoryRootConstant + "\n"},
			},
		}
		lister, creationError := gitfiles.NewRepositoryFileLister(executor)
		require.NoError(testInstance, creationError)

		repositoryRoot, rootError := lister.ResolveRepositoryRoot(context.Background(), ".")
		require.NoError(testInstance, rootError)
		require.Equal(testInstance, stubRepositoryRootConstant, repositoryRoot)
	})

	testInstance.Run(trackedFilesSubtestNameConstant, func(testInstance *testing.T) {
		executor := &scriptedGitExecutor{
			responses: map[string]execshell.ExecutionResult{
				"ls-files -z -- *.py": {StandardOutput: "alpha.py\x00pkg/beta.py\x00"},
			},
		}
		lister, creationError := gitfiles.NewRepositoryFileLister(executor)
		require.NoError(testInstance, creationError)

		trackedFiles, listError := lister.ListTrackedFiles(context.Background(), stubRepositoryRootConstant, []string{"*.py"})
		require.NoError(testInstance, listError)
		require.Equal(testInstance, []string{"alpha.py", "pkg/beta.py"}, trackedFiles)
	})

	testInstance.Run(changedFilesSubtestNameConstant, func(testInstance *testing.T) {
		executor := &scriptedGitExecutor{
			responses: map[string]execshell.ExecutionResult{
				"diff --name-only HEAD":                 {StandardOutput: "pkg/beta.py\nalpha.py\n"},
				"ls-files --others --exclude-standard -z": {StandardOutput: "alpha.py\x00gamma.py\x00"},
			},
		}
		lister, creationError := gitfiles.NewRepositoryFileLister(executor)
		require.NoError(testInstance, creationError)

		changedFiles, listError := lister.ListChangedFiles(context.Background(), stubRepositoryRootConstant)
		require.NoError(testInstance, listError)
		require.Equal(testInstance, []string{"alpha.py", "gamma.py", "pkg/beta.py"}, changedFiles)
	})

	testInstance.Run(missingHeadSubtestNameConstant, func(testInstance *testing.T) {
		executor := &scriptedGitExecutor{
			responses: map[string]execshell.ExecutionResult{
				"ls-files --others --exclude-standard -z": {StandardOutput: "delta.py\x00"},
			},
			failures: map[string]error{
				"diff --name-only HEAD": errors.New("unknown revision HEAD"),
			},
		}
		lister, creationError := gitfiles.NewRepositoryFileLister(executor)
		require.NoError(testInstance, creationError)

		changedFiles, listError := lister.ListChangedFiles(context.Background(), stubRepositoryRootConstant)
		require.NoError(testInstance, listError)
		require.Equal(testInstance, []string{"delta.py"}, changedFiles)
	})
}
