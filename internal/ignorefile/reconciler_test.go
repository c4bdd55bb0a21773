package ignorefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/ignorefile"
)

const (
	ignoreFileNameConstant       = ".gitignore"
	ignoreFileWritePermissions   = 0o644
	dedupSubtestTitle            = "removesDuplicatesKeepingBlanksAndFirstOccurrences"
	whitespaceSubtestTitle       = "normalizesTrailingWhitespace"
	ensureAppendSubtestTitle     = "appendsMissingRequiredEntriesOnce"
	ensureNewlineSubtestTitle    = "insertsNewlineBeforeAppendingToUnterminatedFile"
	ensureCreateSubtestTitle     = "createsMissingIgnoreFile"
	deprecatedSubtestTitle       = "removesDeprecatedEntries"
	reconcileOrderSubtestTitle   = "reAddsEntryPresentInDeprecatedAndRequiredSets"
	dryRunParitySubtestTitle     = "dryRunReportsWithoutMutating"
	idempotenceSubtestTitle      = "secondReconcileReportsNoChanges"
)

func writeIgnoreFile(testInstance *testing.T, directory string, content string) string {
	testInstance.Helper()
	ignoreFilePath := filepath.Join(directory, ignoreFileNameConstant)
	require.NoError(testInstance, os.WriteFile(ignoreFilePath, []byte(content), ignoreFileWritePermissions))
	return ignoreFilePath
}

func readIgnoreFile(testInstance *testing.T, ignoreFilePath string) string {
	testInstance.Helper()
	contentBytes, readError := os.ReadFile(ignoreFilePath)
	require.NoError(testInstance, readError)
	return string(contentBytes)
}

func TestReconcilerDeduplication(testInstance *testing.T) {
	reconciler := ignorefile.NewReconciler()

	testInstance.Run(dedupSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "a\n\na\nb\na\n")

		deduplicationResult, deduplicationError := reconciler.DeduplicateEntries(ignoreFilePath, false)
		require.NoError(testInstance, deduplicationError)
		require.Equal(testInstance, 2, deduplicationResult.DuplicatesRemoved)
		require.False(testInstance, deduplicationResult.WhitespaceNormalized)
		require.Equal(testInstance, "a\n\nb\n", readIgnoreFile(testInstance, ignoreFilePath))
	})

	testInstance.Run(whitespaceSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "build/  \ndist/\n")

		deduplicationResult, deduplicationError := reconciler.DeduplicateEntries(ignoreFilePath, false)
		require.NoError(testInstance, deduplicationError)
		require.Zero(testInstance, deduplicationResult.DuplicatesRemoved)
		require.True(testInstance, deduplicationResult.WhitespaceNormalized)
		require.Equal(testInstance, "build/\ndist/\n", readIgnoreFile(testInstance, ignoreFilePath))
	})
}

func TestReconcilerRequiredEntries(testInstance *testing.T) {
	reconciler := ignorefile.NewReconciler()

	testInstance.Run(ensureAppendSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "existing\n")

		ensureResult, ensureError := reconciler.EnsureRequiredEntries(ignoreFilePath, []string{"existing", "report_*.txt"}, false)
		require.NoError(testInstance, ensureError)
		require.False(testInstance, ensureResult.FileCreated)
		require.Equal(testInstance, 1, ensureResult.LinesAdded)
		require.Equal(testInstance, "existing\nreport_*.txt\n", readIgnoreFile(testInstance, ignoreFilePath))
	})

	testInstance.Run(ensureNewlineSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "existing")

		ensureResult, ensureError := reconciler.EnsureRequiredEntries(ignoreFilePath, []string{"added"}, false)
		require.NoError(testInstance, ensureError)
		require.Equal(testInstance, 1, ensureResult.LinesAdded)
		require.Equal(testInstance, "existing\nadded\n", readIgnoreFile(testInstance, ignoreFilePath))
	})

	testInstance.Run(ensureCreateSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := filepath.Join(testInstance.TempDir(), ignoreFileNameConstant)

		ensureResult, ensureError := reconciler.EnsureRequiredEntries(ignoreFilePath, []string{"first", "second"}, false)
		require.NoError(testInstance, ensureError)
		require.True(testInstance, ensureResult.FileCreated)
		require.Equal(testInstance, 2, ensureResult.LinesAdded)
		require.Equal(testInstance, "first\nsecond\n", readIgnoreFile(testInstance, ignoreFilePath))
	})
}

func TestReconcilerDeprecatedEntries(testInstance *testing.T) {
	reconciler := ignorefile.NewReconciler()

	testInstance.Run(deprecatedSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "keep\nstale.txt\nother\n")

		removedCount, removalError := reconciler.RemoveDeprecatedEntries(ignoreFilePath, []string{"stale.txt"}, false)
		require.NoError(testInstance, removalError)
		require.Equal(testInstance, 1, removedCount)
		require.Equal(testInstance, "keep\nother\n", readIgnoreFile(testInstance, ignoreFilePath))
	})
}

func TestReconcilerComposedPasses(testInstance *testing.T) {
	reconciler := ignorefile.NewReconciler()

	testInstance.Run(reconcileOrderSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "rotating.txt\nkeep\n")

		reconcileResult, reconcileError := reconciler.Reconcile(
			ignoreFilePath,
			[]string{"rotating.txt"},
			[]string{"rotating.txt"},
			false,
		)
		require.NoError(testInstance, reconcileError)
		require.Equal(testInstance, 1, reconcileResult.DeprecatedLinesRemoved)
		require.Equal(testInstance, 1, reconcileResult.Ensure.LinesAdded)
		require.Equal(testInstance, "keep\nrotating.txt\n", readIgnoreFile(testInstance, ignoreFilePath))
	})

	testInstance.Run(dryRunParitySubtestTitle, func(testInstance *testing.T) {
		originalContent := "dup\ndup\nstale.txt\n"
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), originalContent)

		reconcileResult, reconcileError := reconciler.Reconcile(
			ignoreFilePath,
			[]string{"stale.txt"},
			[]string{"required"},
			true,
		)
		require.NoError(testInstance, reconcileError)
		require.Equal(testInstance, 1, reconcileResult.DeprecatedLinesRemoved)
		require.Equal(testInstance, 1, reconcileResult.Deduplication.DuplicatesRemoved)
		require.Equal(testInstance, 1, reconcileResult.Ensure.LinesAdded)
		require.Equal(testInstance, originalContent, readIgnoreFile(testInstance, ignoreFilePath))
	})

	testInstance.Run(idempotenceSubtestTitle, func(testInstance *testing.T) {
		ignoreFilePath := writeIgnoreFile(testInstance, testInstance.TempDir(), "dup\ndup\nstale.txt\n")

		_, firstError := reconciler.Reconcile(ignoreFilePath, []string{"stale.txt"}, []string{"required"}, false)
		require.NoError(testInstance, firstError)

		secondResult, secondError := reconciler.Reconcile(ignoreFilePath, []string{"stale.txt"}, []string{"required"}, false)
		require.NoError(testInstance, secondError)
		require.Zero(testInstance, secondResult.DeprecatedLinesRemoved)
		require.Zero(testInstance, secondResult.Deduplication.DuplicatesRemoved)
		require.False(testInstance, secondResult.Deduplication.WhitespaceNormalized)
		require.Zero(testInstance, secondResult.Ensure.LinesAdded)
	})
}
