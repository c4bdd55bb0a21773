package gitperms_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/gitperms"
)

const groupWriteBitConstant = os.FileMode(0o020)

func createMetadataTree(testInstance *testing.T) string {
	testInstance.Helper()
	repositoryPath := testInstance.TempDir()
	metadataPath := filepath.Join(repositoryPath, ".git")
	require.NoError(testInstance, os.MkdirAll(filepath.Join(metadataPath, "refs", "heads"), 0o700))
	require.NoError(testInstance, os.WriteFile(filepath.Join(metadataPath, "index"), []byte("index"), 0o600))
	require.NoError(testInstance, os.WriteFile(filepath.Join(metadataPath, "HEAD"), []byte("ref: refs/heads/main\n"), 0o600))
	require.NoError(testInstance, os.WriteFile(filepath.Join(metadataPath, "refs", "heads", "main"), []byte("abc\n"), 0o600))
	return repositoryPath
}

func requireGroupWritable(testInstance *testing.T, entryPath string) {
	testInstance.Helper()
	entryInfo, statError := os.Stat(entryPath)
	require.NoError(testInstance, statError)
	require.NotZero(testInstance, entryInfo.Mode().Perm()&groupWriteBitConstant, entryPath)
}

func TestRepairMetadataPermissionsGrantsGroupWrite(testInstance *testing.T) {
	repositoryPath := createMetadataTree(testInstance)

	repairer := gitperms.NewRepairer()
	repairResult, repairError := repairer.RepairMetadataPermissions(repositoryPath, false)
	require.NoError(testInstance, repairError)
	require.True(testInstance, repairResult.Changed())

	metadataPath := filepath.Join(repositoryPath, ".git")
	requireGroupWritable(testInstance, metadataPath)
	requireGroupWritable(testInstance, filepath.Join(metadataPath, "index"))
	requireGroupWritable(testInstance, filepath.Join(metadataPath, "HEAD"))
	requireGroupWritable(testInstance, filepath.Join(metadataPath, "refs", "heads"))
	requireGroupWritable(testInstance, filepath.Join(metadataPath, "refs", "heads", "main"))
}

func TestRepairMetadataPermissionsIsIdempotent(testInstance *testing.T) {
	repositoryPath := createMetadataTree(testInstance)

	repairer := gitperms.NewRepairer()
	firstResult, firstError := repairer.RepairMetadataPermissions(repositoryPath, false)
	require.NoError(testInstance, firstError)
	require.True(testInstance, firstResult.Changed())

	secondResult, secondError := repairer.RepairMetadataPermissions(repositoryPath, false)
	require.NoError(testInstance, secondError)
	require.False(testInstance, secondResult.Changed())
	require.Zero(testInstance, secondResult.EntriesRepaired)
}

func TestRepairMetadataPermissionsDryRunLeavesModesUntouched(testInstance *testing.T) {
	repositoryPath := createMetadataTree(testInstance)
	indexPath := filepath.Join(repositoryPath, ".git", "index")

	repairer := gitperms.NewRepairer()
	repairResult, repairError := repairer.RepairMetadataPermissions(repositoryPath, true)
	require.NoError(testInstance, repairError)
	require.True(testInstance, repairResult.Changed())

	indexInfo, statError := os.Stat(indexPath)
	require.NoError(testInstance, statError)
	require.Zero(testInstance, indexInfo.Mode().Perm()&groupWriteBitConstant)
}

func TestRepairMetadataPermissionsSkipsRepositoriesWithoutMetadata(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()

	repairer := gitperms.NewRepairer()
	repairResult, repairError := repairer.RepairMetadataPermissions(repositoryPath, false)
	require.NoError(testInstance, repairError)
	require.False(testInstance, repairResult.Changed())
}
