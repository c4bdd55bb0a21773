package propagate

import (
	"github.com/temirov/repokeeper/internal/gitperms"
	"github.com/temirov/repokeeper/internal/ignorefile"
	"github.com/temirov/repokeeper/internal/instructions"
	"github.com/temirov/repokeeper/internal/sourceset"
	"github.com/temirov/repokeeper/internal/syncfile"
)

// RepositoryCollector enumerates candidate repository directories.
type RepositoryCollector interface {
	IsRepositoryDirectory(candidatePath string) bool
	CollectRepositoryDirectories(baseDirectory string) ([]string, error)
	ResolveTargetRepository(baseDirectory string, repositoryName string) (string, error)
}

// PermissionRepairer fixes group-write permissions on repository metadata.
type PermissionRepairer interface {
	RepairMetadataPermissions(repositoryPath string, dryRun bool) (gitperms.RepairResult, error)
}

// IgnoreReconciler keeps one ignore-file deduplicated and complete.
type IgnoreReconciler interface {
	Reconcile(ignoreFilePath string, deprecatedEntries []string, requiredEntries []string, dryRun bool) (ignorefile.ReconcileResult, error)
}

// FileSynchronizer decides and applies per-file copy, update, and skip actions.
type FileSynchronizer interface {
	Classify(sourceFilePath string, destinationFilePath string) (syncfile.Outcome, error)
	Sync(sourceFilePath string, destinationFilePath string, dryRun bool) (syncfile.Outcome, error)
}

// GuidanceMaintainer keeps the agent guidance file of one repository current.
type GuidanceMaintainer interface {
	Maintain(repositoryPath string, dryRun bool) (instructions.Result, error)
}

// SourceResolver resolves the canonical source directory and file set.
type SourceResolver interface {
	ResolveSourceDirectory(baseDirectory string, explicitSourceDirectory string) (string, error)
	BuildSourceSet(
		sourceDirectory string,
		styleTargets []string,
		noOverwriteTargets []string,
		developmentScripts []string,
		testScripts []string,
	) (*sourceset.SourceSet, error)
}
