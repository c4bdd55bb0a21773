package gitperms

import (
	"io/fs"
	"os"
	"path/filepath"
)

const (
	gitDirectoryNameConstant = ".git"
	indexFileNameConstant    = "index"
	groupWritePermissionBit  = os.FileMode(0o020)
)

// RepairResult summarizes one group-write repair pass.
type RepairResult struct {
	// EntriesRepaired counts files and directories whose mode gained group write.
	EntriesRepaired int
}

// Changed reports whether the pass touched or would touch any entry.
func (repairResult RepairResult) Changed() bool {
	return repairResult.EntriesRepaired > 0
}

// Repairer adds group-write permission across a repository's metadata directory.
type Repairer struct{}

// NewRepairer constructs a Repairer.
func NewRepairer() *Repairer {
	return &Repairer{}
}

// RepairMetadataPermissions walks <repository>/.git granting group write to the
// directory itself, the index file, and every walked entry. Symbolic links are
// never followed and entries that cannot be inspected are skipped. During dry
// runs the result counts entries that would change without modifying any mode.
func (repairer *Repairer) RepairMetadataPermissions(repositoryPath string, dryRun bool) (RepairResult, error) {
	repairResult := RepairResult{}

	metadataDirectoryPath := filepath.Join(repositoryPath, gitDirectoryNameConstant)
	metadataInfo, metadataStatError := os.Lstat(metadataDirectoryPath)
	if metadataStatError != nil {
		return repairResult, nil
	}
	if !metadataInfo.IsDir() {
		return repairResult, nil
	}

	repairer.repairEntry(metadataDirectoryPath, metadataInfo.Mode(), dryRun, &repairResult)

	indexFilePath := filepath.Join(metadataDirectoryPath, indexFileNameConstant)
	if indexInfo, indexStatError := os.Lstat(indexFilePath); indexStatError == nil {
		repairer.repairEntry(indexFilePath, indexInfo.Mode(), dryRun, &repairResult)
	}

	walkError := filepath.WalkDir(metadataDirectoryPath, func(entryPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entryPath == metadataDirectoryPath || entryPath == indexFilePath {
			return nil
		}
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		entryInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			return nil
		}
		repairer.repairEntry(entryPath, entryInfo.Mode(), dryRun, &repairResult)
		return nil
	})
	if walkError != nil {
		return repairResult, walkError
	}
	return repairResult, nil
}

func (repairer *Repairer) repairEntry(entryPath string, currentMode os.FileMode, dryRun bool, repairResult *RepairResult) {
	if currentMode.Perm()&groupWritePermissionBit != 0 {
		return
	}
	if !dryRun {
		if chmodError := os.Chmod(entryPath, currentMode.Perm()|groupWritePermissionBit); chmodError != nil {
			return
		}
	}
	repairResult.EntriesRepaired++
}
