package syncfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

const (
	comparisonChunkSizeConstant     = 64 * 1024
	destinationDirectoryPermissions = 0o755
)

// Outcome classifies the relationship between a source file and its destination.
type Outcome string

// Possible synchronization outcomes.
const (
	// OutcomeCopy indicates the destination does not exist yet.
	OutcomeCopy Outcome = "copy"
	// OutcomeUpdate indicates the destination exists with differing content.
	OutcomeUpdate Outcome = "update"
	// OutcomeSkipSame indicates the destination is byte-identical to the source.
	OutcomeSkipSame Outcome = "skip_same"
	// OutcomeSkipSource indicates the destination resolves to the source file itself.
	OutcomeSkipSource Outcome = "skip_source"
)

// Synchronizer decides and applies per-file propagation actions.
type Synchronizer struct{}

// NewSynchronizer constructs a Synchronizer.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// Classify computes the outcome for one source/destination pair without mutating anything.
func (synchronizer *Synchronizer) Classify(sourceFilePath string, destinationFilePath string) (Outcome, error) {
	absoluteDestination, absoluteError := filepath.Abs(destinationFilePath)
	if absoluteError != nil {
		return "", absoluteError
	}
	if absoluteDestination == sourceFilePath {
		return OutcomeSkipSource, nil
	}

	destinationInfo, statError := os.Stat(destinationFilePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return OutcomeCopy, nil
		}
		return "", statError
	}
	if destinationInfo.IsDir() {
		return OutcomeCopy, nil
	}

	identical, comparisonError := filesIdentical(sourceFilePath, destinationFilePath)
	if comparisonError != nil {
		return "", comparisonError
	}
	if identical {
		return OutcomeSkipSame, nil
	}
	return OutcomeUpdate, nil
}

// Sync classifies the pair and, outside dry-run, applies copy or update outcomes
// by creating parent directories and duplicating content, permissions, and
// modification time.
func (synchronizer *Synchronizer) Sync(sourceFilePath string, destinationFilePath string, dryRun bool) (Outcome, error) {
	outcome, classificationError := synchronizer.Classify(sourceFilePath, destinationFilePath)
	if classificationError != nil {
		return "", classificationError
	}

	if outcome != OutcomeCopy && outcome != OutcomeUpdate {
		return outcome, nil
	}
	if dryRun {
		return outcome, nil
	}

	destinationParent := filepath.Dir(destinationFilePath)
	if len(destinationParent) > 0 {
		if mkdirError := os.MkdirAll(destinationParent, destinationDirectoryPermissions); mkdirError != nil {
			return outcome, mkdirError
		}
	}

	if copyError := copyFilePreservingMetadata(sourceFilePath, destinationFilePath); copyError != nil {
		return outcome, copyError
	}

	return outcome, nil
}

func filesIdentical(firstFilePath string, secondFilePath string) (bool, error) {
	firstInfo, firstStatError := os.Stat(firstFilePath)
	if firstStatError != nil {
		return false, firstStatError
	}
	secondInfo, secondStatError := os.Stat(secondFilePath)
	if secondStatError != nil {
		return false, secondStatError
	}
	if firstInfo.Size() != secondInfo.Size() {
		return false, nil
	}

	firstHandle, firstOpenError := os.Open(firstFilePath)
	if firstOpenError != nil {
		return false, firstOpenError
	}
	defer firstHandle.Close()

	secondHandle, secondOpenError := os.Open(secondFilePath)
	if secondOpenError != nil {
		return false, secondOpenError
	}
	defer secondHandle.Close()

	firstChunk := make([]byte, comparisonChunkSizeConstant)
	secondChunk := make([]byte, comparisonChunkSizeConstant)
	for {
		firstCount, firstReadError := io.ReadFull(firstHandle, firstChunk)
		secondCount, secondReadError := io.ReadFull(secondHandle, secondChunk)
		if firstCount != secondCount {
			return false, nil
		}
		if !bytes.Equal(firstChunk[:firstCount], secondChunk[:secondCount]) {
			return false, nil
		}
		if firstReadError == io.EOF || firstReadError == io.ErrUnexpectedEOF {
			if secondReadError == io.EOF || secondReadError == io.ErrUnexpectedEOF {
				return true, nil
			}
			return false, nil
		}
		if firstReadError != nil {
			return false, firstReadError
		}
		if secondReadError != nil {
			return false, secondReadError
		}
	}
}

func copyFilePreservingMetadata(sourceFilePath string, destinationFilePath string) error {
	sourceInfo, statError := os.Stat(sourceFilePath)
	if statError != nil {
		return statError
	}

	sourceHandle, openError := os.Open(sourceFilePath)
	if openError != nil {
		return openError
	}
	defer sourceHandle.Close()

	destinationHandle, createError := os.OpenFile(destinationFilePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, sourceInfo.Mode().Perm())
	if createError != nil {
		return createError
	}

	_, copyError := io.Copy(destinationHandle, sourceHandle)
	closeError := destinationHandle.Close()
	if copyError != nil {
		return copyError
	}
	if closeError != nil {
		return closeError
	}

	if chmodError := os.Chmod(destinationFilePath, sourceInfo.Mode().Perm()); chmodError != nil {
		return chmodError
	}
	return os.Chtimes(destinationFilePath, sourceInfo.ModTime(), sourceInfo.ModTime())
}
