package propagate

import (
	"os"
	"path/filepath"
)

const (
	scaffoldDirectoryPermissions = os.FileMode(0o755)
	scaffoldFilePermissions      = os.FileMode(0o644)
)

func ensureDirectory(directoryPath string, dryRun bool) (bool, error) {
	directoryInfo, statError := os.Stat(directoryPath)
	if statError == nil && directoryInfo.IsDir() {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	if mkdirError := os.MkdirAll(directoryPath, scaffoldDirectoryPermissions); mkdirError != nil {
		return false, mkdirError
	}
	return true, nil
}

func ensureEmptyFile(filePath string, dryRun bool) (bool, error) {
	if _, statError := os.Stat(filePath); statError == nil {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	if writeError := os.WriteFile(filePath, []byte{}, scaffoldFilePermissions); writeError != nil {
		return false, writeError
	}
	return true, nil
}

func removeDeprecatedTestScripts(testsDirectoryPath string, deprecatedScriptNames []string, dryRun bool) (int, error) {
	removedCount := 0
	for _, deprecatedScriptName := range deprecatedScriptNames {
		deprecatedScriptPath := filepath.Join(testsDirectoryPath, deprecatedScriptName)
		scriptInfo, statError := os.Stat(deprecatedScriptPath)
		if statError != nil || !scriptInfo.Mode().IsRegular() {
			continue
		}
		if !dryRun {
			if removeError := os.Remove(deprecatedScriptPath); removeError != nil {
				return removedCount, removeError
			}
		}
		removedCount++
	}
	return removedCount, nil
}
