package lint

import (
	"os"
	"path/filepath"
	"sort"
)

const reportFilePermissions = os.FileMode(0o644)

// ReportWriter appends findings to one report file. The file is removed once
// at the start of a run and recreated with its fixed header on the first
// append, so repeated appends within a run accumulate.
type ReportWriter struct {
	repositoryRoot string
	reportName     string
	headerLines    []string
}

// NewReportWriter constructs a writer for the named report file at the
// repository root.
func NewReportWriter(repositoryRoot string, reportName string, headerLines []string) *ReportWriter {
	return &ReportWriter{
		repositoryRoot: repositoryRoot,
		reportName:     reportName,
		headerLines:    headerLines,
	}
}

// Path returns the absolute report file path.
func (writer *ReportWriter) Path() string {
	return filepath.Join(writer.repositoryRoot, writer.reportName)
}

// RelativePath returns the report path relative to the repository root.
func (writer *ReportWriter) RelativePath() string {
	return writer.reportName
}

// Reset removes a stale report from a previous run.
func (writer *ReportWriter) Reset() error {
	removeError := os.Remove(writer.Path())
	if removeError != nil && !os.IsNotExist(removeError) {
		return removeError
	}
	return nil
}

// Append writes the issue lines, creating the file with its header when
// absent.
func (writer *ReportWriter) Append(issueLines []string) error {
	reportPath := writer.Path()
	_, statError := os.Stat(reportPath)
	fileExists := statError == nil

	reportHandle, openError := os.OpenFile(reportPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, reportFilePermissions)
	if openError != nil {
		return openError
	}
	defer reportHandle.Close()

	if !fileExists {
		for _, headerLine := range writer.headerLines {
			if _, writeError := reportHandle.WriteString(headerLine + "\n"); writeError != nil {
				return writeError
			}
		}
	}
	for _, issueLine := range issueLines {
		if _, writeError := reportHandle.WriteString(issueLine + "\n"); writeError != nil {
			return writeError
		}
	}
	return nil
}

// sortedUniqueLines deduplicates and sorts issue lines for deterministic
// report output.
func sortedUniqueLines(issueLines []string) []string {
	seenLines := map[string]struct{}{}
	uniqueLines := []string{}
	for _, issueLine := range issueLines {
		if _, alreadySeen := seenLines[issueLine]; alreadySeen {
			continue
		}
		seenLines[issueLine] = struct{}{}
		uniqueLines = append(uniqueLines, issueLine)
	}
	sort.Strings(uniqueLines)
	return uniqueLines
}
