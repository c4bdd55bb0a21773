package ignorefile

import (
	"os"
	"strings"
)

const (
	lineSeparatorConstant  = "\n"
	ignoreFilePermissions  = 0o644
	emptyLineValueConstant = ""
	trailingCutsetConstant = " \t\r"
)

// DeduplicationResult reports the outcome of the cleanup pass.
type DeduplicationResult struct {
	DuplicatesRemoved    int
	WhitespaceNormalized bool
}

// EnsureResult reports the outcome of the required-entry pass.
type EnsureResult struct {
	FileCreated bool
	LinesAdded  int
}

// ReconcileResult aggregates the outcomes of all three reconciliation passes.
type ReconcileResult struct {
	DeprecatedLinesRemoved int
	Deduplication          DeduplicationResult
	Ensure                 EnsureResult
}

// Reconciler applies ordered idempotent passes to one ignore file.
type Reconciler struct{}

// NewReconciler constructs a Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile removes deprecated entries, deduplicates lines, and ensures required
// entries, in that order. Later passes observe the output of earlier ones.
func (reconciler *Reconciler) Reconcile(ignoreFilePath string, deprecatedEntries []string, requiredEntries []string, dryRun bool) (ReconcileResult, error) {
	reconcileResult := ReconcileResult{}

	deprecatedRemoved, removalError := reconciler.RemoveDeprecatedEntries(ignoreFilePath, deprecatedEntries, dryRun)
	if removalError != nil {
		return reconcileResult, removalError
	}
	reconcileResult.DeprecatedLinesRemoved = deprecatedRemoved

	deduplicationResult, deduplicationError := reconciler.DeduplicateEntries(ignoreFilePath, dryRun)
	if deduplicationError != nil {
		return reconcileResult, deduplicationError
	}
	reconcileResult.Deduplication = deduplicationResult

	ensureResult, ensureError := reconciler.EnsureRequiredEntries(ignoreFilePath, requiredEntries, dryRun)
	if ensureError != nil {
		return reconcileResult, ensureError
	}
	reconcileResult.Ensure = ensureResult

	return reconcileResult, nil
}

// RemoveDeprecatedEntries drops every line whose trimmed content matches a
// deprecated entry. The file is rewritten only when at least one line was dropped.
func (reconciler *Reconciler) RemoveDeprecatedEntries(ignoreFilePath string, deprecatedEntries []string, dryRun bool) (int, error) {
	existingLines, fileExists, readError := readLines(ignoreFilePath)
	if readError != nil {
		return 0, readError
	}
	if !fileExists {
		return 0, nil
	}

	deprecatedSet := make(map[string]struct{}, len(deprecatedEntries))
	for _, deprecatedEntry := range deprecatedEntries {
		deprecatedSet[strings.TrimSpace(deprecatedEntry)] = struct{}{}
	}

	filteredLines := make([]string, 0, len(existingLines))
	removedCount := 0
	for _, existingLine := range existingLines {
		if _, isDeprecated := deprecatedSet[strings.TrimSpace(existingLine)]; isDeprecated {
			removedCount++
			continue
		}
		filteredLines = append(filteredLines, trimTrailing(existingLine))
	}

	if removedCount == 0 {
		return 0, nil
	}
	if dryRun {
		return removedCount, nil
	}

	return removedCount, writeLines(ignoreFilePath, filteredLines)
}

// DeduplicateEntries strips trailing whitespace and removes duplicate non-blank
// lines, keeping first occurrences. Blank lines are preserved for grouping.
func (reconciler *Reconciler) DeduplicateEntries(ignoreFilePath string, dryRun bool) (DeduplicationResult, error) {
	originalLines, fileExists, readError := readLines(ignoreFilePath)
	if readError != nil {
		return DeduplicationResult{}, readError
	}
	if !fileExists {
		return DeduplicationResult{}, nil
	}

	strippedLines := make([]string, len(originalLines))
	whitespaceNormalized := false
	for lineIndex, originalLine := range originalLines {
		strippedLines[lineIndex] = trimTrailing(originalLine)
		if strippedLines[lineIndex] != originalLine {
			whitespaceNormalized = true
		}
	}

	seenValues := make(map[string]struct{})
	uniqueLines := make([]string, 0, len(strippedLines))
	for _, strippedLine := range strippedLines {
		if strippedLine == emptyLineValueConstant {
			uniqueLines = append(uniqueLines, strippedLine)
			continue
		}
		if _, alreadySeen := seenValues[strippedLine]; alreadySeen {
			continue
		}
		seenValues[strippedLine] = struct{}{}
		uniqueLines = append(uniqueLines, strippedLine)
	}

	deduplicationResult := DeduplicationResult{
		DuplicatesRemoved:    len(strippedLines) - len(uniqueLines),
		WhitespaceNormalized: whitespaceNormalized,
	}

	if deduplicationResult.DuplicatesRemoved == 0 && !deduplicationResult.WhitespaceNormalized {
		return DeduplicationResult{}, nil
	}
	if dryRun {
		return deduplicationResult, nil
	}

	return deduplicationResult, writeLines(ignoreFilePath, uniqueLines)
}

// EnsureRequiredEntries appends required entries that are missing, creating the
// file when absent and guaranteeing a trailing newline precedes the addition.
func (reconciler *Reconciler) EnsureRequiredEntries(ignoreFilePath string, requiredEntries []string, dryRun bool) (EnsureResult, error) {
	existingLines, fileExists, readError := readLines(ignoreFilePath)
	if readError != nil {
		return EnsureResult{}, readError
	}

	existingValues := make(map[string]struct{}, len(existingLines))
	for _, existingLine := range existingLines {
		existingValues[strings.TrimSpace(existingLine)] = struct{}{}
	}

	missingEntries := make([]string, 0, len(requiredEntries))
	for _, requiredEntry := range requiredEntries {
		if _, alreadyPresent := existingValues[requiredEntry]; alreadyPresent {
			continue
		}
		missingEntries = append(missingEntries, requiredEntry)
	}

	if len(missingEntries) == 0 {
		return EnsureResult{}, nil
	}

	ensureResult := EnsureResult{
		FileCreated: !fileExists,
		LinesAdded:  len(missingEntries),
	}

	if dryRun {
		return ensureResult, nil
	}

	return ensureResult, appendEntries(ignoreFilePath, missingEntries, fileExists)
}

func readLines(ignoreFilePath string) ([]string, bool, error) {
	contentBytes, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, false, nil
		}
		return nil, false, readError
	}

	contentText := string(contentBytes)
	if len(contentText) == 0 {
		return []string{}, true, nil
	}

	segments := strings.Split(contentText, lineSeparatorConstant)
	if segments[len(segments)-1] == emptyLineValueConstant {
		segments = segments[:len(segments)-1]
	}
	return segments, true, nil
}

func writeLines(ignoreFilePath string, lines []string) error {
	var contentBuilder strings.Builder
	for _, line := range lines {
		contentBuilder.WriteString(line)
		contentBuilder.WriteString(lineSeparatorConstant)
	}
	return os.WriteFile(ignoreFilePath, []byte(contentBuilder.String()), ignoreFilePermissions)
}

func appendEntries(ignoreFilePath string, entries []string, fileExists bool) error {
	needsLeadingNewline := false
	if fileExists {
		contentBytes, readError := os.ReadFile(ignoreFilePath)
		if readError != nil {
			return readError
		}
		if len(contentBytes) > 0 && contentBytes[len(contentBytes)-1] != lineSeparatorConstant[0] {
			needsLeadingNewline = true
		}
	}

	fileHandle, openError := os.OpenFile(ignoreFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, ignoreFilePermissions)
	if openError != nil {
		return openError
	}
	defer fileHandle.Close()

	var contentBuilder strings.Builder
	if needsLeadingNewline {
		contentBuilder.WriteString(lineSeparatorConstant)
	}
	for _, entry := range entries {
		contentBuilder.WriteString(entry)
		contentBuilder.WriteString(lineSeparatorConstant)
	}

	_, writeError := fileHandle.WriteString(contentBuilder.String())
	return writeError
}

func trimTrailing(line string) string {
	return strings.TrimRight(line, trailingCutsetConstant)
}
