package instructions

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultFileName         = "AGENTS.md"
	AlternateFileName       = "CLAUDE.md"
	darwinPlatformConstant  = "darwin"
	instructionsFileMode    = os.FileMode(0o644)
	instructionsTitleLine   = "# Agent instructions"
	environmentHeaderLine   = "## Environment"
	documentationPathPrefix = "docs/"
	newlineConstant         = "\n"
)

var requiredGuidanceLines = []string{
	"Follow docs/PYTHON_STYLE.md for all Python code.",
	"Follow docs/MARKDOWN_STYLE.md for all Markdown documents.",
	"Follow docs/REPO_STYLE.md for repository layout and tooling.",
	"Record every user-visible change in docs/CHANGELOG.md.",
	"Never commit report_*.txt files.",
	"Run the scripts under tests/ before committing.",
}

var environmentGuidanceLines = []string{
	"Activate the development environment with `source source_me.sh`.",
	"Install development dependencies from pip_requirements-dev.txt.",
}

// Bare style-guide file names that must carry their docs/ path when referenced.
var prefixedReferenceNames = []string{
	"PYTHON_STYLE.md",
	"MARKDOWN_STYLE.md",
	"REPO_STYLE.md",
}

// Result describes what a maintenance pass did or would do.
type Result struct {
	Created  bool
	Modified bool
}

// Changed reports whether the pass touched or would touch the file.
func (result Result) Changed() bool {
	return result.Created || result.Modified
}

// Maintainer keeps one repository's agent guidance file current.
type Maintainer struct {
	fileName     string
	hostPlatform string
}

// NewMaintainer constructs a Maintainer for the given guidance file name and
// host platform identifier. An empty file name selects the default.
func NewMaintainer(fileName string, hostPlatform string) *Maintainer {
	if len(fileName) == 0 {
		fileName = DefaultFileName
	}
	return &Maintainer{fileName: fileName, hostPlatform: hostPlatform}
}

// FileName returns the guidance file name this maintainer manages.
func (maintainer *Maintainer) FileName() string {
	return maintainer.fileName
}

// Maintain creates the guidance file when absent and patches it when present.
// Dry runs report the same result without writing.
func (maintainer *Maintainer) Maintain(repositoryPath string, dryRun bool) (Result, error) {
	guidanceFilePath := filepath.Join(repositoryPath, maintainer.fileName)

	existingContent, readError := os.ReadFile(guidanceFilePath)
	if readError != nil {
		if !os.IsNotExist(readError) {
			return Result{}, readError
		}
		if dryRun {
			return Result{Created: true}, nil
		}
		if writeError := os.WriteFile(guidanceFilePath, []byte(maintainer.renderInitialContent()), instructionsFileMode); writeError != nil {
			return Result{}, writeError
		}
		return Result{Created: true}, nil
	}

	patchedContent, modified := maintainer.patchContent(string(existingContent))
	if !modified {
		return Result{}, nil
	}
	if dryRun {
		return Result{Modified: true}, nil
	}
	if writeError := os.WriteFile(guidanceFilePath, []byte(patchedContent), instructionsFileMode); writeError != nil {
		return Result{}, writeError
	}
	return Result{Modified: true}, nil
}

func (maintainer *Maintainer) renderInitialContent() string {
	contentBuilder := strings.Builder{}
	contentBuilder.WriteString(instructionsTitleLine + newlineConstant)
	contentBuilder.WriteString(newlineConstant)
	for _, guidanceLine := range requiredGuidanceLines {
		contentBuilder.WriteString(guidanceLine + newlineConstant)
	}
	if maintainer.hostPlatform == darwinPlatformConstant {
		contentBuilder.WriteString(newlineConstant)
		contentBuilder.WriteString(environmentHeaderLine + newlineConstant)
		for _, environmentLine := range environmentGuidanceLines {
			contentBuilder.WriteString(environmentLine + newlineConstant)
		}
	}
	return contentBuilder.String()
}

func (maintainer *Maintainer) patchContent(existingContent string) (string, bool) {
	contentLines := strings.Split(existingContent, newlineConstant)
	modified := false

	for lineIndex, contentLine := range contentLines {
		rewrittenLine := rewriteStaleReferences(contentLine)
		if rewrittenLine != contentLine {
			contentLines[lineIndex] = rewrittenLine
			modified = true
		}
	}

	patchedContent := strings.Join(contentLines, newlineConstant)

	missingGuidanceLines := []string{}
	for _, guidanceLine := range requiredGuidanceLines {
		if !strings.Contains(patchedContent, guidanceLine) {
			missingGuidanceLines = append(missingGuidanceLines, guidanceLine)
		}
	}

	missingEnvironmentLines := []string{}
	if maintainer.hostPlatform == darwinPlatformConstant {
		for _, environmentLine := range environmentGuidanceLines {
			if !strings.Contains(patchedContent, environmentLine) {
				missingEnvironmentLines = append(missingEnvironmentLines, environmentLine)
			}
		}
	}

	if len(missingEnvironmentLines) > 0 && strings.Contains(patchedContent, environmentHeaderLine) {
		patchedContent = insertAfterEnvironmentHeader(patchedContent, missingEnvironmentLines)
		missingEnvironmentLines = nil
		modified = true
	}

	appendedLines := append([]string{}, missingGuidanceLines...)
	if len(missingEnvironmentLines) > 0 {
		appendedLines = append(appendedLines, environmentHeaderLine)
		appendedLines = append(appendedLines, missingEnvironmentLines...)
	}
	if len(appendedLines) > 0 {
		if len(patchedContent) > 0 && !strings.HasSuffix(patchedContent, newlineConstant) {
			patchedContent += newlineConstant
		}
		patchedContent += strings.Join(appendedLines, newlineConstant) + newlineConstant
		modified = true
	}

	return patchedContent, modified
}

func rewriteStaleReferences(contentLine string) string {
	rewrittenLine := contentLine
	for _, referenceName := range prefixedReferenceNames {
		prefixedReference := documentationPathPrefix + referenceName
		if !strings.Contains(rewrittenLine, referenceName) {
			continue
		}
		if strings.Contains(rewrittenLine, prefixedReference) {
			continue
		}
		rewrittenLine = strings.ReplaceAll(rewrittenLine, referenceName, prefixedReference)
	}
	return rewrittenLine
}

func insertAfterEnvironmentHeader(content string, environmentLines []string) string {
	contentLines := strings.Split(content, newlineConstant)
	for lineIndex, contentLine := range contentLines {
		if strings.TrimSpace(contentLine) != environmentHeaderLine {
			continue
		}
		updatedLines := append([]string{}, contentLines[:lineIndex+1]...)
		updatedLines = append(updatedLines, environmentLines...)
		updatedLines = append(updatedLines, contentLines[lineIndex+1:]...)
		return strings.Join(updatedLines, newlineConstant)
	}
	return content
}
