package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	importReportNameConstant = "report_import_dot.txt"
	initReportNameConstant   = "report_init.txt"

	pythonFilesPatternShallow = "*.py"
	pythonFilesPatternDeep    = "**/*.py"
	initFilesPatternShallow   = "__init__.py"
	initFilesPatternDeep      = "**/__init__.py"

	initFileNameConstant = "__init__.py"

	issueLineTemplateConstant   = "%s:%d: %s"
	fileFailureTemplateConstant = "%s in %s (%d findings); full report: %s"

	importCheckFailureMessage = "relative import usage detected"
	initCheckFailureMessage   = "__init__.py style violations detected"

	lintLoggerNotConfiguredMessage = "logger not configured"
	lintListerNotConfiguredMessage = "file lister not configured"

	logFieldFile     = "file"
	logFieldFindings = "findings"
)

var (
	importReportHeader = []string{"Import dot report", "Violations:"}
	initReportHeader   = []string{"__init__.py style report", "Violations:"}
)

// checkDefinition binds one check's file patterns, report identity, and
// finding function together.
type checkDefinition struct {
	patterns       []string
	reportName     string
	headerLines    []string
	failureMessage string
	fileFilter     func(absolutePath string) bool
	findIssues     func(executionContext context.Context, source []byte) ([]Finding, error)
}

var importCheckDefinition = checkDefinition{
	patterns:       []string{pythonFilesPatternShallow, pythonFilesPatternDeep},
	reportName:     importReportNameConstant,
	headerLines:    importReportHeader,
	failureMessage: importCheckFailureMessage,
	fileFilter:     func(absolutePath string) bool { return true },
	findIssues:     findRelativeImports,
}

var initCheckDefinition = checkDefinition{
	patterns:       []string{initFilesPatternShallow, initFilesPatternDeep},
	reportName:     initReportNameConstant,
	headerLines:    initReportHeader,
	failureMessage: initCheckFailureMessage,
	fileFilter: func(absolutePath string) bool {
		return filepath.Base(absolutePath) == initFileNameConstant
	},
	findIssues: findInitIssues,
}

// CheckService runs one lint check over a repository.
type CheckService struct {
	logger        *zap.Logger
	fileCollector *FileCollector
	definition    checkDefinition
}

// NewImportCheckService constructs the relative-import check.
func NewImportCheckService(logger *zap.Logger, fileCollector *FileCollector) (*CheckService, error) {
	return newCheckService(logger, fileCollector, importCheckDefinition)
}

// NewInitCheckService constructs the __init__.py shape check.
func NewInitCheckService(logger *zap.Logger, fileCollector *FileCollector) (*CheckService, error) {
	return newCheckService(logger, fileCollector, initCheckDefinition)
}

func newCheckService(logger *zap.Logger, fileCollector *FileCollector, definition checkDefinition) (*CheckService, error) {
	if logger == nil {
		return nil, errors.New(lintLoggerNotConfiguredMessage)
	}
	if fileCollector == nil {
		return nil, errors.New(lintListerNotConfiguredMessage)
	}
	return &CheckService{logger: logger, fileCollector: fileCollector, definition: definition}, nil
}

// Run collects candidate files, checks each one, appends findings to the
// report, and returns one joined error per offending file. A stale report
// from an earlier run is removed before the first file is checked.
func (service *CheckService) Run(executionContext context.Context, repositoryRoot string) error {
	candidatePaths, collectionError := service.fileCollector.Collect(executionContext, repositoryRoot, service.definition.patterns)
	if collectionError != nil {
		return collectionError
	}

	reportWriter := NewReportWriter(repositoryRoot, service.definition.reportName, service.definition.headerLines)
	if resetError := reportWriter.Reset(); resetError != nil {
		return resetError
	}

	fileFailures := []error{}
	for _, absolutePath := range candidatePaths {
		if !service.definition.fileFilter(absolutePath) {
			continue
		}
		fileFailure, checkError := service.checkFile(executionContext, repositoryRoot, absolutePath, reportWriter)
		if checkError != nil {
			return checkError
		}
		if fileFailure != nil {
			fileFailures = append(fileFailures, fileFailure)
		}
	}
	return errors.Join(fileFailures...)
}

func (service *CheckService) checkFile(
	executionContext context.Context,
	repositoryRoot string,
	absolutePath string,
	reportWriter *ReportWriter,
) (error, error) {
	source, readError := readSource(absolutePath)
	if readError != nil {
		return nil, readError
	}

	findings, findError := service.definition.findIssues(executionContext, source)
	if findError != nil {
		return nil, findError
	}
	if len(findings) == 0 {
		return nil, nil
	}

	relativePath, relativeError := filepath.Rel(repositoryRoot, absolutePath)
	if relativeError != nil {
		relativePath = absolutePath
	}

	issueLines := make([]string, 0, len(findings))
	for _, finding := range findings {
		issueLines = append(issueLines, fmt.Sprintf(issueLineTemplateConstant, filepath.ToSlash(relativePath), finding.Line, finding.Message))
	}
	issueLines = sortedUniqueLines(issueLines)

	if appendError := reportWriter.Append(issueLines); appendError != nil {
		return nil, appendError
	}

	service.logger.Warn(
		service.definition.failureMessage,
		zap.String(logFieldFile, relativePath),
		zap.Int(logFieldFindings, len(issueLines)),
	)

	return fmt.Errorf(fileFailureTemplateConstant, service.definition.failureMessage, relativePath, len(issueLines), reportWriter.RelativePath()), nil
}
