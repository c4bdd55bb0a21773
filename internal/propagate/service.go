package propagate

import (
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/sourceset"
	"github.com/temirov/repokeeper/internal/syncfile"
)

const (
	documentationDirectoryName = "docs"
	testsDirectoryName         = "tests"
	developmentDirectoryName   = "devel"
	ignoreFileName             = ".gitignore"
	conftestFileName           = "conftest.py"
	changelogFileName          = "CHANGELOG.md"
	packagingScriptName        = "submit_to_pypi.py"

	loggerNotConfiguredMessage     = "logger not configured"
	collectorNotConfiguredMessage  = "repository collector not configured"
	repairerNotConfiguredMessage   = "permission repairer not configured"
	reconcilerNotConfiguredMessage = "ignore reconciler not configured"
	syncNotConfiguredMessage       = "file synchronizer not configured"
	maintainerNotConfiguredMessage = "guidance maintainer not configured"

	logFieldRepository  = "repository"
	logFieldSource      = "source"
	logFieldDestination = "destination"
	logFieldOutcome     = "outcome"
)

// RunOptions carries the resolved inputs of one propagation run.
type RunOptions struct {
	BaseDirectory           string
	TargetRepositoryPath    string
	DryRun                  bool
	NoOverwritePolicy       NoOverwritePolicy
	SourceSet               *sourceset.SourceSet
	StyleTargets            []string
	NoOverwriteTargets      []string
	DevelopmentScripts      []string
	DeprecatedTestScripts   []string
	DeprecatedIgnoreEntries []string
	RequiredIgnoreEntries   []string
}

// RunResult pairs the accumulated counters with the run context for display.
type RunResult struct {
	BaseDirectory   string
	SourceDirectory string
	Counters        *Counters
}

// Service orchestrates one propagation run across all target repositories.
type Service struct {
	logger             *zap.Logger
	collector          RepositoryCollector
	permissionRepairer PermissionRepairer
	ignoreReconciler   IgnoreReconciler
	synchronizer       FileSynchronizer
	guidanceMaintainer GuidanceMaintainer
	guidanceFileName   string
}

// NewService validates collaborators and constructs a Service.
func NewService(
	logger *zap.Logger,
	collector RepositoryCollector,
	permissionRepairer PermissionRepairer,
	ignoreReconciler IgnoreReconciler,
	synchronizer FileSynchronizer,
	guidanceMaintainer GuidanceMaintainer,
	guidanceFileName string,
) (*Service, error) {
	if logger == nil {
		return nil, errors.New(loggerNotConfiguredMessage)
	}
	if collector == nil {
		return nil, errors.New(collectorNotConfiguredMessage)
	}
	if permissionRepairer == nil {
		return nil, errors.New(repairerNotConfiguredMessage)
	}
	if ignoreReconciler == nil {
		return nil, errors.New(reconcilerNotConfiguredMessage)
	}
	if synchronizer == nil {
		return nil, errors.New(syncNotConfiguredMessage)
	}
	if guidanceMaintainer == nil {
		return nil, errors.New(maintainerNotConfiguredMessage)
	}
	return &Service{
		logger:             logger,
		collector:          collector,
		permissionRepairer: permissionRepairer,
		ignoreReconciler:   ignoreReconciler,
		synchronizer:       synchronizer,
		guidanceMaintainer: guidanceMaintainer,
		guidanceFileName:   guidanceFileName,
	}, nil
}

// Run processes every target repository sequentially and returns accumulated
// counters. Per-file failures are counted and logged without aborting the run.
func (service *Service) Run(options RunOptions) (*RunResult, error) {
	counters := NewCounters()
	noOverwriteTargets := excludeGuidanceTarget(options.NoOverwriteTargets, service.guidanceFileName)
	registerFileGroups(counters, options, noOverwriteTargets)

	repositoryDirectories, collectionError := service.collectRepositories(options)
	if collectionError != nil {
		return nil, collectionError
	}

	for _, repositoryPath := range repositoryDirectories {
		if !service.collector.IsRepositoryDirectory(repositoryPath) {
			counters.Increment(CounterSkippedNonRepository)
			continue
		}
		service.processRepository(repositoryPath, options, noOverwriteTargets, counters)
	}

	return &RunResult{
		BaseDirectory:   options.BaseDirectory,
		SourceDirectory: options.SourceSet.SourceDirectory,
		Counters:        counters,
	}, nil
}

func (service *Service) collectRepositories(options RunOptions) ([]string, error) {
	if len(options.TargetRepositoryPath) > 0 {
		return []string{options.TargetRepositoryPath}, nil
	}
	return service.collector.CollectRepositoryDirectories(options.BaseDirectory)
}

func (service *Service) processRepository(repositoryPath string, options RunOptions, noOverwriteTargets []string, counters *Counters) {
	repairResult, repairError := service.permissionRepairer.RepairMetadataPermissions(repositoryPath, options.DryRun)
	if repairError != nil {
		service.recordError(repositoryPath, repairError, counters)
	}
	if repairResult.Changed() {
		counters.Increment(CounterGitPermsChanged)
	} else {
		counters.Increment(CounterGitPermsUnchanged)
	}

	service.reconcileIgnoreFile(repositoryPath, options, counters)
	service.scaffoldRepository(repositoryPath, options, counters)
	service.synchronizeStyleGuides(repositoryPath, options, counters)
	if options.NoOverwritePolicy != NoOverwritePolicyNever {
		service.copyMissingNoOverwriteFiles(repositoryPath, options, noOverwriteTargets, counters)
	}
	service.maintainGuidanceFile(repositoryPath, options, counters)
	service.synchronizeTestScripts(repositoryPath, options, counters)
	service.synchronizeDevelopmentScripts(repositoryPath, options, counters)
}

func (service *Service) reconcileIgnoreFile(repositoryPath string, options RunOptions, counters *Counters) {
	ignoreFilePath := filepath.Join(repositoryPath, ignoreFileName)
	reconcileResult, reconcileError := service.ignoreReconciler.Reconcile(
		ignoreFilePath,
		options.DeprecatedIgnoreEntries,
		options.RequiredIgnoreEntries,
		options.DryRun,
	)
	if reconcileError != nil {
		service.recordError(repositoryPath, reconcileError, counters)
		return
	}

	if reconcileResult.DeprecatedLinesRemoved > 0 {
		counters.Increment(CounterIgnoreDeprecatedFilesCleaned)
		counters.Add(CounterIgnoreDeprecatedLinesRemoved, reconcileResult.DeprecatedLinesRemoved)
	}
	if reconcileResult.Deduplication.DuplicatesRemoved > 0 || reconcileResult.Deduplication.WhitespaceNormalized {
		counters.Increment(CounterIgnoreCleaned)
		counters.Add(CounterIgnoreDuplicatesRemoved, reconcileResult.Deduplication.DuplicatesRemoved)
		if reconcileResult.Deduplication.WhitespaceNormalized {
			counters.Increment(CounterIgnoreWhitespaceCleaned)
		}
	}
	if reconcileResult.Ensure.FileCreated {
		counters.Increment(CounterIgnoreCreated)
	} else if reconcileResult.Ensure.LinesAdded > 0 {
		counters.Increment(CounterIgnoreUpdated)
	}
	counters.Add(CounterIgnoreLinesAdded, reconcileResult.Ensure.LinesAdded)
}

func (service *Service) scaffoldRepository(repositoryPath string, options RunOptions, counters *Counters) {
	documentationDirectory := filepath.Join(repositoryPath, documentationDirectoryName)
	if _, mkdirError := ensureDirectory(documentationDirectory, options.DryRun); mkdirError != nil {
		service.recordError(repositoryPath, mkdirError, counters)
	}

	testsDirectory := filepath.Join(repositoryPath, testsDirectoryName)
	testsCreated, testsError := ensureDirectory(testsDirectory, options.DryRun)
	if testsError != nil {
		service.recordError(repositoryPath, testsError, counters)
	}
	if testsCreated {
		counters.Increment(CounterCreatedTestsDirectories)
	}

	conftestCreated, conftestError := ensureEmptyFile(filepath.Join(testsDirectory, conftestFileName), options.DryRun)
	if conftestError != nil {
		service.recordError(repositoryPath, conftestError, counters)
	}
	if conftestCreated {
		counters.Increment(CounterCreatedConftest)
	}

	removedScripts, removalError := removeDeprecatedTestScripts(testsDirectory, options.DeprecatedTestScripts, options.DryRun)
	if removalError != nil {
		service.recordError(repositoryPath, removalError, counters)
	}
	counters.Add(CounterRemovedDeprecatedTests, removedScripts)

	developmentDirectory := filepath.Join(repositoryPath, developmentDirectoryName)
	developmentCreated, developmentError := ensureDirectory(developmentDirectory, options.DryRun)
	if developmentError != nil {
		service.recordError(repositoryPath, developmentError, counters)
	}
	if developmentCreated {
		counters.Increment(CounterCreatedDevelDirectories)
	}

	changelogCreated, changelogError := ensureEmptyFile(filepath.Join(documentationDirectory, changelogFileName), options.DryRun)
	if changelogError != nil {
		service.recordError(repositoryPath, changelogError, counters)
	}
	if changelogCreated {
		counters.Increment(CounterCreatedChangelog)
	}
}

func (service *Service) synchronizeStyleGuides(repositoryPath string, options RunOptions, counters *Counters) {
	for _, targetRelativePath := range options.StyleTargets {
		sourceFilePath := options.SourceSet.StyleSources[targetRelativePath]
		destinationFilePath := filepath.Join(repositoryPath, filepath.FromSlash(targetRelativePath))

		outcome, syncError := service.synchronizer.Sync(sourceFilePath, destinationFilePath, options.DryRun)
		if syncError != nil {
			service.recordError(repositoryPath, syncError, counters)
			continue
		}
		service.logOutcome(sourceFilePath, destinationFilePath, outcome)

		switch outcome {
		case syncfile.OutcomeSkipSource:
			counters.Increment(CounterSkippedSource)
		case syncfile.OutcomeSkipSame:
			counters.Increment(CounterSkippedSame)
			counters.IncrementForFile(FileGroupSkippedSameStyles, targetRelativePath)
		case syncfile.OutcomeCopy:
			counters.Increment(CounterCopied)
			counters.IncrementForFile(FileGroupCopiedStyles, targetRelativePath)
		case syncfile.OutcomeUpdate:
			counters.Increment(CounterUpdated)
			counters.IncrementForFile(FileGroupUpdatedStyles, targetRelativePath)
		}
	}
}

func (service *Service) copyMissingNoOverwriteFiles(repositoryPath string, options RunOptions, noOverwriteTargets []string, counters *Counters) {
	for _, targetRelativePath := range noOverwriteTargets {
		sourceFilePath := options.SourceSet.NoOverwriteSources[targetRelativePath]
		destinationFilePath := filepath.Join(repositoryPath, filepath.FromSlash(targetRelativePath))

		outcome, classificationError := service.synchronizer.Classify(sourceFilePath, destinationFilePath)
		if classificationError != nil {
			service.recordError(repositoryPath, classificationError, counters)
			continue
		}

		switch outcome {
		case syncfile.OutcomeSkipSource:
			counters.Increment(CounterSkippedSourceNoOverwrite)
			counters.IncrementForFile(FileGroupSkippedSourceNoOverwrite, targetRelativePath)
			continue
		case syncfile.OutcomeSkipSame, syncfile.OutcomeUpdate:
			counters.Increment(CounterSkippedExistingNoOverwrite)
			counters.IncrementForFile(FileGroupSkippedExistingNoOverwrite, targetRelativePath)
			continue
		}

		if _, syncError := service.synchronizer.Sync(sourceFilePath, destinationFilePath, options.DryRun); syncError != nil {
			service.recordError(repositoryPath, syncError, counters)
			continue
		}
		service.logOutcome(sourceFilePath, destinationFilePath, syncfile.OutcomeCopy)
		counters.Increment(CounterCopiedNoOverwrite)
		counters.IncrementForFile(FileGroupCopiedNoOverwrite, targetRelativePath)
	}
}

func (service *Service) maintainGuidanceFile(repositoryPath string, options RunOptions, counters *Counters) {
	maintenanceResult, maintenanceError := service.guidanceMaintainer.Maintain(repositoryPath, options.DryRun)
	if maintenanceError != nil {
		service.recordError(repositoryPath, maintenanceError, counters)
		return
	}
	if maintenanceResult.Created {
		counters.Increment(CounterInstructionsCreated)
	}
	if maintenanceResult.Modified {
		counters.Increment(CounterInstructionsUpdated)
	}
}

func (service *Service) synchronizeTestScripts(repositoryPath string, options RunOptions, counters *Counters) {
	testsDirectory := filepath.Join(repositoryPath, testsDirectoryName)
	repositoryHasPython := repositoryHasPythonFiles(repositoryPath)

	for _, scriptName := range options.SourceSet.TestScriptNames {
		if isTestScriptName(scriptName) && !repositoryHasPython {
			counters.Increment(CounterSkippedTestsNoPython)
			counters.IncrementForFile(FileGroupSkippedTestsNoPython, scriptName)
			continue
		}

		sourceFilePath := options.SourceSet.TestScriptSources[scriptName]
		destinationFilePath := filepath.Join(testsDirectory, scriptName)

		outcome, syncError := service.synchronizer.Sync(sourceFilePath, destinationFilePath, options.DryRun)
		if syncError != nil {
			service.recordError(repositoryPath, syncError, counters)
			continue
		}
		service.logOutcome(sourceFilePath, destinationFilePath, outcome)

		switch outcome {
		case syncfile.OutcomeSkipSource:
			counters.Increment(CounterSkippedSourceTests)
		case syncfile.OutcomeSkipSame:
			counters.Increment(CounterSkippedSameTests)
			counters.IncrementForFile(FileGroupSkippedSameTests, scriptName)
		case syncfile.OutcomeCopy:
			counters.Increment(CounterCopiedTests)
			counters.IncrementForFile(FileGroupCopiedTests, scriptName)
		case syncfile.OutcomeUpdate:
			counters.Increment(CounterUpdatedTests)
			counters.IncrementForFile(FileGroupUpdatedTests, scriptName)
		}
	}
}

func (service *Service) synchronizeDevelopmentScripts(repositoryPath string, options RunOptions, counters *Counters) {
	developmentDirectory := filepath.Join(repositoryPath, developmentDirectoryName)

	for _, scriptName := range options.DevelopmentScripts {
		if scriptName == packagingScriptName && !repositoryHasPackageManifest(repositoryPath) {
			counters.Increment(CounterSkippedDevelNoPackageManifest)
			counters.IncrementForFile(FileGroupSkippedDevelNoManifest, scriptName)
			continue
		}

		sourceFilePath := options.SourceSet.DevelopmentScriptSources[scriptName]
		destinationFilePath := filepath.Join(developmentDirectory, scriptName)

		outcome, syncError := service.synchronizer.Sync(sourceFilePath, destinationFilePath, options.DryRun)
		if syncError != nil {
			service.recordError(repositoryPath, syncError, counters)
			continue
		}
		service.logOutcome(sourceFilePath, destinationFilePath, outcome)

		switch outcome {
		case syncfile.OutcomeSkipSource:
			counters.Increment(CounterSkippedSourceDevel)
		case syncfile.OutcomeSkipSame:
			counters.Increment(CounterSkippedSameDevel)
			counters.IncrementForFile(FileGroupSkippedSameDevel, scriptName)
		case syncfile.OutcomeCopy:
			counters.Increment(CounterCopiedDevel)
			counters.IncrementForFile(FileGroupCopiedDevel, scriptName)
		case syncfile.OutcomeUpdate:
			counters.Increment(CounterUpdatedDevel)
			counters.IncrementForFile(FileGroupUpdatedDevel, scriptName)
		}
	}
}

func (service *Service) recordError(repositoryPath string, failure error, counters *Counters) {
	counters.Increment(CounterErrors)
	service.logger.Warn("propagation step failed", zap.String(logFieldRepository, repositoryPath), zap.Error(failure))
}

func (service *Service) logOutcome(sourceFilePath string, destinationFilePath string, outcome syncfile.Outcome) {
	if outcome == syncfile.OutcomeSkipSame {
		return
	}
	service.logger.Debug(
		"synchronized managed file",
		zap.String(logFieldSource, sourceFilePath),
		zap.String(logFieldDestination, destinationFilePath),
		zap.String(logFieldOutcome, string(outcome)),
	)
}

func excludeGuidanceTarget(noOverwriteTargets []string, guidanceFileName string) []string {
	filteredTargets := make([]string, 0, len(noOverwriteTargets))
	for _, targetRelativePath := range noOverwriteTargets {
		if filepath.Base(targetRelativePath) == guidanceFileName {
			continue
		}
		filteredTargets = append(filteredTargets, targetRelativePath)
	}
	return filteredTargets
}

func registerFileGroups(counters *Counters, options RunOptions, noOverwriteTargets []string) {
	counters.RegisterFileGroup(FileGroupSkippedSameStyles, options.StyleTargets)
	counters.RegisterFileGroup(FileGroupCopiedStyles, options.StyleTargets)
	counters.RegisterFileGroup(FileGroupUpdatedStyles, options.StyleTargets)
	counters.RegisterFileGroup(FileGroupSkippedExistingNoOverwrite, noOverwriteTargets)
	counters.RegisterFileGroup(FileGroupSkippedSourceNoOverwrite, noOverwriteTargets)
	counters.RegisterFileGroup(FileGroupCopiedNoOverwrite, noOverwriteTargets)
	counters.RegisterFileGroup(FileGroupSkippedSameTests, options.SourceSet.TestScriptNames)
	counters.RegisterFileGroup(FileGroupCopiedTests, options.SourceSet.TestScriptNames)
	counters.RegisterFileGroup(FileGroupUpdatedTests, options.SourceSet.TestScriptNames)
	counters.RegisterFileGroup(FileGroupSkippedTestsNoPython, options.SourceSet.TestScriptNames)
	counters.RegisterFileGroup(FileGroupSkippedSameDevel, options.DevelopmentScripts)
	counters.RegisterFileGroup(FileGroupCopiedDevel, options.DevelopmentScripts)
	counters.RegisterFileGroup(FileGroupUpdatedDevel, options.DevelopmentScripts)
	counters.RegisterFileGroup(FileGroupSkippedDevelNoManifest, options.DevelopmentScripts)
}
