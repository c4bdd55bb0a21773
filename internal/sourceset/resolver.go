package sourceset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	documentationDirectoryNameConstant = "docs"
	developmentDirectoryNameConstant   = "devel"
	testsDirectoryNameConstant         = "tests"
	templateDirectoryNameConstant      = "starter_repo_template"
	testScriptPrefixConstant           = "test_"
	pythonFileSuffixConstant           = ".py"
	sourceDirectoryNotFoundMessage     = "default source directory not found; provide --source-dir"
	sourceFileNotFoundTemplateConstant = "source file not found in %v: %s"
	develSourceMissingTemplateConstant = "source file not found: %s"
	testsDirectoryMissingTemplate      = "source tests directory not found: %s"
	pythonStyleGuideRelativePath       = "docs/PYTHON_STYLE.md"
	markdownStyleGuideRelativePath     = "docs/MARKDOWN_STYLE.md"
	repositoryStyleGuideRelativePath   = "docs/REPO_STYLE.md"
)

// SourceSet holds the resolved absolute source path for every managed target.
type SourceSet struct {
	SourceDirectory          string
	StyleSources             map[string]string
	NoOverwriteSources       map[string]string
	DevelopmentScriptSources map[string]string
	TestScriptSources        map[string]string
	TestScriptNames          []string
}

// PathExpander resolves user home shortcuts in supplied paths.
type PathExpander interface {
	Expand(candidatePath string) string
}

// Resolver locates canonical source files for a propagation run.
type Resolver struct {
	pathExpander PathExpander
}

// NewResolver constructs a Resolver with the supplied expander.
func NewResolver(pathExpander PathExpander) *Resolver {
	return &Resolver{pathExpander: pathExpander}
}

// ResolveSourceDirectory selects the source directory for a run. An explicit
// value wins; otherwise the template directory under the base directory is
// preferred, falling back to the nearest ancestor of the working directory
// that carries the three style guides.
func (resolver *Resolver) ResolveSourceDirectory(baseDirectory string, explicitSourceDirectory string) (string, error) {
	if len(explicitSourceDirectory) > 0 {
		expanded := explicitSourceDirectory
		if resolver.pathExpander != nil {
			expanded = resolver.pathExpander.Expand(explicitSourceDirectory)
		}
		return filepath.Abs(expanded)
	}

	templateDirectory := filepath.Join(baseDirectory, templateDirectoryNameConstant)
	if directoryExists(templateDirectory) {
		return filepath.Abs(templateDirectory)
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", workingDirectoryError
	}
	styleGuideRoot, found := findStyleGuideRoot(workingDirectory)
	if !found {
		return "", fmt.Errorf(sourceDirectoryNotFoundMessage)
	}
	return styleGuideRoot, nil
}

// BuildSourceSet resolves every managed target against the source directory.
// Style targets are searched in the docs subdirectory first and the root
// second; development and test scripts resolve against their dedicated
// subdirectories. Test scripts matching the test naming convention under the
// source tests directory are discovered dynamically and appended in sorted
// order after the configured list.
func (resolver *Resolver) BuildSourceSet(
	sourceDirectory string,
	styleTargets []string,
	noOverwriteTargets []string,
	developmentScripts []string,
	testScripts []string,
) (*SourceSet, error) {
	sourceCandidates := []string{
		filepath.Join(sourceDirectory, documentationDirectoryNameConstant),
		sourceDirectory,
	}

	styleSources, styleResolutionError := resolveByBaseName(sourceCandidates, styleTargets)
	if styleResolutionError != nil {
		return nil, styleResolutionError
	}

	noOverwriteSources, noOverwriteResolutionError := resolveByBaseName(sourceCandidates, noOverwriteTargets)
	if noOverwriteResolutionError != nil {
		return nil, noOverwriteResolutionError
	}

	developmentDirectory := filepath.Join(sourceDirectory, developmentDirectoryNameConstant)
	developmentSources := map[string]string{}
	for _, scriptName := range developmentScripts {
		scriptPath := filepath.Join(developmentDirectory, scriptName)
		if !fileExists(scriptPath) {
			return nil, fmt.Errorf(develSourceMissingTemplateConstant, scriptPath)
		}
		developmentSources[scriptName] = scriptPath
	}

	testsDirectory := filepath.Join(sourceDirectory, testsDirectoryNameConstant)
	if !directoryExists(testsDirectory) {
		return nil, fmt.Errorf(testsDirectoryMissingTemplate, testsDirectory)
	}

	finalTestScripts, discoveryError := appendDiscoveredTestScripts(testsDirectory, testScripts)
	if discoveryError != nil {
		return nil, discoveryError
	}

	testSources := map[string]string{}
	for _, scriptName := range finalTestScripts {
		scriptPath := filepath.Join(testsDirectory, scriptName)
		if !fileExists(scriptPath) {
			return nil, fmt.Errorf(develSourceMissingTemplateConstant, scriptPath)
		}
		testSources[scriptName] = scriptPath
	}

	return &SourceSet{
		SourceDirectory:          sourceDirectory,
		StyleSources:             styleSources,
		NoOverwriteSources:       noOverwriteSources,
		DevelopmentScriptSources: developmentSources,
		TestScriptSources:        testSources,
		TestScriptNames:          finalTestScripts,
	}, nil
}

func resolveByBaseName(sourceCandidates []string, targetRelativePaths []string) (map[string]string, error) {
	resolved := map[string]string{}
	for _, targetRelativePath := range targetRelativePaths {
		sourceName := filepath.Base(targetRelativePath)
		sourcePath, resolutionError := resolveSourceFile(sourceCandidates, sourceName)
		if resolutionError != nil {
			return nil, resolutionError
		}
		resolved[targetRelativePath] = sourcePath
	}
	return resolved, nil
}

func resolveSourceFile(sourceCandidates []string, sourceName string) (string, error) {
	for _, candidateDirectory := range sourceCandidates {
		candidatePath := filepath.Join(candidateDirectory, sourceName)
		if fileExists(candidatePath) {
			return candidatePath, nil
		}
	}
	return "", fmt.Errorf(sourceFileNotFoundTemplateConstant, sourceCandidates, sourceName)
}

func appendDiscoveredTestScripts(testsDirectory string, configuredScripts []string) ([]string, error) {
	finalScripts := append([]string{}, configuredScripts...)
	knownScripts := map[string]struct{}{}
	for _, scriptName := range configuredScripts {
		knownScripts[scriptName] = struct{}{}
	}

	directoryEntries, readError := os.ReadDir(testsDirectory)
	if readError != nil {
		return nil, readError
	}
	discoveredScripts := []string{}
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if !strings.HasPrefix(entryName, testScriptPrefixConstant) {
			continue
		}
		if !strings.HasSuffix(entryName, pythonFileSuffixConstant) {
			continue
		}
		if _, alreadyKnown := knownScripts[entryName]; alreadyKnown {
			continue
		}
		discoveredScripts = append(discoveredScripts, entryName)
	}
	sort.Strings(discoveredScripts)
	return append(finalScripts, discoveredScripts...), nil
}

func findStyleGuideRoot(startDirectory string) (string, bool) {
	requiredRelativePaths := []string{
		pythonStyleGuideRelativePath,
		markdownStyleGuideRelativePath,
		repositoryStyleGuideRelativePath,
	}
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", false
	}
	for {
		allPresent := true
		for _, requiredRelativePath := range requiredRelativePaths {
			if !fileExists(filepath.Join(currentDirectory, filepath.FromSlash(requiredRelativePath))) {
				allPresent = false
				break
			}
		}
		if allPresent {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}

func fileExists(candidatePath string) bool {
	pathInfo, statError := os.Stat(candidatePath)
	return statError == nil && pathInfo.Mode().IsRegular()
}

func directoryExists(candidatePath string) bool {
	pathInfo, statError := os.Stat(candidatePath)
	return statError == nil && pathInfo.IsDir()
}
