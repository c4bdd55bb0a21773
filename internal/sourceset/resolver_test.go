package sourceset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/sourceset"
)

const (
	styleGuideContentConstant = "# Style\n"
	scriptContentConstant     = "print('ok')\n"
)

type identityExpander struct{}

func (identityExpander) Expand(candidatePath string) string {
	return candidatePath
}

func createSourceTree(testInstance *testing.T) string {
	testInstance.Helper()
	sourceDirectory := testInstance.TempDir()
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "docs", "PYTHON_STYLE.md"), styleGuideContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "docs", "MARKDOWN_STYLE.md"), styleGuideContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "docs", "REPO_STYLE.md"), styleGuideContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "CLAUDE.md"), styleGuideContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "AGENTS.md"), styleGuideContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "devel", "commit_changelog.py"), scriptContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "devel", "submit_to_pypi.py"), scriptContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "tests", "test_import_dot.py"), scriptContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "tests", "test_init_files.py"), scriptContentConstant)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "tests", "fix_whitespace.py"), scriptContentConstant)
	return sourceDirectory
}

func writeSourceFile(testInstance *testing.T, filePath string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o644))
}

func TestResolveSourceDirectoryPrefersExplicitArgument(testInstance *testing.T) {
	explicitDirectory := testInstance.TempDir()

	resolver := sourceset.NewResolver(identityExpander{})
	resolvedDirectory, resolutionError := resolver.ResolveSourceDirectory(testInstance.TempDir(), explicitDirectory)
	require.NoError(testInstance, resolutionError)
	require.Equal(testInstance, explicitDirectory, resolvedDirectory)
}

func TestResolveSourceDirectoryFallsBackToTemplateDirectory(testInstance *testing.T) {
	baseDirectory := testInstance.TempDir()
	templateDirectory := filepath.Join(baseDirectory, "starter_repo_template")
	require.NoError(testInstance, os.MkdirAll(templateDirectory, 0o755))

	resolver := sourceset.NewResolver(identityExpander{})
	resolvedDirectory, resolutionError := resolver.ResolveSourceDirectory(baseDirectory, "")
	require.NoError(testInstance, resolutionError)
	require.Equal(testInstance, templateDirectory, resolvedDirectory)
}

func TestBuildSourceSetResolvesDocsFirst(testInstance *testing.T) {
	sourceDirectory := createSourceTree(testInstance)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "PYTHON_STYLE.md"), "# shadowed\n")

	resolver := sourceset.NewResolver(identityExpander{})
	sourceSet, buildError := resolver.BuildSourceSet(
		sourceDirectory,
		[]string{"docs/PYTHON_STYLE.md", "CLAUDE.md"},
		[]string{"AGENTS.md"},
		[]string{"commit_changelog.py", "submit_to_pypi.py"},
		[]string{"test_import_dot.py", "fix_whitespace.py"},
	)
	require.NoError(testInstance, buildError)

	require.Equal(testInstance, filepath.Join(sourceDirectory, "docs", "PYTHON_STYLE.md"), sourceSet.StyleSources["docs/PYTHON_STYLE.md"])
	require.Equal(testInstance, filepath.Join(sourceDirectory, "CLAUDE.md"), sourceSet.StyleSources["CLAUDE.md"])
	require.Equal(testInstance, filepath.Join(sourceDirectory, "AGENTS.md"), sourceSet.NoOverwriteSources["AGENTS.md"])
	require.Equal(testInstance, filepath.Join(sourceDirectory, "devel", "commit_changelog.py"), sourceSet.DevelopmentScriptSources["commit_changelog.py"])
}

func TestBuildSourceSetDiscoversAdditionalTestScripts(testInstance *testing.T) {
	sourceDirectory := createSourceTree(testInstance)
	writeSourceFile(testInstance, filepath.Join(sourceDirectory, "tests", "test_extra_check.py"), scriptContentConstant)

	resolver := sourceset.NewResolver(identityExpander{})
	sourceSet, buildError := resolver.BuildSourceSet(
		sourceDirectory,
		nil,
		nil,
		nil,
		[]string{"test_import_dot.py", "fix_whitespace.py"},
	)
	require.NoError(testInstance, buildError)

	require.Equal(
		testInstance,
		[]string{"test_import_dot.py", "fix_whitespace.py", "test_extra_check.py", "test_init_files.py"},
		sourceSet.TestScriptNames,
	)
	require.Contains(testInstance, sourceSet.TestScriptSources, "test_extra_check.py")
}

func TestBuildSourceSetFailsOnMissingSources(testInstance *testing.T) {
	sourceDirectory := createSourceTree(testInstance)

	resolver := sourceset.NewResolver(identityExpander{})

	_, missingStyleError := resolver.BuildSourceSet(sourceDirectory, []string{"docs/UNKNOWN_STYLE.md"}, nil, nil, nil)
	require.Error(testInstance, missingStyleError)

	_, missingDevelError := resolver.BuildSourceSet(sourceDirectory, nil, nil, []string{"unknown_script.py"}, nil)
	require.Error(testInstance, missingDevelError)

	_, missingTestError := resolver.BuildSourceSet(sourceDirectory, nil, nil, nil, []string{"test_unknown.py"})
	require.Error(testInstance, missingTestError)
}
