package lint

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// paddingComment pushes a short fixture past the character threshold without
// adding substantive statements.
const paddingComment = "# synthetic padding line keeping this fixture above the minimum character threshold for the shape check\n"

func TestFindInitIssues(testInstance *testing.T) {
	testCases := []struct {
		name             string
		source           string
		expectedMessages []string
	}{
		{
			name:             "tiny_file_is_exempt",
			source:           "import os\n",
			expectedMessages: nil,
		},
		{
			name:             "lone_docstring_is_clean",
			source:           "\"\"\"" + strings.Repeat("Package documentation. ", 10) + "\"\"\"\n",
			expectedMessages: nil,
		},
		{
			name:             "version_assignment",
			source:           paddingComment + "__version__ = \"1.0\"\n",
			expectedMessages: []string{versionAssignmentMessage},
		},
		{
			name:             "all_assignment",
			source:           paddingComment + "__all__ = [\"helpers\"]\n",
			expectedMessages: []string{allAssignmentMessage},
		},
		{
			name:             "export_list_assignment",
			source:           paddingComment + "EXPORTED_MODULES_REGISTRY = []\n",
			expectedMessages: []string{exportListMessage},
		},
		{
			name:             "function_map_assignment",
			source:           paddingComment + "HANDLER_MAP = {}\n",
			expectedMessages: []string{functionMapMessage},
		},
		{
			name:             "generic_assignment",
			source:           paddingComment + "default_timeout = 30\n",
			expectedMessages: []string{globalAssignmentMessage},
		},
		{
			name:             "import_statement",
			source:           paddingComment + "import os\n",
			expectedMessages: []string{importsMessage},
		},
		{
			name:             "definition_statement",
			source:           paddingComment + "def helper():\n    return 1\n",
			expectedMessages: []string{definitionsMessage},
		},
		{
			name:             "conditional_statement",
			source:           paddingComment + "if True:\n    pass\n",
			expectedMessages: []string{conditionalMessage},
		},
		{
			name:             "implementation_statement",
			source:           paddingComment + "print(\"side effect\")\n",
			expectedMessages: []string{implementationCodeMessage},
		},
		{
			name:   "docstring_does_not_exempt_remaining_statements",
			source: "\"\"\"Package docs.\"\"\"\n" + paddingComment + "import os\n__version__ = \"2.0\"\n",
			expectedMessages: []string{
				importsMessage,
				versionAssignmentMessage,
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			findings, findError := findInitIssues(context.Background(), []byte(testCase.source))
			require.NoError(testInstance, findError)

			messages := make([]string, 0, len(findings))
			for _, finding := range findings {
				messages = append(messages, finding.Message)
			}
			if testCase.expectedMessages == nil {
				require.Empty(testInstance, messages)
				return
			}
			require.Equal(testInstance, testCase.expectedMessages, messages)
		})
	}
}

func TestFindInitIssuesReportsSyntaxErrors(testInstance *testing.T) {
	brokenSource := paddingComment + "def broken(:\n"
	findings, findError := findInitIssues(context.Background(), []byte(brokenSource))
	require.NoError(testInstance, findError)
	require.Len(testInstance, findings, 1)
	require.Equal(testInstance, syntaxErrorMessage, findings[0].Message)
	require.Positive(testInstance, findings[0].Line)
}

func TestCountSubstantiveLines(testInstance *testing.T) {
	source := "# comment\n\nimport os\nvalue = 1\n"
	require.Equal(testInstance, 2, countSubstantiveLines(source))
}
