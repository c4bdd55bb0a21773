package lint

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	minimumSubstantiveLines = 20
	minimumContentChars     = 100

	commentLinePrefixConstant = "#"

	syntaxErrorMessage        = "syntax error in __init__.py"
	importsMessage            = "imports are not allowed in __init__.py"
	definitionsMessage        = "definitions are not allowed in __init__.py"
	versionAssignmentMessage  = "__version__ must not be assigned in __init__.py"
	allAssignmentMessage      = "__all__ is not allowed in __init__.py"
	exportListMessage         = "manual export lists are not allowed in __init__.py"
	functionMapMessage        = "function/class maps are not allowed in __init__.py"
	globalAssignmentMessage   = "global assignments are not allowed in __init__.py"
	conditionalMessage        = "conditional logic is not allowed in __init__.py"
	implementationCodeMessage = "implementation code is not allowed in __init__.py"

	versionTargetName    = "__version__"
	allTargetName        = "__all__"
	exportListNameMarker = "EXPORTED_MODULES"
	mapNameSuffix        = "_MAP"
)

// findInitIssues classifies every top-level statement of one __init__.py
// file. Files below both size thresholds are exempt, and a file whose only
// top-level statement is a docstring is clean. A parse failure yields a
// single syntax-error finding at the error's line.
func findInitIssues(executionContext context.Context, source []byte) ([]Finding, error) {
	if !isSubstantialSource(source) {
		return nil, nil
	}

	syntaxTree, parseError := parseSource(executionContext, source)
	if parseError != nil {
		return nil, parseError
	}
	defer syntaxTree.Close()

	rootNode := syntaxTree.RootNode()
	if errorLine := firstErrorLine(rootNode); errorLine > 0 {
		return []Finding{{Line: errorLine, Message: syntaxErrorMessage}}, nil
	}

	topLevelStatements := collectTopLevelStatements(rootNode)
	if len(topLevelStatements) == 0 {
		return nil, nil
	}
	if len(topLevelStatements) == 1 && isDocstringNode(topLevelStatements[0]) {
		return nil, nil
	}

	findings := []Finding{}
	for _, statementNode := range topLevelStatements {
		if isDocstringNode(statementNode) {
			continue
		}
		findings = append(findings, Finding{
			Line:    int(statementNode.StartPoint().Row) + 1,
			Message: classifyStatement(statementNode, source),
		})
	}
	return findings, nil
}

func isSubstantialSource(source []byte) bool {
	if countSubstantiveLines(string(source)) >= minimumSubstantiveLines {
		return true
	}
	return len(strings.TrimSpace(string(source))) >= minimumContentChars
}

func countSubstantiveLines(source string) int {
	substantiveCount := 0
	for _, sourceLine := range strings.Split(source, "\n") {
		trimmedLine := strings.TrimSpace(sourceLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedLine, commentLinePrefixConstant) {
			continue
		}
		substantiveCount++
	}
	return substantiveCount
}

// collectTopLevelStatements returns the module's named children excluding
// comments, which the grammar surfaces as statement-level nodes.
func collectTopLevelStatements(rootNode *sitter.Node) []*sitter.Node {
	statements := []*sitter.Node{}
	for childIndex := 0; childIndex < int(rootNode.NamedChildCount()); childIndex++ {
		childNode := rootNode.NamedChild(childIndex)
		if childNode.Type() == nodeTypeComment {
			continue
		}
		statements = append(statements, childNode)
	}
	return statements
}

func classifyStatement(statementNode *sitter.Node, source []byte) string {
	switch statementNode.Type() {
	case nodeTypeImport, nodeTypeImportFrom, nodeTypeFutureImport:
		return importsMessage
	case nodeTypeFunctionDefinition, nodeTypeClassDefinition, nodeTypeDecoratedDef:
		return definitionsMessage
	case nodeTypeIfStatement:
		return conditionalMessage
	case nodeTypeExpressionStmt:
		if assignmentNode := childAssignment(statementNode); assignmentNode != nil {
			return classifyAssignment(assignmentNode, source)
		}
		return implementationCodeMessage
	default:
		return implementationCodeMessage
	}
}

func childAssignment(statementNode *sitter.Node) *sitter.Node {
	for childIndex := 0; childIndex < int(statementNode.NamedChildCount()); childIndex++ {
		childNode := statementNode.NamedChild(childIndex)
		if childNode.Type() == nodeTypeAssignment || childNode.Type() == nodeTypeAugmentedAssign {
			return childNode
		}
	}
	return nil
}

func classifyAssignment(assignmentNode *sitter.Node, source []byte) string {
	targetNames := assignmentTargetNames(assignmentNode, source)
	for _, targetName := range targetNames {
		if targetName == versionTargetName {
			return versionAssignmentMessage
		}
	}
	for _, targetName := range targetNames {
		if targetName == allTargetName {
			return allAssignmentMessage
		}
	}
	for _, targetName := range targetNames {
		if strings.Contains(targetName, exportListNameMarker) {
			return exportListMessage
		}
	}
	for _, targetName := range targetNames {
		if strings.HasSuffix(targetName, mapNameSuffix) {
			return functionMapMessage
		}
	}
	return globalAssignmentMessage
}

// assignmentTargetNames extracts simple identifier targets from the left side
// of an assignment.
func assignmentTargetNames(assignmentNode *sitter.Node, source []byte) []string {
	leftNode := assignmentNode.ChildByFieldName("left")
	if leftNode == nil {
		return nil
	}
	switch leftNode.Type() {
	case nodeTypeIdentifier:
		return []string{leftNode.Content(source)}
	case nodeTypePatternList:
		targetNames := []string{}
		for childIndex := 0; childIndex < int(leftNode.NamedChildCount()); childIndex++ {
			childNode := leftNode.NamedChild(childIndex)
			if childNode.Type() == nodeTypeIdentifier {
				targetNames = append(targetNames, childNode.Content(source))
			}
		}
		return targetNames
	default:
		return nil
	}
}
