package lint

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const (
	nodeTypeModule             = "module"
	nodeTypeComment            = "comment"
	nodeTypeString             = "string"
	nodeTypeExpressionStmt     = "expression_statement"
	nodeTypeImport             = "import_statement"
	nodeTypeImportFrom         = "import_from_statement"
	nodeTypeFutureImport       = "future_import_statement"
	nodeTypeRelativeImport     = "relative_import"
	nodeTypeFunctionDefinition = "function_definition"
	nodeTypeClassDefinition    = "class_definition"
	nodeTypeDecoratedDef       = "decorated_definition"
	nodeTypeAssignment         = "assignment"
	nodeTypeAugmentedAssign    = "augmented_assignment"
	nodeTypeIdentifier         = "identifier"
	nodeTypePatternList        = "pattern_list"
	nodeTypeIfStatement        = "if_statement"
	nodeTypeError              = "ERROR"
)

// parseSource builds a Python syntax tree. Callers own the returned tree and
// must Close it.
func parseSource(executionContext context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())
	return parser.ParseCtx(executionContext, nil, source)
}

// firstErrorLine returns the 1-based line of the first error or missing node,
// or zero when the tree parsed cleanly.
func firstErrorLine(rootNode *sitter.Node) int {
	if !rootNode.HasError() {
		return 0
	}
	errorNode := findErrorNode(rootNode)
	if errorNode == nil {
		return 1
	}
	return int(errorNode.StartPoint().Row) + 1
}

func findErrorNode(currentNode *sitter.Node) *sitter.Node {
	if currentNode.Type() == nodeTypeError || currentNode.IsMissing() {
		return currentNode
	}
	for childIndex := 0; childIndex < int(currentNode.ChildCount()); childIndex++ {
		if errorNode := findErrorNode(currentNode.Child(childIndex)); errorNode != nil {
			return errorNode
		}
	}
	return nil
}

// visitNodes walks the whole tree depth-first, invoking the visitor on every
// node.
func visitNodes(currentNode *sitter.Node, visitor func(node *sitter.Node)) {
	visitor(currentNode)
	for childIndex := 0; childIndex < int(currentNode.NamedChildCount()); childIndex++ {
		visitNodes(currentNode.NamedChild(childIndex), visitor)
	}
}

// isDocstringNode reports whether a top-level statement is a bare string
// literal expression.
func isDocstringNode(statementNode *sitter.Node) bool {
	if statementNode.Type() != nodeTypeExpressionStmt {
		return false
	}
	if statementNode.NamedChildCount() != 1 {
		return false
	}
	return statementNode.NamedChild(0).Type() == nodeTypeString
}
