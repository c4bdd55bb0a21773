package lint

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

const relativeImportMessageTemplate = "relative import from %s"

// Finding is one lint violation located in a file.
type Finding struct {
	Line    int
	Message string
}

// findRelativeImports returns a finding for every from-import statement that
// uses leading dots, at any nesting depth. Files that fail to parse yield no
// findings.
func findRelativeImports(executionContext context.Context, source []byte) ([]Finding, error) {
	syntaxTree, parseError := parseSource(executionContext, source)
	if parseError != nil {
		return nil, parseError
	}
	defer syntaxTree.Close()

	rootNode := syntaxTree.RootNode()
	if rootNode.HasError() {
		return nil, nil
	}

	findings := []Finding{}
	visitNodes(rootNode, func(currentNode *sitter.Node) {
		if currentNode.Type() != nodeTypeImportFrom {
			return
		}
		relativeReference := relativeImportReference(currentNode, source)
		if len(relativeReference) == 0 {
			return
		}
		findings = append(findings, Finding{
			Line:    int(currentNode.StartPoint().Row) + 1,
			Message: fmt.Sprintf(relativeImportMessageTemplate, relativeReference),
		})
	})
	return findings, nil
}

// relativeImportReference returns the dotted module reference of a from-import
// statement, or an empty string when the import is absolute. The relative
// import child's text is already the leading dots followed by the module name.
func relativeImportReference(importNode *sitter.Node, source []byte) string {
	for childIndex := 0; childIndex < int(importNode.NamedChildCount()); childIndex++ {
		childNode := importNode.NamedChild(childIndex)
		if childNode.Type() == nodeTypeRelativeImport {
			return childNode.Content(source)
		}
	}
	return ""
}
