package graph

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// OperationType reports whether the selected operation of a document is
// a query, a mutation or a subscription.
func OperationType(query, operationName string) (ast.Operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return "", fmt.Errorf("could not parse operation: %s", err.Error())
	}

	op := doc.Operations.ForName(operationName)
	if op == nil {
		if operationName == "" {
			return "", fmt.Errorf("an operation name is required when the document contains %d operations", len(doc.Operations))
		}
		return "", fmt.Errorf("unknown operation %q", operationName)
	}

	return op.Operation, nil
}
