// Package graph binds the library schema to its resolvers.
package graph

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var embeddedSchema string

// LoadSchemaSource returns the schema declaration at path, or the one
// compiled into the binary when path is empty.
func LoadSchemaSource(path string) (string, error) {
	if path == "" {
		return embeddedSchema, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read schema file: %w", err)
	}

	return string(source), nil
}

func NewSchema(source string, resolver *Resolver) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(source, resolver,
		graphql.UseFieldResolvers(),
		graphql.MaxParallelism(20),
	)
	if err != nil {
		return nil, fmt.Errorf("could not parse schema: %w", err)
	}

	return schema, nil
}
