/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/gqlerror"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/dgraph-io/gqlparser/v2/validator"
	_ "github.com/dgraph-io/gqlparser/v2/validator/rules" // make gql validator init() all rules
)

// FromString parses and validates a GraphQL schema definition.  The result
// includes the prelude (built in scalars, directives and introspection types),
// so it can answer introspection as well as the types in input.
func FromString(input string) (Schema, error) {
	if input == "" {
		return nil, gqlerror.Errorf("No schema specified")
	}

	// validator.Prelude includes a bunch of predefined types which help with schema introspection
	// queries, hence we include it as part of the schema.
	doc, gqlErr := parser.ParseSchemas(validator.Prelude, &ast.Source{Input: input})
	if gqlErr != nil {
		return nil, gqlErr
	}

	sch, gqlErr := validator.ValidateSchemaDocument(doc)
	if gqlErr != nil {
		return nil, gqlErr
	}
	if sch.Query == nil {
		return nil, gqlerror.Errorf("Schema must define a Query type")
	}

	return AsSchema(sch), nil
}

// MustFromString is FromString for schemas known to be valid.  It panics on
// error.
func MustFromString(input string) Schema {
	sch, err := FromString(input)
	if err != nil {
		panic(err)
	}
	return sch
}
