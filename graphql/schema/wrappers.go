/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"

	"github.com/hypermodeinc/phonebook/x"
)

// Wrap the github.com/dgraph-io/gqlparser/v2/ast definitions so that the bulk of the GraphQL
// algorithm and interface is dependent on behaviours we expect from a GraphQL schema
// and validation, but not dependent the exact structure in the gqlparser.
//
// This also auto hooks up some bookkeeping that's otherwise no fun.  E.g. getting values for
// field arguments requires the variable map from the operation - so we'd need to carry vars
// through all the resolver functions.  Much nicer if they are resolved by magic here.

// QueryType is the kind of a top level query field.
type QueryType string

const (
	FieldQuery    QueryType = "field"
	SchemaQuery   QueryType = "schema"
	TypeQuery     QueryType = "type"
	TypenameQuery QueryType = "typename"

	Typename = "__typename"
)

// Schema represents a valid GraphQL schema
type Schema interface {
	Operation(r *Request) (Operation, error)
	Queries() []string
	Mutations() []string
}

// An Operation is a single valid GraphQL operation.  It contains either
// Queries or Mutations, but not both.  Subscriptions are not supported.
type Operation interface {
	Name() string
	Queries() []Query
	Mutations() []Mutation
	IsQuery() bool
	IsMutation() bool
	IsSubscription() bool
	Schema() Schema
}

// A Field is one field from an Operation.  Fields requested more than once
// under the same response name (directly or through fragments) are merged
// into a single Field.
type Field interface {
	Name() string
	Alias() string
	ResponseName() string
	ArgValue(name string) interface{}
	Arguments() map[string]interface{}
	Type() Type
	SelectionSet() []Field
	Location() x.Location
	Operation() Operation
	// GetObjectName returns the name of the type the field is defined on.
	GetObjectName() string
	// EnumValues returns the values of the field's type if it is an enum.
	EnumValues() []string
}

// A Mutation is a field (from the schema's Mutation type) from an Operation
type Mutation interface {
	Field
	MutatedType() Type
}

// A Query is a field (from the schema's Query type) from an Operation
type Query interface {
	Field
	QueryType() QueryType
}

// A Type is a GraphQL type like: Float, T, T! and [T!]!.  If it's not a list, then
// ListType is nil.
type Type interface {
	Name() string
	Nullable() bool
	ListType() Type
	String() string
}

type astType struct {
	typ      *ast.Type
	inSchema *ast.Schema
}

type schema struct {
	schema *ast.Schema
}

type operation struct {
	op       *ast.OperationDefinition
	vars     map[string]interface{}
	doc      *ast.QueryDocument
	inSchema *schema
}

type field struct {
	field *ast.Field
	// merged holds every occurrence of the field under its response name,
	// field itself included.
	merged    []*ast.Field
	op        *operation
	arguments map[string]interface{}
}
type mutation field
type query field

// AsSchema wraps a github.com/dgraph-io/gqlparser/v2/ast.Schema.
func AsSchema(s *ast.Schema) Schema {
	return &schema{schema: s}
}

func (s *schema) Queries() []string {
	return fieldNames(s.schema.Query)
}

func (s *schema) Mutations() []string {
	return fieldNames(s.schema.Mutation)
}

func fieldNames(def *ast.Definition) []string {
	if def == nil {
		return nil
	}
	var names []string
	for _, fld := range def.Fields {
		if strings.HasPrefix(fld.Name, "__") {
			continue
		}
		names = append(names, fld.Name)
	}
	return names
}

func (o *operation) Name() string {
	return o.op.Name
}

func (o *operation) IsQuery() bool {
	return o.op.Operation == ast.Query
}

func (o *operation) IsMutation() bool {
	return o.op.Operation == ast.Mutation
}

func (o *operation) IsSubscription() bool {
	return o.op.Operation == ast.Subscription
}

func (o *operation) Schema() Schema {
	return o.inSchema
}

func (o *operation) Queries() (qs []Query) {
	if !o.IsQuery() {
		return
	}

	for _, f := range o.collectFields(o.op.SelectionSet) {
		qs = append(qs, (*query)(f))
	}
	return
}

func (o *operation) Mutations() (ms []Mutation) {
	if !o.IsMutation() {
		return
	}

	for _, f := range o.collectFields(o.op.SelectionSet) {
		ms = append(ms, (*mutation)(f))
	}
	return
}

// collectFields flattens sets into the fields they select, in request order.
// Fields skipped by @skip or @include are left out, fragments are expanded and
// fields sharing a response name are merged.  Every type in the schema is an
// object type, so a fragment that passed validation always applies.
func (o *operation) collectFields(sets ...ast.SelectionSet) []*field {
	var order []string
	groups := make(map[string][]*ast.Field)
	visitedFragments := make(map[string]bool)

	var visit func(set ast.SelectionSet)
	visit = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if !o.included(sel.Directives) {
					continue
				}
				name := responseName(sel)
				if _, ok := groups[name]; !ok {
					order = append(order, name)
				}
				groups[name] = append(groups[name], sel)
			case *ast.InlineFragment:
				if !o.included(sel.Directives) {
					continue
				}
				visit(sel.SelectionSet)
			case *ast.FragmentSpread:
				if !o.included(sel.Directives) || visitedFragments[sel.Name] {
					continue
				}
				visitedFragments[sel.Name] = true
				def := sel.Definition
				if def == nil {
					def = o.doc.Fragments.ForName(sel.Name)
				}
				if def != nil {
					visit(def.SelectionSet)
				}
			}
		}
	}
	for _, set := range sets {
		visit(set)
	}

	fields := make([]*field, 0, len(order))
	for _, name := range order {
		occurrences := groups[name]
		fields = append(fields, &field{field: occurrences[0], merged: occurrences, op: o})
	}
	return fields
}

func (o *operation) included(dirs ast.DirectiveList) bool {
	if dir := dirs.ForName("skip"); dir != nil {
		if skip, _ := dir.ArgumentMap(o.vars)["if"].(bool); skip {
			return false
		}
	}
	if dir := dirs.ForName("include"); dir != nil {
		if include, _ := dir.ArgumentMap(o.vars)["if"].(bool); !include {
			return false
		}
	}
	return true
}

func responseName(f *ast.Field) string {
	if f.Alias == "" {
		return f.Name
	}
	return f.Alias
}

func (f *field) Name() string {
	return f.field.Name
}

func (f *field) Alias() string {
	return f.field.Alias
}

func (f *field) ResponseName() string {
	return responseName(f.field)
}

func (f *field) ArgValue(name string) interface{} {
	return f.Arguments()[name]
}

func (f *field) Arguments() map[string]interface{} {
	if f.arguments == nil {
		// Compute and cache the map first time this function is called for a field.
		f.arguments = f.field.ArgumentMap(f.op.vars)
	}
	return f.arguments
}

func (f *field) Type() Type {
	return &astType{
		typ:      f.field.Definition.Type,
		inSchema: f.op.inSchema.schema,
	}
}

func (f *field) SelectionSet() []Field {
	sets := make([]ast.SelectionSet, 0, len(f.merged))
	for _, occurrence := range f.merged {
		sets = append(sets, occurrence.SelectionSet)
	}

	collected := f.op.collectFields(sets...)
	flds := make([]Field, 0, len(collected))
	for _, fld := range collected {
		flds = append(flds, fld)
	}
	return flds
}

func (f *field) Location() x.Location {
	if f.field.Position == nil {
		return x.Location{}
	}
	return x.Location{
		Line:   f.field.Position.Line,
		Column: f.field.Position.Column}
}

func (f *field) Operation() Operation {
	return f.op
}

func (f *field) GetObjectName() string {
	if f.field.ObjectDefinition == nil {
		return ""
	}
	return f.field.ObjectDefinition.Name
}

func (f *field) EnumValues() []string {
	def := f.op.inSchema.schema.Types[f.field.Definition.Type.Name()]
	if def == nil || def.Kind != ast.Enum {
		return nil
	}
	values := make([]string, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		values = append(values, v.Name)
	}
	return values
}

func (q *query) Name() string {
	return (*field)(q).Name()
}

func (q *query) Alias() string {
	return (*field)(q).Alias()
}

func (q *query) ResponseName() string {
	return (*field)(q).ResponseName()
}

func (q *query) ArgValue(name string) interface{} {
	return (*field)(q).ArgValue(name)
}

func (q *query) Arguments() map[string]interface{} {
	return (*field)(q).Arguments()
}

func (q *query) Type() Type {
	return (*field)(q).Type()
}

func (q *query) SelectionSet() []Field {
	return (*field)(q).SelectionSet()
}

func (q *query) Location() x.Location {
	return (*field)(q).Location()
}

func (q *query) Operation() Operation {
	return (*field)(q).Operation()
}

func (q *query) GetObjectName() string {
	return (*field)(q).GetObjectName()
}

func (q *query) EnumValues() []string {
	return (*field)(q).EnumValues()
}

func (q *query) QueryType() QueryType {
	return queryType(q.Name())
}

func queryType(name string) QueryType {
	switch name {
	case "__schema":
		return SchemaQuery
	case "__type":
		return TypeQuery
	case Typename:
		return TypenameQuery
	default:
		return FieldQuery
	}
}

func (m *mutation) Name() string {
	return (*field)(m).Name()
}

func (m *mutation) Alias() string {
	return (*field)(m).Alias()
}

func (m *mutation) ResponseName() string {
	return (*field)(m).ResponseName()
}

func (m *mutation) ArgValue(name string) interface{} {
	return (*field)(m).ArgValue(name)
}

func (m *mutation) Arguments() map[string]interface{} {
	return (*field)(m).Arguments()
}

func (m *mutation) Type() Type {
	return (*field)(m).Type()
}

func (m *mutation) SelectionSet() []Field {
	return (*field)(m).SelectionSet()
}

func (m *mutation) Location() x.Location {
	return (*field)(m).Location()
}

func (m *mutation) Operation() Operation {
	return (*field)(m).Operation()
}

func (m *mutation) GetObjectName() string {
	return (*field)(m).GetObjectName()
}

func (m *mutation) EnumValues() []string {
	return (*field)(m).EnumValues()
}

// MutatedType returns the type a mutation returns, e.g. Person for
// addPerson(...): Person.
func (m *mutation) MutatedType() Type {
	return (*field)(m).Type()
}

func (t *astType) Name() string {
	return t.typ.Name()
}

func (t *astType) Nullable() bool {
	return !t.typ.NonNull
}

func (t *astType) ListType() Type {
	if t.typ.Elem == nil {
		return nil
	}
	return &astType{typ: t.typ.Elem, inSchema: t.inSchema}
}

func (t *astType) String() string {
	if t == nil {
		return ""
	}
	return t.typ.String()
}
