/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"sort"

	"github.com/dgraph-io/gqlgen/graphql/introspection"
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/pkg/errors"
)

// Introspect answers a __schema, __type or __typename query.  The result maps
// q's response name to the requested value, built only as deep as q's
// selection set asks for, so it can be completed like any other result.
func Introspect(q Query) (map[string]interface{}, error) {
	op, ok := q.Operation().(*operation)
	if !ok {
		return nil, errors.New("couldn't convert operation to internal type")
	}
	ec := introspectionContext{schema: op.inSchema.schema}

	var val interface{}
	switch q.QueryType() {
	case SchemaQuery:
		val = ec.schemaValue(q.SelectionSet(), introspection.WrapSchema(ec.schema))
	case TypeQuery:
		name, _ := q.ArgValue("name").(string)
		def := ec.schema.Types[name]
		if def == nil {
			break
		}
		val = ec.typeValue(q.SelectionSet(), introspection.WrapTypeFromDef(ec.schema, def))
	case TypenameQuery:
		val = q.GetObjectName()
	default:
		return nil, errors.Errorf("%s is not an introspection query", q.Name())
	}

	return map[string]interface{}{q.ResponseName(): val}, nil
}

type introspectionContext struct {
	schema *ast.Schema
}

func includeDeprecated(f Field) bool {
	include, _ := f.ArgValue("includeDeprecated").(bool)
	return include
}

func optionalString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func description(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (ec introspectionContext) schemaValue(fields []Field, obj *introspection.Schema) interface{} {
	if obj == nil {
		return nil
	}

	res := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		var val interface{}
		switch f.Name() {
		case Typename:
			val = "__Schema"
		case "types":
			types := obj.Types()
			sort.Slice(types, func(i, j int) bool {
				return *types[i].Name() < *types[j].Name()
			})
			val = ec.typeListValue(f.SelectionSet(), types)
		case "queryType":
			val = ec.typeValue(f.SelectionSet(), obj.QueryType())
		case "mutationType":
			val = ec.typeValue(f.SelectionSet(), obj.MutationType())
		case "subscriptionType":
			val = ec.typeValue(f.SelectionSet(), obj.SubscriptionType())
		case "directives":
			val = ec.directiveListValue(f.SelectionSet(), obj.Directives())
		}
		res[f.ResponseName()] = val
	}
	return res
}

func (ec introspectionContext) typeValue(fields []Field, obj *introspection.Type) interface{} {
	if obj == nil {
		return nil
	}

	res := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		var val interface{}
		switch f.Name() {
		case Typename:
			val = "__Type"
		case "kind":
			val = obj.Kind()
		case "name":
			val = optionalString(obj.Name())
		case "description":
			val = description(obj.Description())
		case "fields":
			val = ec.fieldListValue(f.SelectionSet(), obj.Fields(includeDeprecated(f)))
		case "interfaces":
			interfaces := obj.Interfaces()
			if interfaces == nil && obj.Kind() == "OBJECT" {
				interfaces = []introspection.Type{}
			}
			val = ec.typeListValue(f.SelectionSet(), interfaces)
		case "possibleTypes":
			val = ec.typeListValue(f.SelectionSet(), obj.PossibleTypes())
		case "enumValues":
			val = ec.enumValueListValue(f.SelectionSet(), obj.EnumValues(includeDeprecated(f)))
		case "inputFields":
			val = ec.inputValueListValue(f.SelectionSet(), obj.InputFields())
		case "ofType":
			val = ec.typeValue(f.SelectionSet(), obj.OfType())
		}
		res[f.ResponseName()] = val
	}
	return res
}

func (ec introspectionContext) typeListValue(fields []Field, objs []introspection.Type) interface{} {
	if objs == nil {
		return nil
	}
	res := make([]interface{}, 0, len(objs))
	for i := range objs {
		res = append(res, ec.typeValue(fields, &objs[i]))
	}
	return res
}

func (ec introspectionContext) fieldListValue(fields []Field, objs []introspection.Field) interface{} {
	if objs == nil {
		return nil
	}

	res := make([]interface{}, 0, len(objs))
	for i := range objs {
		obj := &objs[i]
		fld := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			var val interface{}
			switch f.Name() {
			case Typename:
				val = "__Field"
			case "name":
				val = obj.Name
			case "description":
				val = description(obj.Description)
			case "args":
				val = ec.inputValueListValue(f.SelectionSet(), obj.Args)
				if val == nil {
					val = []interface{}{}
				}
			case "type":
				val = ec.typeValue(f.SelectionSet(), obj.Type)
			case "isDeprecated":
				val = obj.IsDeprecated()
			case "deprecationReason":
				val = optionalString(obj.DeprecationReason())
			}
			fld[f.ResponseName()] = val
		}
		res = append(res, fld)
	}
	return res
}

func (ec introspectionContext) inputValueListValue(fields []Field,
	objs []introspection.InputValue) interface{} {
	if objs == nil {
		return nil
	}

	res := make([]interface{}, 0, len(objs))
	for i := range objs {
		obj := &objs[i]
		iv := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			var val interface{}
			switch f.Name() {
			case Typename:
				val = "__InputValue"
			case "name":
				val = obj.Name
			case "description":
				val = description(obj.Description)
			case "type":
				val = ec.typeValue(f.SelectionSet(), obj.Type)
			case "defaultValue":
				val = optionalString(obj.DefaultValue)
			}
			iv[f.ResponseName()] = val
		}
		res = append(res, iv)
	}
	return res
}

func (ec introspectionContext) enumValueListValue(fields []Field,
	objs []introspection.EnumValue) interface{} {
	if objs == nil {
		return nil
	}

	res := make([]interface{}, 0, len(objs))
	for i := range objs {
		obj := &objs[i]
		ev := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			var val interface{}
			switch f.Name() {
			case Typename:
				val = "__EnumValue"
			case "name":
				val = obj.Name
			case "description":
				val = description(obj.Description)
			case "isDeprecated":
				val = obj.IsDeprecated()
			case "deprecationReason":
				val = optionalString(obj.DeprecationReason())
			}
			ev[f.ResponseName()] = val
		}
		res = append(res, ev)
	}
	return res
}

func (ec introspectionContext) directiveListValue(fields []Field,
	objs []introspection.Directive) interface{} {
	if objs == nil {
		return []interface{}{}
	}

	res := make([]interface{}, 0, len(objs))
	for i := range objs {
		obj := &objs[i]
		dir := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			var val interface{}
			switch f.Name() {
			case Typename:
				val = "__Directive"
			case "name":
				val = obj.Name
			case "description":
				val = description(obj.Description)
			case "locations":
				locations := make([]interface{}, 0, len(obj.Locations))
				for _, loc := range obj.Locations {
					locations = append(locations, loc)
				}
				val = locations
			case "args":
				val = ec.inputValueListValue(f.SelectionSet(), obj.Args)
				if val == nil {
					val = []interface{}{}
				}
			}
			dir[f.ResponseName()] = val
		}
		res = append(res, dir)
	}
	return res
}
