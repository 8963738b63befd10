/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"github.com/hypermodeinc/phonebook/graphql/schema"
	"github.com/hypermodeinc/phonebook/people"
)

// personValue builds the result for a Person, keyed by the response names of
// fields.  Only what fields select is built; __typename is filled in during
// completion.
func personValue(fields []schema.Field, p people.Person) map[string]interface{} {
	res := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		var val interface{}
		switch f.Name() {
		case "name":
			val = p.Name
		case "phone":
			val = optional(p.Phone)
		case "email":
			val = optional(p.Email)
		case "id":
			// An upstream record without an id completes as a non-null
			// violation rather than an empty ID.
			if p.ID != "" {
				val = p.ID
			}
		case "address":
			val = addressValue(f.SelectionSet(), p.Address())
		default:
			continue
		}
		res[f.ResponseName()] = val
	}
	return res
}

func addressValue(fields []schema.Field, a people.Address) map[string]interface{} {
	res := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		switch f.Name() {
		case "street":
			res[f.ResponseName()] = a.Street
		case "city":
			res[f.ResponseName()] = a.City
		case "complete":
			res[f.ResponseName()] = a.Complete
		}
	}
	return res
}

func peopleValue(fields []schema.Field, ps []people.Person) []interface{} {
	res := make([]interface{}, 0, len(ps))
	for _, p := range ps {
		res = append(res, personValue(fields, p))
	}
	return res
}

func optional(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
