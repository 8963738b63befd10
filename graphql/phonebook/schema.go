/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"github.com/hypermodeinc/phonebook/graphql/schema"
)

// SDL is the phonebook's GraphQL schema.  Field and argument names are the
// wire contract with existing clients.
const SDL = `
enum YesNo {
	YES
	NO
}

type Address {
	street: String!
	city: String!
	complete: String!
}

type Person {
	name: String!
	phone: String
	email: String
	address: Address!
	id: ID!
}

type Query {
	personCount: Int!
	allPeople(byPhone: YesNo): [Person!]!
	getPersonByName(name: String!): Person
}

type Mutation {
	addPerson(
		name: String!
		phone: String
		street: String!
		city: String!
	): Person
	editPhone(
		name: String!
		phone: String!
	): Person
}
`

// NewSchema returns the phonebook schema.
func NewSchema() (schema.Schema, error) {
	return schema.FromString(SDL)
}
