/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/hypermodeinc/phonebook/people"
)

// Arguments arrive as the map gqlparser coerced them into.  Each operation
// decodes its map into one of these before touching the store, so resolvers
// never handle untyped values.

type getPersonByNameInput struct {
	Name string
}

type allPeopleInput struct {
	ByPhone *people.PhoneSelector
}

type addPersonInput struct {
	Name   string
	Phone  *string
	Street string
	City   string
}

type editPhoneInput struct {
	Name  string
	Phone string
}

func requiredString(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", errors.Errorf("argument %s is required", name)
	}
	s, err := cast.ToStringE(v)
	return s, errors.Wrapf(err, "while reading argument %s", name)
}

func optionalString(args map[string]interface{}, name string) (*string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading argument %s", name)
	}
	return &s, nil
}

func decodeGetPersonByName(args map[string]interface{}) (in getPersonByNameInput, err error) {
	in.Name, err = requiredString(args, "name")
	return in, err
}

func decodeAllPeople(args map[string]interface{}) (allPeopleInput, error) {
	var in allPeopleInput
	byPhone, err := optionalString(args, "byPhone")
	if err != nil || byPhone == nil {
		return in, err
	}
	selector := people.PhoneSelector(*byPhone)
	switch selector {
	case people.WithPhone, people.WithoutPhone:
	default:
		return in, errors.Errorf("unknown byPhone value %q", *byPhone)
	}
	in.ByPhone = &selector
	return in, nil
}

func decodeAddPerson(args map[string]interface{}) (in addPersonInput, err error) {
	if in.Name, err = requiredString(args, "name"); err != nil {
		return in, err
	}
	if in.Phone, err = optionalString(args, "phone"); err != nil {
		return in, err
	}
	if in.Street, err = requiredString(args, "street"); err != nil {
		return in, err
	}
	in.City, err = requiredString(args, "city")
	return in, err
}

func decodeEditPhone(args map[string]interface{}) (in editPhoneInput, err error) {
	if in.Name, err = requiredString(args, "name"); err != nil {
		return in, err
	}
	in.Phone, err = requiredString(args, "phone")
	return in, err
}

func (in addPersonInput) person() people.Person {
	return people.Person{
		Name:   in.Name,
		Phone:  in.Phone,
		Street: in.Street,
		City:   in.City,
	}
}
