/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/phonebook/people"
)

func TestDecodeAddPerson(t *testing.T) {
	in, err := decodeAddPerson(map[string]interface{}{
		"name": "Alice", "street": "1 Elm St", "city": "Springfield",
	})
	require.NoError(t, err)
	require.Nil(t, in.Phone)
	require.Equal(t, people.Person{Name: "Alice", Street: "1 Elm St", City: "Springfield"},
		in.person())

	in, err = decodeAddPerson(map[string]interface{}{
		"name": "Alice", "phone": "", "street": "1 Elm St", "city": "Springfield",
	})
	require.NoError(t, err)
	require.Equal(t, people.Ptr(""), in.Phone)

	_, err = decodeAddPerson(map[string]interface{}{"name": "Alice", "city": "Springfield"})
	require.EqualError(t, err, "argument street is required")

	_, err = decodeAddPerson(map[string]interface{}{
		"name": map[string]interface{}{}, "street": "s", "city": "c",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "while reading argument name")
}

func TestDecodeEditPhone(t *testing.T) {
	in, err := decodeEditPhone(map[string]interface{}{"name": "Jane Doe", "phone": "1"})
	require.NoError(t, err)
	require.Equal(t, editPhoneInput{Name: "Jane Doe", Phone: "1"}, in)

	_, err = decodeEditPhone(map[string]interface{}{"name": "Jane Doe", "phone": nil})
	require.EqualError(t, err, "argument phone is required")
}

func TestDecodeAllPeople(t *testing.T) {
	tcases := []struct {
		name string
		args map[string]interface{}
		want *people.PhoneSelector
		err  string
	}{
		{name: "absent", args: map[string]interface{}{}},
		{name: "null", args: map[string]interface{}{"byPhone": nil}},
		{name: "yes", args: map[string]interface{}{"byPhone": "YES"}, want: selector(people.WithPhone)},
		{name: "no", args: map[string]interface{}{"byPhone": "NO"}, want: selector(people.WithoutPhone)},
		{name: "unknown", args: map[string]interface{}{"byPhone": "MAYBE"},
			err: `unknown byPhone value "MAYBE"`},
	}

	for _, tcase := range tcases {
		t.Run(tcase.name, func(t *testing.T) {
			in, err := decodeAllPeople(tcase.args)
			if tcase.err != "" {
				require.EqualError(t, err, tcase.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tcase.want, in.ByPhone)
		})
	}
}

func TestDecodeGetPersonByName(t *testing.T) {
	in, err := decodeGetPersonByName(map[string]interface{}{"name": "John Smith"})
	require.NoError(t, err)
	require.Equal(t, "John Smith", in.Name)

	_, err = decodeGetPersonByName(nil)
	require.EqualError(t, err, "argument name is required")
}

func selector(s people.PhoneSelector) *people.PhoneSelector {
	return &s
}
