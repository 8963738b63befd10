/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/hypermodeinc/phonebook/graphql/resolve"
	"github.com/hypermodeinc/phonebook/graphql/schema"
	"github.com/hypermodeinc/phonebook/people"
	"github.com/hypermodeinc/phonebook/x"
)

const upstreamPeople = `[
	{"name": "Arto Hellas", "phone": "040-123456", "street": "Tapiolankatu 5 A", "city": "Espoo", "id": "1"},
	{"name": "Matti Luukkainen", "phone": "", "street": "Malminkaari 10 A", "city": "Helsinki", "id": "2"},
	{"name": "Venla Ruuska", "street": "Nallemäentie 22 C", "city": "Helsinki", "id": "3"}
]`

type phonebook struct {
	resolver *resolve.RequestResolver
	store    *people.Store
	hits     *int32
}

func newPhonebook(t *testing.T, status int, body string, opts Options) *phonebook {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store, err := people.NewStore(people.DefaultSeed())
	require.NoError(t, err)

	resolver, err := NewRequestResolver(store,
		people.NewDirectory(srv.URL, srv.Client(), 0), opts)
	require.NoError(t, err)

	return &phonebook{resolver: resolver, store: store, hits: &hits}
}

func (pb *phonebook) do(t *testing.T, query string, vars map[string]interface{}) *schema.Response {
	return pb.resolver.Resolve(context.Background(),
		&schema.Request{Query: query, Variables: vars})
}

func data(t *testing.T, resp *schema.Response) map[string]interface{} {
	var d map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data.Bytes(), &d))
	return d
}

const addPerson = `mutation add($name: String!, $phone: String, $street: String!, $city: String!) {
	addPerson(name: $name, phone: $phone, street: $street, city: $city) {
		name
		phone
		email
		address { street city complete }
		id
	}
}`

func TestAddPersonScenario(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})

	resp := pb.do(t, `query { personCount }`, nil)
	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{"personCount": 3}`, resp.Data.String())

	resp = pb.do(t, addPerson, map[string]interface{}{
		"name": "Alice", "street": "1 A St", "city": "Town"})
	require.Nil(t, resp.Errors)
	added := data(t, resp)["addPerson"].(map[string]interface{})
	require.NotEmpty(t, added["id"])

	resp = pb.do(t, `query { personCount }`, nil)
	require.JSONEq(t, `{"personCount": 4}`, resp.Data.String())

	resp = pb.do(t, `query {
		getPersonByName(name: "Alice") {
			name phone email id
			address { street city complete }
		}
	}`, nil)
	require.Nil(t, resp.Errors)
	got := data(t, resp)["getPersonByName"].(map[string]interface{})
	require.Equal(t, added, got)
	require.Equal(t, "Alice", got["name"])
	require.Nil(t, got["phone"])
	require.Nil(t, got["email"])
	require.Equal(t, map[string]interface{}{
		"street": "1 A St", "city": "Town", "complete": "1 A St, Town"}, got["address"])
}

func TestAddPersonConflict(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})
	before := pb.store.All()

	resp := pb.do(t, addPerson, map[string]interface{}{
		"name": "John Doe", "phone": "1", "street": "1 A St", "city": "Town"})

	require.JSONEq(t, `{"addPerson": null}`, resp.Data.String())
	require.Equal(t, x.GqlErrorList{{
		Message:   "Person already exists.",
		Locations: []x.Location{{Line: 2, Column: 2}},
		Path:      []interface{}{"addPerson"},
		Extensions: map[string]interface{}{
			"code":        x.ErrorCodeBadUserInput,
			"invalidArgs": "John Doe",
		},
	}}, resp.Errors)
	if diff := cmp.Diff(before, pb.store.All()); diff != "" {
		t.Errorf("store changed (-before +after):\n%s", diff)
	}
}

func TestAddPersonNeedsName(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})
	before := pb.store.All()

	resp := pb.do(t, addPerson, map[string]interface{}{
		"name": "", "street": "1 A St", "city": "Town"})

	require.JSONEq(t, `{"addPerson": null}`, resp.Data.String())
	require.Equal(t, x.GqlErrorList{{
		Message:   "Person must have a name.",
		Locations: []x.Location{{Line: 2, Column: 2}},
		Path:      []interface{}{"addPerson"},
		Extensions: map[string]interface{}{
			"code":        x.ErrorCodeBadUserInput,
			"invalidArgs": "name",
		},
	}}, resp.Errors)
	require.Equal(t, before, pb.store.All())
}

func TestInvalidRequestsAreRejected(t *testing.T) {
	tcases := []struct {
		name  string
		query string
		err   string
	}{
		{
			name:  "unknown query",
			query: `query { nope }`,
			err:   `Cannot query field "nope" on type "Query".`,
		},
		{
			name:  "unknown field",
			query: `query { getPersonByName(name: "John Doe") { bogus } }`,
			err:   `Cannot query field "bogus" on type "Person".`,
		},
		{
			name:  "selection on a scalar",
			query: `query { personCount { name } }`,
			err:   `must not have a selection`,
		},
		{
			name:  "missing selection set",
			query: `query { getPersonByName(name: "John Doe") }`,
			err:   `must have a selection of subfields`,
		},
		{
			name:  "unknown argument",
			query: `mutation { addPerson(name: "Zed", street: "s", city: "c", extra: 1) { name } }`,
			err:   `Unknown argument "extra"`,
		},
		{
			name:  "argument of the wrong type",
			query: `query { getPersonByName(name: 12) { name } }`,
			err:   `found 12`,
		},
		{
			name:  "missing required argument",
			query: `mutation { editPhone(name: "Jane Doe") { name } }`,
			err:   `argument "phone" of type "String!" is required`,
		},
	}

	for _, tcase := range tcases {
		t.Run(tcase.name, func(t *testing.T) {
			pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})
			before := pb.store.All()

			resp := pb.do(t, tcase.query, nil)

			require.Equal(t, 0, resp.Data.Len())
			require.NotEmpty(t, resp.Errors)
			require.Contains(t, resp.Errors.Error(), tcase.err)
			require.Equal(t, before, pb.store.All())
			require.Equal(t, int32(0), atomic.LoadInt32(pb.hits))
		})
	}
}

func TestEditPhone(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})
	before, ok := pb.store.FindByName("John Smith")
	require.True(t, ok)

	resp := pb.do(t, `mutation { editPhone(name: "John Smith", phone: "040-1") { name phone id } }`, nil)

	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{"editPhone": {"name": "John Smith", "phone": "040-1",
		"id": "3d3d51cc-6d5c-4d10-8d32-2b193d485821"}}`, resp.Data.String())

	after, ok := pb.store.FindByName("John Smith")
	require.True(t, ok)
	before.Phone = people.Ptr("040-1")
	require.Equal(t, before, after)
}

func TestEditPhoneKeepsNames(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})

	resp := pb.do(t, `mutation { editPhone(name: "Jane Doe", phone: "1") { name } }`, nil)
	require.Nil(t, resp.Errors)

	var names []string
	for _, p := range pb.store.All() {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"John Doe", "Jane Doe", "John Smith"}, names)
}

func TestEditPhoneNotFound(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})
	before := pb.store.All()

	resp := pb.do(t, `mutation { editPhone(name: "Nobody", phone: "1") { name } }`, nil)

	require.JSONEq(t, `{"editPhone": null}`, resp.Data.String())
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "Person does not exists.", resp.Errors[0].Message)
	require.Equal(t, map[string]interface{}{
		"code":        x.ErrorCodeBadUserInput,
		"invalidArgs": "Nobody",
	}, resp.Errors[0].Extensions)
	require.Equal(t, before, pb.store.All())
}

func TestGetPersonByNameAbsentIsNull(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})

	resp := pb.do(t, `query { getPersonByName(name: "john doe") { name } }`, nil)

	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{"getPersonByName": null}`, resp.Data.String())
}

func TestAllPeople(t *testing.T) {
	tcases := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:  "everyone",
			query: `query { allPeople { name } }`,
			expected: `{"allPeople": [{"name": "Arto Hellas"}, {"name": "Matti Luukkainen"},
				{"name": "Venla Ruuska"}]}`,
		},
		{
			name:     "with phone",
			query:    `query { allPeople(byPhone: YES) { name phone } }`,
			expected: `{"allPeople": [{"name": "Arto Hellas", "phone": "040-123456"}]}`,
		},
		{
			name:     "without phone",
			query:    `query { allPeople(byPhone: NO) { name } }`,
			expected: `{"allPeople": [{"name": "Matti Luukkainen"}, {"name": "Venla Ruuska"}]}`,
		},
		{
			name:     "addresses are derived",
			query:    `query { allPeople(byPhone: YES) { address { complete } } }`,
			expected: `{"allPeople": [{"address": {"complete": "Tapiolankatu 5 A, Espoo"}}]}`,
		},
	}

	for _, tcase := range tcases {
		t.Run(tcase.name, func(t *testing.T) {
			pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})

			resp := pb.do(t, tcase.query, nil)

			require.Nil(t, resp.Errors)
			require.JSONEq(t, tcase.expected, resp.Data.String())
			require.Equal(t, int32(1), atomic.LoadInt32(pb.hits))
		})
	}
}

func TestAllPeopleUpstreamFailure(t *testing.T) {
	pb := newPhonebook(t, http.StatusInternalServerError, `oops`, Options{})

	resp := pb.do(t, `query { personCount allPeople { name } }`, nil)

	require.Equal(t, "null", resp.Data.String())
	require.Equal(t, x.GqlErrorList{{
		Message:    "Unable to reach the people directory",
		Locations:  []x.Location{{Line: 1, Column: 21}},
		Path:       []interface{}{"allPeople"},
		Extensions: map[string]interface{}{"code": x.ErrorCodeInternalServer},
	}}, resp.Errors)
	require.Equal(t, int32(1), atomic.LoadInt32(pb.hits))
}

func TestAllPeopleMissingID(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK,
		`[{"name": "No Id", "street": "1 St", "city": "A"}]`, Options{})

	resp := pb.do(t, `query { allPeople { name id } }`, nil)

	require.Equal(t, "null", resp.Data.String())
	require.Len(t, resp.Errors, 1)
	require.Equal(t, []interface{}{"allPeople", 0, "id"}, resp.Errors[0].Path)
}

func TestMutationsStopAfterFailure(t *testing.T) {
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{})

	resp := pb.do(t, `mutation {
	dup: addPerson(name: "John Doe", street: "s", city: "c") { name }
	zed: addPerson(name: "Zed", street: "s", city: "c") { name }
}`, nil)

	require.JSONEq(t, `{"dup": null}`, resp.Data.String())
	require.Len(t, resp.Errors, 2)
	require.Equal(t, "Person already exists.", resp.Errors[0].Message)
	require.Equal(t, "Mutation zed was not executed because of a previous error.",
		resp.Errors[1].Message)
	require.Equal(t, 3, pb.store.Count())
}

func TestIntrospection(t *testing.T) {
	query := `query {
		__schema { queryType { name } }
		__type(name: "YesNo") { enumValues { name } }
	}`

	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{Introspection: true})
	resp := pb.do(t, query, nil)
	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{
		"__schema": {"queryType": {"name": "Query"}},
		"__type": {"enumValues": [{"name": "YES"}, {"name": "NO"}]}
	}`, resp.Data.String())

	pb = newPhonebook(t, http.StatusOK, upstreamPeople, Options{})
	resp = pb.do(t, query, nil)
	require.Len(t, resp.Errors, 2)
	require.Equal(t, "Introspection is disabled on this server, __schema was not executed.",
		resp.Errors[0].Message)
}

func TestMutationsAreAudited(t *testing.T) {
	var buf bytes.Buffer
	logger := x.NewLogger(zapcore.AddSync(&buf))
	pb := newPhonebook(t, http.StatusOK, upstreamPeople, Options{Audit: logger})

	pb.do(t, `mutation { editPhone(name: "Jane Doe", phone: "1") { name } }`, nil)
	pb.do(t, `mutation { editPhone(name: "Nobody", phone: "1") { name } }`, nil)
	logger.Sync()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var applied, rejected map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &applied))
	require.NoError(t, json.Unmarshal(lines[1], &rejected))

	require.Equal(t, "mutation applied", applied["msg"])
	require.Equal(t, "editPhone", applied["mutation"])
	require.Equal(t, map[string]interface{}{"name": "Jane Doe", "phone": "1"}, applied["arguments"])
	require.Equal(t, "mutation rejected", rejected["msg"])
	require.Contains(t, rejected["error"], "Person does not exists.")
}
