/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/phonebook/graphql/phonebook"
	"github.com/hypermodeinc/phonebook/people"
)

type emptyDirectory struct{}

func (emptyDirectory) List(ctx context.Context,
	selector *people.PhoneSelector) ([]people.Person, error) {
	return nil, nil
}

type gqlResponse struct {
	Errors     []map[string]interface{} `json:"errors"`
	Data       json.RawMessage          `json:"data"`
	Extensions map[string]interface{}   `json:"extensions"`
}

func newTestServer(t *testing.T) *httptest.Server {
	store, err := people.NewStore(people.DefaultSeed())
	require.NoError(t, err)
	resolver, err := phonebook.NewRequestResolver(store, emptyDirectory{}, phonebook.Options{})
	require.NoError(t, err)

	srv := httptest.NewServer(NewServeMux(NewServer(resolver), nil))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, r io.Reader) gqlResponse {
	var resp gqlResponse
	require.NoError(t, json.NewDecoder(r).Decode(&resp))
	return resp
}

func do(t *testing.T, req *http.Request) (*http.Response, gqlResponse) {
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp, decode(t, resp.Body)
}

func TestGetQuery(t *testing.T) {
	srv := newTestServer(t)

	params := url.Values{}
	params.Set("query", `query count($n: String!) { personCount getPersonByName(name: $n) { name } }`)
	params.Set("variables", `{"n": "Jane Doe"}`)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/graphql?"+params.Encode(), nil)
	require.NoError(t, err)

	resp, gqlResp := do(t, req)

	require.Nil(t, gqlResp.Errors)
	require.JSONEq(t, `{"personCount": 3, "getPersonByName": {"name": "Jane Doe"}}`,
		string(gqlResp.Data))
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestGetMutationIsRejected(t *testing.T) {
	srv := newTestServer(t)

	params := url.Values{}
	params.Set("query", `mutation { editPhone(name: "Jane Doe", phone: "1") { name } }`)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/graphql?"+params.Encode(), nil)
	require.NoError(t, err)

	_, gqlResp := do(t, req)

	require.Nil(t, gqlResp.Data)
	require.Len(t, gqlResp.Errors, 1)
	require.Contains(t, gqlResp.Errors[0]["message"], "Mutations are not allowed over GET")
}

func TestPostJSON(t *testing.T) {
	srv := newTestServer(t)

	body := `{"query": "mutation add($name: String!) { addPerson(name: $name, street: \"s\", city: \"c\") { name address { complete } } }",
		"variables": {"name": "Alice"}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/graphql", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	_, gqlResp := do(t, req)

	require.Nil(t, gqlResp.Errors)
	require.JSONEq(t, `{"addPerson": {"name": "Alice", "address": {"complete": "s, c"}}}`,
		string(gqlResp.Data))
}

func TestPostGraphQL(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/graphql",
		strings.NewReader(`{ personCount }`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/graphql")

	_, gqlResp := do(t, req)

	require.Nil(t, gqlResp.Errors)
	require.JSONEq(t, `{"personCount": 3}`, string(gqlResp.Data))
}

func TestGzipRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"query": "{ personCount }"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/graphql", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	gqlResp := decode(t, zr)

	require.Nil(t, gqlResp.Errors)
	require.JSONEq(t, `{"personCount": 3}`, string(gqlResp.Data))
}

func TestBadContentType(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/graphql",
		strings.NewReader(`query=%7B+personCount+%7D`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, gqlResp := do(t, req)

	require.Nil(t, gqlResp.Data)
	require.Len(t, gqlResp.Errors, 1)
	require.Contains(t, gqlResp.Errors[0]["message"], "Unrecognised Content-Type")
}

func TestUnsupportedMethod(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/graphql", strings.NewReader(`{}`))
	require.NoError(t, err)

	_, gqlResp := do(t, req)

	require.Nil(t, gqlResp.Data)
	require.Contains(t, gqlResp.Errors[0]["message"], "Unrecognised request method")
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/graphql?query=%7B+personCount+%7D", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")

	resp, gqlResp := do(t, req)
	require.Equal(t, "req-42", resp.Header.Get("X-Request-Id"))
	require.Equal(t, "req-42", gqlResp.Extensions["requestID"])

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/graphql?query=%7B+personCount+%7D", nil)
	require.NoError(t, err)

	resp, gqlResp = do(t, req)
	_, err = uuid.Parse(resp.Header.Get("X-Request-Id"))
	require.NoError(t, err)
	require.Equal(t, resp.Header.Get("X-Request-Id"), gqlResp.Extensions["requestID"])
}

func TestOptionsPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/graphql", nil)
	require.NoError(t, err)

	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Equal(t, "healthy", info["status"])
	require.Equal(t, "dev", info["version"])
	require.Contains(t, info, "uptime")
}
