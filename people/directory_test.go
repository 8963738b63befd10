/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package people

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const upstreamPeople = `[
	{"name": "Has Phone", "phone": "555", "street": "1 St", "city": "A", "id": "1"},
	{"name": "Empty Phone", "phone": "", "street": "2 St", "city": "B", "id": "2"},
	{"name": "No Phone", "street": "3 St", "city": "C", "id": 3},
	{"name": "Null Phone", "phone": null, "email": "n@example.com", "street": "4 St", "city": "D"}
]`

func directoryServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func names(people []Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.Name)
	}
	return out
}

func selector(s PhoneSelector) *PhoneSelector {
	return &s
}

func TestDirectoryListFilters(t *testing.T) {
	srv, _ := directoryServer(t, http.StatusOK, upstreamPeople)
	d := NewDirectory(srv.URL, srv.Client(), 0)

	tcases := []struct {
		name     string
		selector *PhoneSelector
		want     []string
	}{
		{"no selector", nil, []string{"Has Phone", "Empty Phone", "No Phone", "Null Phone"}},
		{"YES", selector(WithPhone), []string{"Has Phone"}},
		{"NO", selector(WithoutPhone), []string{"Empty Phone", "No Phone", "Null Phone"}},
	}

	for _, tcase := range tcases {
		t.Run(tcase.name, func(t *testing.T) {
			got, err := d.List(context.Background(), tcase.selector)
			require.NoError(t, err)
			require.Equal(t, tcase.want, names(got))
		})
	}
}

func TestDirectoryListKeepsRecordsUnmodified(t *testing.T) {
	srv, _ := directoryServer(t, http.StatusOK, upstreamPeople)
	got, err := NewDirectory(srv.URL, nil, 0).List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 4)

	require.Equal(t, Person{
		Name: "Has Phone", Phone: Ptr("555"), Street: "1 St", City: "A", ID: "1",
	}, got[0])
	require.Equal(t, "3", got[2].ID)
	require.Nil(t, got[2].Phone)
	require.Equal(t, "n@example.com", *got[3].Email)
	require.Empty(t, got[3].ID)
}

func TestDirectoryFailuresAreUpstreamUnavailable(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv, hits := directoryServer(t, http.StatusInternalServerError, `{"error": "boom"}`)
		_, err := NewDirectory(srv.URL, nil, 0).List(context.Background(), nil)
		require.True(t, IsUpstreamUnavailable(err))
		require.Equal(t, int32(1), atomic.LoadInt32(hits))
	})

	t.Run("bad body", func(t *testing.T) {
		srv, _ := directoryServer(t, http.StatusOK, `{"not": "a list"}`)
		_, err := NewDirectory(srv.URL, nil, 0).List(context.Background(), nil)
		require.True(t, IsUpstreamUnavailable(err))
	})

	t.Run("oversized body", func(t *testing.T) {
		limit := maxDirectoryBody
		maxDirectoryBody = 16
		defer func() { maxDirectoryBody = limit }()

		srv, _ := directoryServer(t, http.StatusOK,
			`[{"name": "Arto Hellas", "street": "s", "city": "c", "id": "1"}]`)
		_, err := NewDirectory(srv.URL, nil, 0).List(context.Background(), nil)
		require.True(t, IsUpstreamUnavailable(err))
		require.Contains(t, err.Error(), "larger than 16 bytes")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := NewDirectory(url, nil, 0).List(context.Background(), nil)
		require.True(t, IsUpstreamUnavailable(err))
		require.NotNil(t, (err.(*Error)).Unwrap())
	})

	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(block)

		_, err := NewDirectory(srv.URL, nil, 50*time.Millisecond).List(context.Background(), nil)
		require.True(t, IsUpstreamUnavailable(err))
	})
}

func TestFilterByPhoneUnknownSelector(t *testing.T) {
	_, err := filterByPhone(nil, PhoneSelector("MAYBE"))
	require.Error(t, err)
}
