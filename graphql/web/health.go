/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package web

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"

	"github.com/hypermodeinc/phonebook/x"
)

type healthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  int64  `json:"uptime"`
}

// HealthHandler reports that the server is up, its version, and its uptime in
// seconds.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	x.AddCorsHeaders(w)
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	info := healthInfo{
		Status:  "healthy",
		Version: x.Version(),
		Uptime:  int64(x.Uptime().Seconds()),
	}
	if err := json.NewEncoder(w).Encode(info); err != nil {
		glog.Errorf("Error writing health response: %v", err)
	}
}

// NewServeMux routes the phonebook's http endpoints: GraphQL at /graphql,
// health at /health and, when metrics is non-nil, Prometheus metrics at
// /debug/prometheus_metrics.
func NewServeMux(gql IServeGraphQL, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/graphql", gql.HTTPHandler())
	mux.HandleFunc("/health", HealthHandler)
	if metrics != nil {
		mux.Handle("/debug/prometheus_metrics", metrics)
	}
	return mux
}
