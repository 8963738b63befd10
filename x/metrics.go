/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"context"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// Cumulative metrics.
	NumGraphQLRequests = stats.Int64("num_graphql_requests_total",
		"Total number of GraphQL requests", stats.UnitDimensionless)
	NumQueries = stats.Int64("num_queries_total",
		"Total number of query fields resolved", stats.UnitDimensionless)
	NumMutations = stats.Int64("num_mutations_total",
		"Total number of mutation fields resolved", stats.UnitDimensionless)
	NumUpstreamRequests = stats.Int64("upstream_requests_total",
		"Total number of requests to the people directory", stats.UnitDimensionless)
	LatencyMs = stats.Float64("latency_ms",
		"Latency of the various methods", stats.UnitMilliseconds)

	// Point-in-time metrics.
	PeopleRecords = stats.Int64("people_records",
		"Number of records in the people store", stats.UnitDimensionless)

	// Tag keys here
	KeyStatus, _ = tag.NewKey("status")
	KeyMethod, _ = tag.NewKey("method")

	// Tag values here
	TagValueStatusOK    = "ok"
	TagValueStatusError = "error"

	defaultLatencyMsDistribution = view.Distribution(
		0, 0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16,
		20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500,
		650, 800, 1000, 2000, 5000, 10000, 20000, 50000, 100000)

	allTagKeys = []tag.Key{
		KeyStatus, KeyMethod,
	}

	allViews = []*view.View{
		{
			Name:        LatencyMs.Name(),
			Measure:     LatencyMs,
			Description: LatencyMs.Description(),
			Aggregation: defaultLatencyMsDistribution,
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumGraphQLRequests.Name(),
			Measure:     NumGraphQLRequests,
			Description: NumGraphQLRequests.Description(),
			Aggregation: view.Count(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumQueries.Name(),
			Measure:     NumQueries,
			Description: NumQueries.Description(),
			Aggregation: view.Count(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumMutations.Name(),
			Measure:     NumMutations,
			Description: NumMutations.Description(),
			Aggregation: view.Count(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumUpstreamRequests.Name(),
			Measure:     NumUpstreamRequests,
			Description: NumUpstreamRequests.Description(),
			Aggregation: view.Count(),
			TagKeys:     allTagKeys,
		},

		// Last value aggregations
		{
			Name:        PeopleRecords.Name(),
			Measure:     PeopleRecords,
			Description: PeopleRecords.Description(),
			Aggregation: view.LastValue(),
			TagKeys:     allTagKeys,
		},
	}
)

// RegisterMetrics registers the phonebook views and returns a handler serving
// them, along with the Go runtime and process collectors, in the Prometheus
// exposition format.
func RegisterMetrics(namespace string) (http.Handler, error) {
	if err := view.Register(allViews...); err != nil {
		return nil, errors.Wrap(err, "while registering metric views")
	}

	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: namespace,
		Registry:  registry,
		OnError:   func(err error) { glog.Errorf("%v", err) },
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OpenCensus Prometheus exporter")
	}
	view.RegisterExporter(pe)
	return pe, nil
}

// WithMethod returns a new updated context with the tag KeyMethod set to the given value.
func WithMethod(parent context.Context, method string) context.Context {
	ctx, err := tag.New(parent, tag.Upsert(KeyMethod, method))
	Check(err)
	return ctx
}

// RecordWithStatus records ms with the status tag set to ok or error
// depending on err.
func RecordWithStatus(ctx context.Context, err error, ms ...stats.Measurement) {
	status := TagValueStatusOK
	if err != nil {
		status = TagValueStatusError
	}
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyStatus, status)}, ms...)
}

// SinceMs returns the time since startTime in milliseconds (as a float).
func SinceMs(startTime time.Time) float64 {
	return float64(time.Since(startTime)) / 1e6
}
