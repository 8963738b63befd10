/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"
	"time"

	otrace "go.opencensus.io/trace"

	"github.com/hypermodeinc/phonebook/graphql/schema"
	"github.com/hypermodeinc/phonebook/x"
)

// A QueryResolver can resolve a single query.
type QueryResolver interface {
	Resolve(ctx context.Context, query schema.Query) *Resolved
}

// A QueryExecutor finds the value of a single query field.  The value must be
// shaped the way completion expects: scalars, lists, or maps keyed by the
// response names of query's selection set.
type QueryExecutor interface {
	Execute(ctx context.Context, query schema.Query) (interface{}, error)
}

// QueryResolverFunc is an adapter that allows to build a QueryResolver from
// a function.  Based on the http.HandlerFunc pattern.
type QueryResolverFunc func(ctx context.Context, query schema.Query) *Resolved

// Resolve calls qr(ctx, query)
func (qr QueryResolverFunc) Resolve(ctx context.Context, query schema.Query) *Resolved {
	return qr(ctx, query)
}

// QueryExecutorFunc is an adapter that allows to build a QueryExecutor from
// a function.
type QueryExecutorFunc func(ctx context.Context, query schema.Query) (interface{}, error)

// Execute calls qe(ctx, query)
func (qe QueryExecutorFunc) Execute(ctx context.Context, query schema.Query) (interface{}, error) {
	return qe(ctx, query)
}

// NewQueryResolver creates a new query resolver that runs ex and records the
// outcome.  An error from ex nulls the query's value.
func NewQueryResolver(ex QueryExecutor) QueryResolver {
	return &queryResolver{executor: ex}
}

// a queryResolver can resolve a single GraphQL query field.
type queryResolver struct {
	executor QueryExecutor
}

func (qr *queryResolver) Resolve(ctx context.Context, query schema.Query) *Resolved {
	span := otrace.FromContext(ctx)
	stop := x.SpanTimer(span, "resolveQuery")
	defer stop()

	ctx = x.WithMethod(ctx, query.Name())
	start := time.Now()
	val, err := qr.executor.Execute(ctx, query)
	requestTimer(ctx, start, err)
	x.RecordWithStatus(ctx, err, x.NumQueries.M(1))

	if err != nil {
		return EmptyResult(query, err)
	}
	return DataResult(query, val, nil)
}

func resolveIntrospection(ctx context.Context, q schema.Query) *Resolved {
	data, err := schema.Introspect(q)
	if err != nil {
		return EmptyResult(q, err)
	}
	return &Resolved{
		Data:  data,
		Field: q,
	}
}

func resolveTypename(ctx context.Context, q schema.Query) *Resolved {
	return DataResult(q, q.GetObjectName(), nil)
}
