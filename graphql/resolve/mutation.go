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

// Mutations come in like this with variables:
//
// mutation themutation($name: String!, $phone: String!) {
//   editPhone(name: $name, phone: $phone) { ... some query ...}
// }
// - with variable payload
// { "name": "Arto Hellas", "phone": "040-123456" }
//
// Each mutation field runs against the phonebook store, and its result is
// completed with the mutation's selection set like any other field.

// A MutationResolver can resolve a single mutation.  The bool it returns
// reports whether the mutation succeeded; later mutations in the same request
// are not run after one fails.
type MutationResolver interface {
	Resolve(ctx context.Context, mutation schema.Mutation) (*Resolved, bool)
}

// A MutationExecutor applies a single mutation and returns the mutated value,
// shaped as QueryExecutor values are.
type MutationExecutor interface {
	Execute(ctx context.Context, mutation schema.Mutation) (interface{}, error)
}

// MutationResolverFunc is an adapter that allows to build a MutationResolver from
// a function.  Based on the http.HandlerFunc pattern.
type MutationResolverFunc func(ctx context.Context, m schema.Mutation) (*Resolved, bool)

// Resolve calls mr(ctx, mutation)
func (mr MutationResolverFunc) Resolve(ctx context.Context, m schema.Mutation) (*Resolved, bool) {
	return mr(ctx, m)
}

// MutationExecutorFunc is an adapter that allows to build a MutationExecutor
// from a function.
type MutationExecutorFunc func(ctx context.Context, m schema.Mutation) (interface{}, error)

// Execute calls me(ctx, m)
func (me MutationExecutorFunc) Execute(ctx context.Context, m schema.Mutation) (interface{}, error) {
	return me(ctx, m)
}

// NewMutationResolver creates a new mutation resolver that runs ex.  A mutation
// fails, and stops the rest of the request, when ex returns an error.
func NewMutationResolver(ex MutationExecutor) MutationResolver {
	return &mutationResolver{executor: ex}
}

type mutationResolver struct {
	executor MutationExecutor
}

func (mr *mutationResolver) Resolve(ctx context.Context, m schema.Mutation) (*Resolved, bool) {
	span := otrace.FromContext(ctx)
	stop := x.SpanTimer(span, "resolveMutation")
	defer stop()

	ctx = x.WithMethod(ctx, m.Name())
	start := time.Now()
	val, err := mr.executor.Execute(ctx, m)
	requestTimer(ctx, start, err)
	x.RecordWithStatus(ctx, err, x.NumMutations.M(1))

	if err != nil {
		return EmptyResult(m, err), resolverFailed
	}
	return DataResult(m, val, nil), resolverSucceeded
}
