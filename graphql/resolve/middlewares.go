/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"

	"github.com/golang/glog"

	"github.com/hypermodeinc/phonebook/graphql/api"
	"github.com/hypermodeinc/phonebook/graphql/schema"
	"github.com/hypermodeinc/phonebook/x"
)

// QueryMiddleware represents a middleware for queries
type QueryMiddleware func(resolver QueryResolver) QueryResolver

// MutationMiddleware represents a middleware for mutations
type MutationMiddleware func(resolver MutationResolver) MutationResolver

// QueryMiddlewares represents a list of middlewares for queries, that get applied in the order
// they are present in the list.
// Inspired from: https://github.com/justinas/alice
type QueryMiddlewares []QueryMiddleware

// MutationMiddlewares represents a list of middlewares for mutations, that get applied in the order
// they are present in the list.
// Inspired from: https://github.com/justinas/alice
type MutationMiddlewares []MutationMiddleware

// Then chains the middlewares and returns the final QueryResolver.
//
//	QueryMiddlewares{m1, m2, m3}.Then(r)
//
// is equivalent to:
//
//	m1(m2(m3(r)))
//
// When the request comes in, it will be passed to m1, then m2, then m3
// and finally, the given resolverFunc
// (assuming every middleware calls the following one).
//
// A chain can be safely reused by calling Then() several times.
//
//	commonMiddlewares := QueryMiddlewares{m1, m2}
//	r1 = commonMiddlewares.Then(resolver1)
//	r2 = commonMiddlewares.Then(resolver2)
//
// Note that middlewares are called on every call to Then()
// and thus several instances of the same middleware will be created
// when a chain is reused in this way.
// For proper middleware, this should cause no problems.
//
// Then() treats nil as a QueryResolverFunc that resolves to &Resolved{Field: query}
func (mws QueryMiddlewares) Then(resolver QueryResolver) QueryResolver {
	if len(mws) == 0 {
		return resolver
	}
	if resolver == nil {
		resolver = QueryResolverFunc(func(ctx context.Context, query schema.Query) *Resolved {
			return &Resolved{Field: query}
		})
	}
	for i := len(mws) - 1; i >= 0; i-- {
		resolver = mws[i](resolver)
	}
	return resolver
}

// Then chains the middlewares and returns the final MutationResolver.
//
//	MutationMiddlewares{m1, m2, m3}.Then(r)
//
// is equivalent to:
//
//	m1(m2(m3(r)))
//
// See QueryMiddlewares.Then for how a chain behaves when reused.
//
// Then() treats nil as a MutationResolverFunc that resolves to
// (&Resolved{Field: mutation}, true)
func (mws MutationMiddlewares) Then(resolver MutationResolver) MutationResolver {
	if len(mws) == 0 {
		return resolver
	}
	if resolver == nil {
		resolver = MutationResolverFunc(func(ctx context.Context,
			mutation schema.Mutation) (*Resolved, bool) {
			return &Resolved{Field: mutation}, true
		})
	}
	for i := len(mws) - 1; i >= 0; i-- {
		resolver = mws[i](resolver)
	}
	return resolver
}

// LoggingMWQuery logs the query resolution events
func LoggingMWQuery(resolver QueryResolver) QueryResolver {
	return QueryResolverFunc(func(ctx context.Context, query schema.Query) *Resolved {
		glog.V(2).Infof("GraphQL query. Name = %v, Request = %s",
			query.Name(), api.RequestID(ctx))
		return resolver.Resolve(ctx, query)
	})
}

// LoggingMWMutation logs the mutation resolution events
func LoggingMWMutation(resolver MutationResolver) MutationResolver {
	return MutationResolverFunc(func(ctx context.Context,
		mutation schema.Mutation) (*Resolved, bool) {
		glog.V(2).Infof("GraphQL mutation. Name = %v, Request = %s",
			mutation.Name(), api.RequestID(ctx))
		return resolver.Resolve(ctx, mutation)
	})
}

// AuditMWMutation returns a middleware that writes one audit entry per
// mutation to logger, recording its arguments and whether it succeeded.
// A nil logger audits nothing.
func AuditMWMutation(logger *x.Logger) MutationMiddleware {
	return func(resolver MutationResolver) MutationResolver {
		return MutationResolverFunc(func(ctx context.Context,
			mutation schema.Mutation) (*Resolved, bool) {
			res, success := resolver.Resolve(ctx, mutation)

			args := []interface{}{
				"requestID", api.RequestID(ctx),
				"mutation", mutation.Name(),
				"arguments", mutation.Arguments(),
			}
			if success {
				logger.AuditI("mutation applied", args...)
			} else {
				if res != nil && res.Err != nil {
					args = append(args, "error", res.Err.Error())
				}
				logger.AuditE("mutation rejected", args...)
			}
			return res, success
		})
	}
}
