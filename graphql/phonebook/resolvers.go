/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"context"
	"strings"

	"go.opencensus.io/stats"

	"github.com/hypermodeinc/phonebook/graphql/resolve"
	"github.com/hypermodeinc/phonebook/graphql/schema"
	"github.com/hypermodeinc/phonebook/people"
	"github.com/hypermodeinc/phonebook/x"
)

const (
	errResolverNotFound = "%s was not executed because no suitable resolver could be found - " +
		"this indicates a resolver or validation bug."
	errIntrospectionOff = "Introspection is disabled on this server, %s was not executed."
)

// Store is the local record store the resolvers read and mutate.
// *people.Store implements it.
type Store interface {
	Count() int
	FindByName(name string) (people.Person, bool)
	Add(p people.Person) (people.Person, error)
	UpdatePhone(name, phone string) (people.Person, error)
}

// Directory lists people from the external directory.  *people.Directory
// implements it.
type Directory interface {
	List(ctx context.Context, selector *people.PhoneSelector) ([]people.Person, error)
}

// Options configure NewRequestResolver.
type Options struct {
	// Introspection enables __schema and __type queries.
	Introspection bool
	// Audit receives one entry per mutation.  nil disables auditing.
	Audit *x.Logger
}

type resolvers struct {
	store     Store
	directory Directory
}

// NewRequestResolver returns a resolver for phonebook GraphQL requests served
// from store and directory.
func NewRequestResolver(store Store, directory Directory,
	opts Options) (*resolve.RequestResolver, error) {
	sch, err := NewSchema()
	if err != nil {
		return nil, err
	}
	return resolve.New(sch, NewResolverFactory(store, directory, opts)), nil
}

// NewResolverFactory registers a resolver for every field of the phonebook's
// Query and Mutation types.
func NewResolverFactory(store Store, directory Directory, opts Options) resolve.ResolverFactory {
	r := &resolvers{store: store, directory: directory}

	queryMWs := resolve.QueryMiddlewares{resolve.LoggingMWQuery}
	mutationMWs := resolve.MutationMiddlewares{
		resolve.LoggingMWMutation,
		resolve.AuditMWMutation(opts.Audit),
	}

	rf := resolve.NewResolverFactory(queryError, mutationError).
		WithQueryResolver("personCount", func(q schema.Query) resolve.QueryResolver {
			return resolve.NewQueryResolver(resolve.QueryExecutorFunc(r.personCount))
		}).
		WithQueryResolver("allPeople", func(q schema.Query) resolve.QueryResolver {
			return resolve.NewQueryResolver(resolve.QueryExecutorFunc(r.allPeople))
		}).
		WithQueryResolver("getPersonByName", func(q schema.Query) resolve.QueryResolver {
			return resolve.NewQueryResolver(resolve.QueryExecutorFunc(r.getPersonByName))
		}).
		WithMutationResolver("addPerson", func(m schema.Mutation) resolve.MutationResolver {
			return resolve.NewMutationResolver(resolve.MutationExecutorFunc(r.addPerson))
		}).
		WithMutationResolver("editPhone", func(m schema.Mutation) resolve.MutationResolver {
			return resolve.NewMutationResolver(resolve.MutationExecutorFunc(r.editPhone))
		}).
		WithQueryMiddlewareConfig(map[string]resolve.QueryMiddlewares{
			"personCount":     queryMWs,
			"allPeople":       queryMWs,
			"getPersonByName": queryMWs,
		}).
		WithMutationMiddlewareConfig(map[string]resolve.MutationMiddlewares{
			"addPerson": mutationMWs,
			"editPhone": mutationMWs,
		})
	if opts.Introspection {
		rf = rf.WithSchemaIntrospection()
	}
	return rf
}

func queryError(ctx context.Context, q schema.Query) *resolve.Resolved {
	if strings.HasPrefix(q.Name(), "__") {
		return resolve.EmptyResult(q, x.GqlErrorf(errIntrospectionOff, q.Name()))
	}
	return resolve.EmptyResult(q, x.GqlErrorf(errResolverNotFound, q.Name()))
}

func mutationError(ctx context.Context, m schema.Mutation) (*resolve.Resolved, bool) {
	return resolve.EmptyResult(m, x.GqlErrorf(errResolverNotFound, m.Name())), false
}

func badArguments(f schema.Field, err error) error {
	return schema.GQLWrapLocationf(err, f.Location(), "couldn't read the arguments of %s", f.Name())
}

func (r *resolvers) personCount(ctx context.Context, q schema.Query) (interface{}, error) {
	return r.store.Count(), nil
}

func (r *resolvers) allPeople(ctx context.Context, q schema.Query) (interface{}, error) {
	in, err := decodeAllPeople(q.Arguments())
	if err != nil {
		return nil, badArguments(q, err)
	}
	ps, err := r.directory.List(ctx, in.ByPhone)
	if err != nil {
		return nil, asGqlError(q, err)
	}
	return peopleValue(q.SelectionSet(), ps), nil
}

func (r *resolvers) getPersonByName(ctx context.Context, q schema.Query) (interface{}, error) {
	in, err := decodeGetPersonByName(q.Arguments())
	if err != nil {
		return nil, badArguments(q, err)
	}
	p, ok := r.store.FindByName(in.Name)
	if !ok {
		return nil, nil
	}
	return personValue(q.SelectionSet(), p), nil
}

func (r *resolvers) addPerson(ctx context.Context, m schema.Mutation) (interface{}, error) {
	in, err := decodeAddPerson(m.Arguments())
	if err != nil {
		return nil, badArguments(m, err)
	}
	p, err := r.store.Add(in.person())
	if err != nil {
		return nil, asGqlError(m, err)
	}
	r.recordSize(ctx)
	return personValue(m.SelectionSet(), p), nil
}

func (r *resolvers) editPhone(ctx context.Context, m schema.Mutation) (interface{}, error) {
	in, err := decodeEditPhone(m.Arguments())
	if err != nil {
		return nil, badArguments(m, err)
	}
	p, err := r.store.UpdatePhone(in.Name, in.Phone)
	if err != nil {
		return nil, asGqlError(m, err)
	}
	return personValue(m.SelectionSet(), p), nil
}

func (r *resolvers) recordSize(ctx context.Context) {
	stats.Record(ctx, x.PeopleRecords.M(int64(r.store.Count())))
}

// RecordStoreSize sets the people_records gauge to the size of store.
func RecordStoreSize(ctx context.Context, store Store) {
	(&resolvers{store: store}).recordSize(ctx)
}
