/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package phonebook

import (
	"github.com/pkg/errors"

	"github.com/hypermodeinc/phonebook/graphql/schema"
	"github.com/hypermodeinc/phonebook/people"
	"github.com/hypermodeinc/phonebook/x"
)

const (
	errPersonExists      = "Person already exists."
	errPersonNotFound    = "Person does not exists."
	errUpstreamReachable = "Unable to reach the people directory"
	errPersonNoName      = "Person must have a name."
)

// asGqlError turns an error from the people package into the GraphQL error
// clients see for field f.  User errors echo the offending name back in
// invalidArgs; upstream causes were logged where they happened and aren't
// echoed.
func asGqlError(f schema.Field, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, people.ErrNoName) {
		return x.GqlErrorf(errPersonNoName).
			WithExtension("code", x.ErrorCodeBadUserInput).
			WithExtension("invalidArgs", "name").
			WithLocations(f.Location()).
			WithPath([]interface{}{f.ResponseName()})
	}

	var pe *people.Error
	if !errors.As(err, &pe) {
		return err
	}

	var gqlErr *x.GqlError
	switch pe.Kind {
	case people.ValidationConflict:
		gqlErr = x.GqlErrorf(errPersonExists).
			WithExtension("code", x.ErrorCodeBadUserInput).
			WithExtension("invalidArgs", pe.Name)
	case people.NotFound:
		gqlErr = x.GqlErrorf(errPersonNotFound).
			WithExtension("code", x.ErrorCodeBadUserInput).
			WithExtension("invalidArgs", pe.Name)
	case people.UpstreamUnavailable:
		gqlErr = x.GqlErrorf(errUpstreamReachable).
			WithExtension("code", x.ErrorCodeInternalServer)
	default:
		return err
	}
	return gqlErr.
		WithLocations(f.Location()).
		WithPath([]interface{}{f.ResponseName()})
}
