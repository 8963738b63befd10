/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package people

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the errors returned by this package.
type Kind int

const (
	// ValidationConflict means a person with the requested name already exists.
	ValidationConflict Kind = iota + 1
	// NotFound means no person has the requested name.
	NotFound
	// UpstreamUnavailable means the people directory could not be read.
	UpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case ValidationConflict:
		return "ValidationConflict"
	case NotFound:
		return "NotFound"
	case UpstreamUnavailable:
		return "UpstreamUnavailable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrNoName is returned when a person without a name would be stored.
var ErrNoName = errors.New("a person must have a name")

// Error is the error type returned by the Store and the Directory.  Name is
// the offending name for ValidationConflict and NotFound; Err is the cause of
// an UpstreamUnavailable.
type Error struct {
	Kind Kind
	Name string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ValidationConflict:
		return fmt.Sprintf("person %q already exists", e.Name)
	case NotFound:
		return fmt.Sprintf("person %q does not exist", e.Name)
	case UpstreamUnavailable:
		return fmt.Sprintf("people directory unavailable: %v", e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errConflict(name string) error {
	return &Error{Kind: ValidationConflict, Name: name}
}

func errNotFound(name string) error {
	return &Error{Kind: NotFound, Name: name}
}

func errUpstream(err error) error {
	return &Error{Kind: UpstreamUnavailable, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsConflict reports whether err is a ValidationConflict.
func IsConflict(err error) bool { return KindOf(err) == ValidationConflict }

// IsNotFound reports whether err is a NotFound.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsUpstreamUnavailable reports whether err is an UpstreamUnavailable.
func IsUpstreamUnavailable(err error) bool { return KindOf(err) == UpstreamUnavailable }
