/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package api

import (
	"runtime/debug"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrPanic is the error a recovered panic is reported as.  The stack trace is
// only logged, never returned to the client.
var ErrPanic = errors.New("Internal Server Error - a panic was trapped.  " +
	"This indicates a bug in the phonebook server.  A stack trace was logged.")

// PanicHandler recovers from a panic in the goroutine resolving query, logs the
// stack trace and applies fn to ErrPanic.  It must be deferred.
func PanicHandler(fn func(error), query string) {
	if err := recover(); err != nil {
		glog.Errorf("panic: %s.\n query: %s\n trace: %s", err, query, string(debug.Stack()))
		fn(ErrPanic)
	}
}
