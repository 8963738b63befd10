/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package api

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPanicHandlerRecovers(t *testing.T) {
	var got error
	func() {
		defer PanicHandler(func(err error) { got = err }, "{ personCount }")
		panic("boom")
	}()
	require.Equal(t, ErrPanic, got)
}

func TestPanicHandlerNoPanic(t *testing.T) {
	called := false
	func() {
		defer PanicHandler(func(err error) { called = true }, "{ personCount }")
	}()
	require.False(t, called)
}

func TestNewRequestID(t *testing.T) {
	require.Equal(t, "abc", NewRequestID(" abc "))

	id := NewRequestID("")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, NewRequestID(""))
}

func TestRequestIDRoundTrip(t *testing.T) {
	require.Equal(t, "", RequestID(context.Background()))
	ctx := WithRequestID(context.Background(), "req-1")
	require.Equal(t, "req-1", RequestID(ctx))
}
