/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package people

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	require.Len(t, seed, 3)

	for _, p := range seed {
		require.NotEmpty(t, p.Name)
		require.NotEmpty(t, p.ID)
		require.Equal(t, "123 Main St, Anytown", p.Address().Complete)
	}
	require.Nil(t, seed[2].Phone)
	require.Equal(t, "johnsmith", *seed[2].Email)
}

func TestLoadSeedFile(t *testing.T) {
	seed, err := LoadSeed("testdata/seed.yaml")
	require.NoError(t, err)
	require.Len(t, seed, 3)

	require.Equal(t, "020-7946-0000", *seed[0].Phone)
	require.Equal(t, "ada", seed[0].ID)

	require.Nil(t, seed[1].Phone)
	require.Nil(t, seed[1].Email)
	require.Empty(t, seed[1].ID)

	require.NotNil(t, seed[2].Phone)
	require.Empty(t, *seed[2].Phone)

	s, err := NewStore(seed)
	require.NoError(t, err)
	babbage, ok := s.FindByName("Charles Babbage")
	require.True(t, ok)
	require.NotEmpty(t, babbage.ID)
}

func TestLoadSeedDefaultsAndErrors(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)
	require.Equal(t, DefaultSeed(), seed)

	_, err = LoadSeed("testdata/does-not-exist.yaml")
	require.Error(t, err)

	_, err = ParseSeed([]byte("name: not a list"))
	require.Error(t, err)
}

func TestParseSeedJSON(t *testing.T) {
	seed, err := ParseSeed([]byte(`[{"name": "J", "street": "s", "city": "c", "phone": null}]`))
	require.NoError(t, err)
	require.Len(t, seed, 1)
	require.Equal(t, "J", seed[0].Name)
	require.Nil(t, seed[0].Phone)
}
