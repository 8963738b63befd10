/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package people

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the records a store starts with when no seed file is
// given.
func DefaultSeed() []Person {
	return []Person{
		{
			Name:   "John Doe",
			Phone:  Ptr("555-555-5555"),
			Email:  Ptr("johndoe@example.com"),
			Street: "123 Main St",
			City:   "Anytown",
			ID:     "3d3d51cc-6d5c-4d10-8d32-2b193d485819",
		},
		{
			Name:   "Jane Doe",
			Phone:  Ptr("555-555-5555"),
			Email:  Ptr("janedoe@example.com"),
			Street: "123 Main St",
			City:   "Anytown",
			ID:     "3d3d51cc-6d5c-4d10-8d32-2b193d485820",
		},
		{
			Name:   "John Smith",
			Email:  Ptr("johnsmith"),
			Street: "123 Main St",
			City:   "Anytown",
			ID:     "3d3d51cc-6d5c-4d10-8d32-2b193d485821",
		},
	}
}

// ParseSeed decodes a list of people from YAML (or JSON, which is YAML).
func ParseSeed(data []byte) ([]Person, error) {
	var seed []Person
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.Wrap(err, "while parsing seed")
	}
	return seed, nil
}

// LoadSeed reads the seed file at path.  An empty path means DefaultSeed.
func LoadSeed(path string) ([]Person, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading seed file %s", path)
	}
	seed, err := ParseSeed(data)
	return seed, errors.Wrapf(err, "in seed file %s", path)
}
