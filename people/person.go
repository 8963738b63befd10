/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package people holds the phonebook's Person records: the in-memory store
// they live in, the seed they start from and the external directory that
// lists them.
package people

// Person is one phonebook entry.  Phone and Email are optional; nil means the
// field is absent, while a non-nil empty string is present but empty.
type Person struct {
	Name   string  `json:"name" yaml:"name"`
	Phone  *string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email  *string `json:"email,omitempty" yaml:"email,omitempty"`
	Street string  `json:"street" yaml:"street"`
	City   string  `json:"city" yaml:"city"`
	ID     string  `json:"id" yaml:"id"`
}

// Address is derived from a Person's street and city; it is never stored.
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Complete string `json:"complete"`
}

// DeriveAddress returns the address view of street and city.
func DeriveAddress(street, city string) Address {
	return Address{
		Street:   street,
		City:     city,
		Complete: street + ", " + city,
	}
}

// Address returns the derived address of p.
func (p Person) Address() Address {
	return DeriveAddress(p.Street, p.City)
}

// HasPhone reports whether p has a non-empty phone.
func (p Person) HasPhone() bool {
	return p.Phone != nil && *p.Phone != ""
}

// clone returns a copy of p that shares no memory with it.
func (p Person) clone() Person {
	c := p
	if p.Phone != nil {
		c.Phone = Ptr(*p.Phone)
	}
	if p.Email != nil {
		c.Email = Ptr(*p.Email)
	}
	return c
}

// Ptr returns a pointer to a copy of s.
func Ptr(s string) *string {
	return &s
}
