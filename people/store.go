/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package people

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store is the in-memory, insertion ordered list of people.  Records are only
// ever appended, and the phone is the only field that changes afterwards.
// Lookups scan linearly and the first record with an equal name wins.
//
// Every method returns copies, never the stored records themselves.
type Store struct {
	sync.RWMutex
	people []Person
}

// NewStore returns a Store holding seed, in order.  Seed records without an
// id get a fresh one; a seed record without a name is an error.
func NewStore(seed []Person) (*Store, error) {
	s := &Store{people: make([]Person, 0, len(seed))}
	for i, p := range seed {
		if p.Name == "" {
			return nil, errors.Errorf("seed record %d has no name", i)
		}
		p = p.clone()
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.people = append(s.people, p)
	}
	return s, nil
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.people)
}

// FindByName returns the first record named name.
func (s *Store) FindByName(name string) (Person, bool) {
	s.RLock()
	defer s.RUnlock()
	if i := s.indexOf(name); i >= 0 {
		return s.people[i].clone(), true
	}
	return Person{}, false
}

// Append stores p under a fresh id and returns the stored record.  It does not
// check that the name is free; see Add for that.  A person without a name is
// refused with ErrNoName.
func (s *Store) Append(p Person) (Person, error) {
	if p.Name == "" {
		return Person{}, ErrNoName
	}
	s.Lock()
	defer s.Unlock()
	return s.appendLocked(p), nil
}

// Add appends p unless a record with the same name exists, in which case it
// returns a ValidationConflict and leaves the store as it was.  A person
// without a name is refused with ErrNoName.
func (s *Store) Add(p Person) (Person, error) {
	if p.Name == "" {
		return Person{}, ErrNoName
	}
	s.Lock()
	defer s.Unlock()
	if s.indexOf(p.Name) >= 0 {
		return Person{}, errConflict(p.Name)
	}
	return s.appendLocked(p), nil
}

// UpdatePhone sets the phone of the first record named name and returns the
// updated record.  It returns a NotFound if there is no such record.
func (s *Store) UpdatePhone(name, phone string) (Person, error) {
	s.Lock()
	defer s.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return Person{}, errNotFound(name)
	}
	s.people[i].Phone = Ptr(phone)
	return s.people[i].clone(), nil
}

// All returns a snapshot of every record, in insertion order.
func (s *Store) All() []Person {
	s.RLock()
	defer s.RUnlock()
	out := make([]Person, len(s.people))
	for i, p := range s.people {
		out[i] = p.clone()
	}
	return out
}

func (s *Store) appendLocked(p Person) Person {
	p = p.clone()
	p.ID = uuid.NewString()
	s.people = append(s.people, p)
	return p.clone()
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(name string) int {
	for i := range s.people {
		if s.people[i].Name == name {
			return i
		}
	}
	return -1
}
