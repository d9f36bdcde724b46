package profile

import (
	"context"
	"strconv"
)

// StubRepo is an in-memory Repo for tests.
type StubRepo struct {
	profiles map[string]Profile
	nextID   int

	// FailLookups and FailCreates force the corresponding operations to
	// return the given error, simulating an unreachable remote store.
	FailLookups error
	FailCreates error

	CreateCalls int
	LookupCalls int
}

func NewStubRepo() *StubRepo {
	return &StubRepo{profiles: map[string]Profile{}}
}

// Seed stores a profile directly, bypassing failure flags.
func (s *StubRepo) Seed(p Profile) Profile {
	if p.ID == "" {
		s.nextID++
		p.ID = "profile-" + strconv.Itoa(s.nextID)
	}
	s.profiles[p.ID] = p
	return p
}

func (s *StubRepo) FindByPhone(_ context.Context, phone string) (Profile, error) {
	s.LookupCalls++
	if s.FailLookups != nil {
		return Profile{}, s.FailLookups
	}
	for _, p := range s.profiles {
		if p.Phone == phone {
			return p, nil
		}
	}
	return Profile{}, ErrProfileNotFound
}

func (s *StubRepo) FindByID(_ context.Context, id string) (Profile, error) {
	s.LookupCalls++
	if s.FailLookups != nil {
		return Profile{}, s.FailLookups
	}
	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (s *StubRepo) Create(_ context.Context, p Profile) (Profile, error) {
	s.CreateCalls++
	if s.FailCreates != nil {
		return Profile{}, s.FailCreates
	}
	return s.Seed(p), nil
}

func (s *StubRepo) Update(_ context.Context, id string, p Profile) (Profile, error) {
	if s.FailCreates != nil {
		return Profile{}, s.FailCreates
	}
	existing, ok := s.profiles[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	p.ID = existing.ID
	p.Phone = existing.Phone
	s.profiles[id] = p
	return p, nil
}
