package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/finvoice/finvoice/pkg/profile"
	"github.com/finvoice/finvoice/pkg/session"
)

var (
	ErrMissingCredentials = errors.New("name and phone are required")
	ErrMissingPhone       = errors.New("phone is required")
)

type Service interface {
	Login(ctx context.Context, name, phone string) (session.Session, error)
	Logout(ctx context.Context)
	Foreground(ctx context.Context)
	GetProfile(ctx context.Context) (profile.Profile, error)
	LookupByPhone(ctx context.Context, phone string) (profile.Profile, error)
	UpdateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error)
}

// ServiceImpl is the user-facing surface over the session manager and the
// profile repository. Remote sessions read and write the profile table;
// local-only sessions only ever see the attributes cached at login, since
// they have no remote row.
type ServiceImpl struct {
	sessions *session.Manager
	profiles profile.Repo
}

func NewService(sessions *session.Manager, profiles profile.Repo) *ServiceImpl {
	return &ServiceImpl{sessions: sessions, profiles: profiles}
}

func (s *ServiceImpl) Login(ctx context.Context, name, phone string) (session.Session, error) {
	if name == "" || phone == "" {
		return session.Session{}, ErrMissingCredentials
	}
	return s.sessions.Login(ctx, name, phone)
}

func (s *ServiceImpl) Logout(ctx context.Context) {
	s.sessions.Logout()
}

// Foreground reports an app-foreground event; the manager schedules a
// debounced profile refresh for remote sessions.
func (s *ServiceImpl) Foreground(ctx context.Context) {
	s.sessions.OnForeground()
}

func (s *ServiceImpl) GetProfile(ctx context.Context) (profile.Profile, error) {
	current, err := session.RequireAny(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	if current.Kind == session.LocalOnly {
		return current.Profile, nil
	}
	found, err := s.profiles.FindByID(ctx, current.Identity)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, fmt.Errorf("%w: %v", session.ErrRemoteReadFailed, err)
	}
	return found, nil
}

// LookupByPhone answers whether a profile exists for the given phone number.
// It does not need a session; clients call it before logging in.
func (s *ServiceImpl) LookupByPhone(ctx context.Context, phone string) (profile.Profile, error) {
	if phone == "" {
		return profile.Profile{}, ErrMissingPhone
	}
	found, err := s.profiles.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, fmt.Errorf("%w: %v", session.ErrRemoteReadFailed, err)
	}
	return found, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	p.Phone = current.Profile.Phone // phone is the lookup key, not editable
	updated, err := s.profiles.Update(ctx, current.Identity, p.WithDefaults())
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
	}
	return updated, nil
}
