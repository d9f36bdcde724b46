package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finvoice/finvoice/internal/store"
	"github.com/finvoice/finvoice/internal/utils"
	log "github.com/sirupsen/logrus"
)

const collection = "profiles"

type Repo interface {
	FindByPhone(ctx context.Context, phone string) (Profile, error)
	FindByID(ctx context.Context, id string) (Profile, error)
	Create(ctx context.Context, profile Profile) (Profile, error)
	Update(ctx context.Context, id string, profile Profile) (Profile, error)
}

type profileRow struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Language  string `json:"language"`
	Currency  string `json:"currency"`
	Theme     string `json:"theme"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type RepoImpl struct {
	store store.Client
	clock utils.Clock
}

func NewRepo(storeClient store.Client, clock utils.Clock) *RepoImpl {
	return &RepoImpl{store: storeClient, clock: clock}
}

func (r *RepoImpl) FindByPhone(ctx context.Context, phone string) (Profile, error) {
	var row profileRow
	err := r.store.ReadOne(ctx, collection, store.Filter{"phone": phone}, &row)
	if errors.Is(err, store.ErrNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		log.Errorf("failed to look up profile by phone: %v", err)
		return Profile{}, err
	}
	return rowToProfile(row), nil
}

func (r *RepoImpl) FindByID(ctx context.Context, id string) (Profile, error) {
	var row profileRow
	err := r.store.ReadOne(ctx, collection, store.Filter{"id": id}, &row)
	if errors.Is(err, store.ErrNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		log.Errorf("failed to look up profile by id: %v", err)
		return Profile{}, err
	}
	return rowToProfile(row), nil
}

func (r *RepoImpl) Create(ctx context.Context, profile Profile) (Profile, error) {
	now := r.clock.Now().UTC()
	row := profileToRow(profile)
	row.CreatedAt = now.Format(time.RFC3339)
	row.UpdatedAt = now.Format(time.RFC3339)

	var created profileRow
	if err := r.store.Create(ctx, collection, row, &created); err != nil {
		log.Errorf("failed to create profile: %v", err)
		return Profile{}, fmt.Errorf("could not create profile: %w", err)
	}
	return rowToProfile(created), nil
}

func (r *RepoImpl) Update(ctx context.Context, id string, profile Profile) (Profile, error) {
	row := profileToRow(profile)
	row.UpdatedAt = r.clock.Now().UTC().Format(time.RFC3339)

	var updated profileRow
	err := r.store.Update(ctx, collection, store.Filter{"id": id}, row, &updated)
	if errors.Is(err, store.ErrNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		log.Errorf("failed to update profile: %v", err)
		return Profile{}, fmt.Errorf("could not update profile: %w", err)
	}
	return rowToProfile(updated), nil
}

func profileToRow(p Profile) profileRow {
	return profileRow{
		ID:       p.ID,
		Name:     p.Name,
		Phone:    p.Phone,
		Language: p.Language,
		Currency: p.Currency,
		Theme:    p.Theme,
	}
}

func rowToProfile(row profileRow) Profile {
	p := Profile{
		ID:       row.ID,
		Name:     row.Name,
		Phone:    row.Phone,
		Language: row.Language,
		Currency: row.Currency,
		Theme:    row.Theme,
	}
	if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, row.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}
