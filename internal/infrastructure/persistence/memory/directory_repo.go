// Package memory provides in-memory repository implementations.
// They back the development mode and the application-layer tests;
// production runs on the postgres package.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// DirectoryRepository is an in-memory directory.Repository.
type DirectoryRepository struct {
	mu       sync.RWMutex
	profiles map[shared.ProfileID]*directory.StakeholderProfile
}

// NewDirectoryRepository creates an empty in-memory directory.
func NewDirectoryRepository() *DirectoryRepository {
	return &DirectoryRepository{
		profiles: make(map[shared.ProfileID]*directory.StakeholderProfile),
	}
}

// Create implements directory.Repository. Email is unique across the
// directory, mirroring the database constraint.
func (r *DirectoryRepository) Create(_ context.Context, profile *directory.StakeholderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; ok {
		return shared.ErrProfileAlreadyExists
	}
	email := profile.Email.Normalize()
	for _, existing := range r.profiles {
		if existing.Email == email {
			return shared.ErrProfileAlreadyExists
		}
	}
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

// Update implements directory.Repository.
func (r *DirectoryRepository) Update(_ context.Context, profile *directory.StakeholderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		return shared.ErrProfileNotFound
	}
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

// FindByID implements directory.Repository.
func (r *DirectoryRepository) FindByID(_ context.Context, id shared.ProfileID) (*directory.StakeholderProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

// FindByEmail implements directory.Repository.
func (r *DirectoryRepository) FindByEmail(_ context.Context, email shared.Email) (*directory.StakeholderProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := email.Normalize()
	for _, profile := range r.profiles {
		if profile.Email == normalized {
			cp := *profile
			return &cp, nil
		}
	}
	return nil, shared.ErrProfileNotFound
}

// FindAvailableByRole implements directory.Repository. Results are
// sorted by registration time, then ID, so repeated calls see the
// same pool order.
func (r *DirectoryRepository) FindAvailableByRole(_ context.Context, role directory.Role) ([]*directory.StakeholderProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*directory.StakeholderProfile, 0)
	for _, profile := range r.profiles {
		if profile.CanServe(role) {
			cp := *profile
			out = append(out, &cp)
		}
	}
	sortProfiles(out)
	return out, nil
}

// FindAll implements directory.Repository.
func (r *DirectoryRepository) FindAll(_ context.Context) ([]*directory.StakeholderProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*directory.StakeholderProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		cp := *profile
		out = append(out, &cp)
	}
	sortProfiles(out)
	return out, nil
}

// Count implements directory.Repository.
func (r *DirectoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles), nil
}

func sortProfiles(profiles []*directory.StakeholderProfile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].RegisteredAt.Equal(profiles[j].RegisteredAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].RegisteredAt.Before(profiles[j].RegisteredAt)
	})
}
