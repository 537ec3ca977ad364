package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"diacare-bot/internal/repository/contract"
	"diacare-bot/pkg/profile"
)

const profileStorageKey = "user_profiles"

// ProfileRegistry is the durable per-user profile store. Reads are served
// from memory; every mutation is written through the persistence
// collaborator before returning.
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles map[string]*profile.UserProfile
	repo     contract.IKeyValueRepository
}

func NewProfileRegistry(ctx context.Context, repo contract.IKeyValueRepository) (*ProfileRegistry, error) {
	r := &ProfileRegistry{
		profiles: make(map[string]*profile.UserProfile),
		repo:     repo,
	}

	raw, found, err := repo.Load(ctx, profileStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if found {
		if err := json.Unmarshal(raw, &r.profiles); err != nil {
			return nil, fmt.Errorf("decode profiles: %w", err)
		}
	}

	return r, nil
}

// Get never fails; unknown users yield nil.
func (r *ProfileRegistry) Get(userID string) *profile.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil
	}
	clone := *p
	clone.Complications = append([]string(nil), p.Complications...)
	clone.CurrentMedications = append([]string(nil), p.CurrentMedications...)
	return &clone
}

func (r *ProfileRegistry) IsComplete(userID string) bool {
	return r.Get(userID).IsComplete()
}

// Set stores the profile and persists the registry. The in-memory value is
// updated even when the durable write fails; that case is reported as
// ErrPersistenceDegraded.
func (r *ProfileRegistry) Set(ctx context.Context, userID string, p *profile.UserProfile) error {
	r.mu.Lock()
	r.profiles[userID] = p
	raw, err := json.Marshal(r.profiles)
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceDegraded, err)
	}
	if err := r.repo.Save(ctx, profileStorageKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceDegraded, err)
	}
	return nil
}
