package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"diacare-bot/internal/repository/contract"
)

// Conversation modes.
const (
	ModeKnowledge = "knowledge"
	ModePersonal  = "personal"
)

const modeStorageKey = "user_modes"

// ModeRegistry tracks each user's knowledge/personal routing mode.
type ModeRegistry struct {
	mu          sync.RWMutex
	modes       map[string]string
	repo        contract.IKeyValueRepository
	defaultMode string
}

func NewModeRegistry(ctx context.Context, repo contract.IKeyValueRepository, useKnowledgeBase bool) (*ModeRegistry, error) {
	defaultMode := ModeKnowledge
	if !useKnowledgeBase {
		defaultMode = ModePersonal
	}

	r := &ModeRegistry{
		modes:       make(map[string]string),
		repo:        repo,
		defaultMode: defaultMode,
	}

	raw, found, err := repo.Load(ctx, modeStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load modes: %w", err)
	}
	if found {
		if err := json.Unmarshal(raw, &r.modes); err != nil {
			return nil, fmt.Errorf("decode modes: %w", err)
		}
	}

	return r, nil
}

// Get never fails; unknown users get the configured default.
func (r *ModeRegistry) Get(userID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if mode, ok := r.modes[userID]; ok {
		return mode
	}
	return r.defaultMode
}

// Set updates the mode and persists the registry. A failed durable write is
// reported as ErrPersistenceDegraded; the in-memory value still changed.
func (r *ModeRegistry) Set(ctx context.Context, userID, mode string) error {
	r.mu.Lock()
	r.modes[userID] = mode
	raw, err := json.Marshal(r.modes)
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceDegraded, err)
	}
	if err := r.repo.Save(ctx, modeStorageKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceDegraded, err)
	}
	return nil
}
