package query

import (
	"context"
	"errors"
	"fmt"

	"diacare-bot/internal/constant"
	"diacare-bot/pkg/filesearch"
	"diacare-bot/pkg/profile"
)

// CompletionProvider answers a query grounded in a store. *genai.Client
// satisfies it.
type CompletionProvider interface {
	Generate(ctx context.Context, query, storeName string) (string, error)
}

// ProfileSource supplies the profile used for personalization.
// *registry.ProfileRegistry satisfies it.
type ProfileSource interface {
	Get(userID string) *profile.UserProfile
}

// Orchestrator resolves the active store, prepends the personalization
// preamble and delegates to the completion provider.
type Orchestrator struct {
	provider CompletionProvider
	resolver *filesearch.Resolver
	profiles ProfileSource
}

func NewOrchestrator(provider CompletionProvider, resolver *filesearch.Resolver, profiles ProfileSource) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		resolver: resolver,
		profiles: profiles,
	}
}

// Answer returns the provider's text verbatim. A logical name with no
// store behind it yields the fixed guidance reply without calling the
// provider. Remote failures come back as errors for the caller to log and
// translate; the raw detail never reaches the user from here.
func (o *Orchestrator) Answer(ctx context.Context, userQuery, logicalName, userID string) (string, error) {
	storeName, err := o.resolver.Find(ctx, logicalName)
	if errors.Is(err, filesearch.ErrStoreNotFound) {
		return constant.NoStoreGuidance, nil
	}
	if err != nil {
		return "", err
	}

	fullQuery := userQuery
	if preamble := profile.BuildSystemPrompt(o.profiles.Get(userID)); preamble != "" {
		fullQuery = fmt.Sprintf("%s\n\n%s\n%s", preamble, constant.PatientQuestionHeader, userQuery)
	}

	text, err := o.provider.Generate(ctx, fullQuery, storeName)
	if err != nil {
		// The cached handle may be stale if the store vanished out-of-band.
		o.resolver.Invalidate(logicalName)
		return "", fmt.Errorf("completion for store %q: %w", logicalName, err)
	}
	return text, nil
}
