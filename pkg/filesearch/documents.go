package filesearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diacare-bot/pkg/genai"
)

// PollPolicy bounds the wait for asynchronous upload indexing. Elapsed
// time is accounted additively per poll, not against a wall clock.
type PollPolicy struct {
	Interval time.Duration
	MaxWait  time.Duration
}

// Manager performs document operations within resolved stores.
type Manager struct {
	api      StoreAPI
	resolver *Resolver
	policy   PollPolicy
	sleep    func(time.Duration)
}

func NewManager(api StoreAPI, resolver *Resolver, policy PollPolicy) *Manager {
	return &Manager{
		api:      api,
		resolver: resolver,
		policy:   policy,
		sleep:    time.Sleep,
	}
}

// Upload resolves the store (creating it if needed), submits the file and
// waits for the indexing operation. Outcomes: nil (done within budget),
// ErrOperationTimedOut (budget elapsed, remote state unknown), or a wrapped
// remote error.
func (m *Manager) Upload(ctx context.Context, logicalName, displayName string, data []byte) error {
	storeName, err := m.resolver.Resolve(ctx, logicalName)
	if err != nil {
		return err
	}

	op, err := m.api.UploadDocument(ctx, storeName, displayName, data)
	if err != nil {
		// The cached handle may be dangling (store deleted out-of-band);
		// drop it so the next attempt re-resolves.
		m.resolver.Invalidate(logicalName)
		return fmt.Errorf("upload %q to store %q: %w", displayName, logicalName, err)
	}

	opName := op.Name
	elapsed := time.Duration(0)
	for !op.Done && elapsed < m.policy.MaxWait {
		m.sleep(m.policy.Interval)
		elapsed += m.policy.Interval

		op, err = m.api.GetOperation(ctx, opName)
		if err != nil {
			return fmt.Errorf("poll operation %q: %w", opName, err)
		}
	}

	if !op.Done {
		return fmt.Errorf("%w: %q after %s", ErrOperationTimedOut, displayName, m.policy.MaxWait)
	}
	return nil
}

// List enumerates the documents behind a logical name. A missing store is
// presented as an empty store; the distinction belongs to callers that
// need it (via Resolver.Find).
func (m *Manager) List(ctx context.Context, logicalName string) ([]genai.Document, error) {
	storeName, err := m.resolver.Find(ctx, logicalName)
	if errors.Is(err, ErrStoreNotFound) {
		return []genai.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	docs, err := m.api.ListDocuments(ctx, storeName)
	if err != nil {
		m.resolver.Invalidate(logicalName)
		return nil, fmt.Errorf("list documents in %q: %w", logicalName, err)
	}
	return docs, nil
}

// Delete removes a document permanently. The force flag is not optional:
// the service rejects non-forced deletes for this resource kind.
func (m *Manager) Delete(ctx context.Context, documentName string) error {
	if err := m.api.DeleteDocument(ctx, documentName, true); err != nil {
		return fmt.Errorf("delete document %q: %w", documentName, err)
	}
	return nil
}
