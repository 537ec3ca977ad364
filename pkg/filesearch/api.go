package filesearch

import (
	"context"
	"errors"

	"diacare-bot/pkg/genai"
)

// StoreAPI is the remote file search service surface this package needs.
// *genai.Client satisfies it.
type StoreAPI interface {
	ListStores(ctx context.Context) ([]genai.Store, error)
	CreateStore(ctx context.Context, displayName string) (genai.Store, error)
	ListDocuments(ctx context.Context, storeName string) ([]genai.Document, error)
	UploadDocument(ctx context.Context, storeName, displayName string, data []byte) (genai.Operation, error)
	GetOperation(ctx context.Context, opName string) (genai.Operation, error)
	DeleteDocument(ctx context.Context, documentName string, force bool) error
}

var (
	// ErrStoreNotFound: the logical name has no remote store and the caller
	// asked not to create one.
	ErrStoreNotFound = errors.New("file search store not found")

	// ErrStoreUnresolvable: the remote service failed while resolving or
	// creating; distinct from an existing-but-empty store.
	ErrStoreUnresolvable = errors.New("file search store unresolvable")

	// ErrOperationTimedOut: the upload did not report done within the poll
	// ceiling. The true remote state is unknown; never a plain failure.
	ErrOperationTimedOut = errors.New("upload operation timed out")
)
