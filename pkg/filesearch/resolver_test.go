package filesearch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"diacare-bot/internal/repository/memory"
	"diacare-bot/pkg/genai"
)

// fakeStoreAPI is an in-memory StoreAPI with per-method failure injection
// and call counters.
type fakeStoreAPI struct {
	mu     sync.Mutex
	stores []genai.Store
	docs   map[string][]genai.Document

	listErr   error
	createErr error

	listCalls   int32
	createCalls int32

	// polls before the upload operation reports done; negative means never.
	pollsUntilDone int
	pollCount      int
	uploadErr      error
	deleted        []string
}

func newFakeStoreAPI() *fakeStoreAPI {
	return &fakeStoreAPI{docs: make(map[string][]genai.Document)}
}

func (f *fakeStoreAPI) ListStores(context.Context) ([]genai.Store, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]genai.Store(nil), f.stores...), nil
}

func (f *fakeStoreAPI) CreateStore(_ context.Context, displayName string) (genai.Store, error) {
	atomic.AddInt32(&f.createCalls, 1)
	if f.createErr != nil {
		return genai.Store{}, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	store := genai.Store{
		Name:        fmt.Sprintf("fileSearchStores/store-%d", len(f.stores)+1),
		DisplayName: displayName,
	}
	f.stores = append(f.stores, store)
	return store, nil
}

func (f *fakeStoreAPI) ListDocuments(_ context.Context, storeName string) ([]genai.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]genai.Document(nil), f.docs[storeName]...), nil
}

func (f *fakeStoreAPI) UploadDocument(_ context.Context, storeName, displayName string, _ []byte) (genai.Operation, error) {
	if f.uploadErr != nil {
		return genai.Operation{}, f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[storeName] = append(f.docs[storeName], genai.Document{
		Name:        storeName + "/documents/" + displayName,
		DisplayName: displayName,
	})
	return genai.Operation{Name: "operations/op-1", Done: f.pollsUntilDone == 0}, nil
}

func (f *fakeStoreAPI) GetOperation(_ context.Context, opName string) (genai.Operation, error) {
	f.pollCount++
	done := f.pollsUntilDone >= 0 && f.pollCount >= f.pollsUntilDone
	return genai.Operation{Name: opName, Done: done}, nil
}

func (f *fakeStoreAPI) DeleteDocument(_ context.Context, documentName string, force bool) error {
	if !force {
		return errors.New("non-forced delete rejected")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, documentName)
	return nil
}

func TestResolveCreatesOnce(t *testing.T) {
	api := newFakeStoreAPI()
	r := NewResolver(api, memory.NewStoreCache())

	name1, err := r.Resolve(context.Background(), "user_U1")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	name2, err := r.Resolve(context.Background(), "user_U1")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}

	if name1 != name2 {
		t.Errorf("Resolve returned %q then %q, want stable name", name1, name2)
	}
	if api.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", api.createCalls)
	}
	// The second Resolve must be served from cache.
	if api.listCalls != 1 {
		t.Errorf("list calls = %d, want 1", api.listCalls)
	}
}

func TestResolveFindsExisting(t *testing.T) {
	api := newFakeStoreAPI()
	api.stores = []genai.Store{{Name: "fileSearchStores/kb", DisplayName: "chatbot_knowledge_base"}}
	r := NewResolver(api, memory.NewStoreCache())

	name, err := r.Resolve(context.Background(), "chatbot_knowledge_base")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if name != "fileSearchStores/kb" {
		t.Errorf("Resolve = %q", name)
	}
	if api.createCalls != 0 {
		t.Errorf("create calls = %d, want 0", api.createCalls)
	}
}

func TestConcurrentResolveSingleCreate(t *testing.T) {
	api := newFakeStoreAPI()
	r := NewResolver(api, memory.NewStoreCache())

	const workers = 16
	names := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			name, err := r.Resolve(context.Background(), "group_G9")
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			names[i] = name
		}(i)
	}
	wg.Wait()

	if api.createCalls != 1 {
		t.Fatalf("create calls = %d, want exactly 1", api.createCalls)
	}
	for i := 1; i < workers; i++ {
		if names[i] != names[0] {
			t.Fatalf("worker %d resolved %q, worker 0 resolved %q", i, names[i], names[0])
		}
	}
}

func TestFindDoesNotCreate(t *testing.T) {
	api := newFakeStoreAPI()
	r := NewResolver(api, memory.NewStoreCache())

	_, err := r.Find(context.Background(), "user_U2")
	if !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("Find error = %v, want ErrStoreNotFound", err)
	}
	if api.createCalls != 0 {
		t.Errorf("create calls = %d, want 0", api.createCalls)
	}
}

func TestResolveListFailure(t *testing.T) {
	api := newFakeStoreAPI()
	api.listErr = errors.New("remote unavailable")
	r := NewResolver(api, memory.NewStoreCache())

	_, err := r.Resolve(context.Background(), "user_U3")
	if !errors.Is(err, ErrStoreUnresolvable) {
		t.Fatalf("Resolve error = %v, want ErrStoreUnresolvable", err)
	}
	if api.createCalls != 0 {
		t.Errorf("a listing failure must not trigger creation, create calls = %d", api.createCalls)
	}
}

func TestResolveCreateFailure(t *testing.T) {
	api := newFakeStoreAPI()
	api.createErr = errors.New("quota exceeded")
	r := NewResolver(api, memory.NewStoreCache())

	_, err := r.Resolve(context.Background(), "user_U4")
	if !errors.Is(err, ErrStoreUnresolvable) {
		t.Fatalf("Resolve error = %v, want ErrStoreUnresolvable", err)
	}
}

func TestInvalidateForcesRemoteLookup(t *testing.T) {
	api := newFakeStoreAPI()
	r := NewResolver(api, memory.NewStoreCache())

	if _, err := r.Resolve(context.Background(), "user_U5"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	r.Invalidate("user_U5")

	if _, err := r.Resolve(context.Background(), "user_U5"); err != nil {
		t.Fatalf("Resolve after Invalidate: %v", err)
	}
	if api.listCalls != 2 {
		t.Errorf("list calls = %d, want 2 after invalidation", api.listCalls)
	}
	// The store already exists remotely, so no second create.
	if api.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", api.createCalls)
	}
}
