package blobsnap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"holma/internal/blob"
	"holma/pkg/domain"
)

func TestStorePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	store, err := NewStore(ctx, blobs, "", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Key() != DefaultKey {
		t.Fatalf("expected default key, got %s", store.Key())
	}
	var id int64
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		id = tx.Allocate(domain.EntityRetailer)
		return tx.Insert(domain.Retailer{Base: domain.Base{ID: id, Name: "Corner Shop"}})
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	info, err := blobs.Head(ctx, DefaultKey)
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", info.ContentType)
	}
	// A second commit overwrites the same object.
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.Insert(domain.Retailer{Base: domain.Base{ID: tx.Allocate(domain.EntityRetailer), Name: "Market"}})
	}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	reloaded, err := NewStore(ctx, blobs, DefaultKey, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(reloaded.List(domain.EntityRetailer)); got != 2 {
		t.Fatalf("expected 2 retailers, got %d", got)
	}
	if r, ok := reloaded.Get(domain.EntityRetailer, id); !ok || r.EntityName() != "Corner Shop" {
		t.Fatalf("expected retailer %d reloaded, got %+v", id, r)
	}
}

func TestStoreWithS3Mock(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMockS3ForTests()
	store, err := NewStore(ctx, blobs, "state/holma.json", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.Insert(domain.Retailer{Base: domain.Base{ID: tx.Allocate(domain.EntityRetailer), Name: "Shop"}})
		}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	reloaded, err := NewStore(ctx, blobs, "state/holma.json", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(reloaded.List(domain.EntityRetailer)); got != 2 {
		t.Fatalf("expected 2 retailers, got %d", got)
	}
}

func TestNewStoreErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewStore(ctx, nil, "", nil); err == nil {
		t.Fatalf("expected missing blob store error")
	}
	blobs := blob.NewMemory()
	if _, err := blobs.Put(ctx, "bad.json", bytes.NewReader([]byte("{")), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, err := NewStore(ctx, blobs, "bad.json", nil)
	if err == nil || !strings.Contains(err.Error(), "decode snapshot") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestFailedTransactionSkipsWrite(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	store, err := NewStore(ctx, blobs, "", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	boom := errors.New("boom")
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := blobs.Head(ctx, DefaultKey); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected no snapshot written, got %v", err)
	}
}

// flakyBlobs fails every Put while down is set.
type flakyBlobs struct {
	blob.Store
	down bool
}

func (f *flakyBlobs) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	if f.down {
		return blob.Info{}, errors.New("bucket unreachable")
	}
	return f.Store.Put(ctx, key, r, opts)
}

func TestWriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	blobs := &flakyBlobs{Store: blob.NewMemory()}
	store, err := NewStore(ctx, blobs, "", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.Insert(domain.Retailer{Base: domain.Base{ID: tx.Allocate(domain.EntityRetailer), Name: "Corner Shop"}})
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	blobs.down = true
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.Insert(domain.Retailer{Base: domain.Base{ID: tx.Allocate(domain.EntityRetailer), Name: "Market"}})
	})
	if err == nil || !strings.Contains(err.Error(), "write snapshot") {
		t.Fatalf("expected write failure, got %v", err)
	}
	if got := len(store.List(domain.EntityRetailer)); got != 1 {
		t.Fatalf("expected failed write to keep one retailer, got %d", got)
	}

	// The next successful commit must not carry the rejected retailer.
	blobs.down = false
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { return nil }); err != nil {
		t.Fatalf("empty run: %v", err)
	}
	reloaded, err := NewStore(ctx, blobs, "", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(reloaded.List(domain.EntityRetailer)); got != 1 {
		t.Fatalf("expected one retailer persisted, got %d", got)
	}
}
