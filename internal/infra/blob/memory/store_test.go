package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"holma/internal/blob/core"
)

func TestStoreMissingKeys(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected head not found, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected get not found, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
}

func TestStorePutGetListDelete(t *testing.T) {
	store := New()
	ctx := context.Background()
	meta := map[string]string{"kind": "snapshot"}
	info, err := store.Put(ctx, "a/1", bytes.NewReader([]byte("v")), core.PutOptions{Metadata: meta, ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["kind"] = "mutated"
	if info.Size != 1 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "a/1", bytes.NewReader([]byte("v2")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected duplicate put error, got %v", err)
	}
	if _, err := store.Put(ctx, "b/1", bytes.NewReader([]byte("w")), core.PutOptions{}); err != nil {
		t.Fatalf("put b: %v", err)
	}
	head, err := store.Head(ctx, "a/1")
	if err != nil || head.Metadata["kind"] != "snapshot" {
		t.Fatalf("metadata must be copied on put, got %+v %v", head, err)
	}
	if list, err := store.List(ctx, ""); err != nil || len(list) != 2 || list[0].Key != "a/1" {
		t.Fatalf("list all: %v %v", list, err)
	}
	if list, err := store.List(ctx, "b/"); err != nil || len(list) != 1 {
		t.Fatalf("list prefix: %v %v", list, err)
	}
	_, rc, err := store.Get(ctx, "a/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "v" {
		t.Fatalf("unexpected payload %q", data)
	}
	if ok, err := store.Delete(ctx, "a/1"); err != nil || !ok {
		t.Fatalf("expected delete true")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStorePutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}
