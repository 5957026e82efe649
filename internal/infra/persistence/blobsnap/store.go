// Package blobsnap persists the in-memory store state as a single JSON object
// in a blob store (filesystem, S3 or memory).
package blobsnap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"holma/internal/blob"
	"holma/internal/infra/persistence/memory"
	"holma/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultKey is the object key used when none is configured.
const DefaultKey = "holma/state.json"

// Store writes the in-memory state into a blob object as part of every commit.
type Store struct {
	*memory.Store
	blobs blob.Store
	key   string
}

// NewStore hydrates a store from the object at key, if present.
func NewStore(ctx context.Context, blobs blob.Store, key string, engine *domain.RulesEngine) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("blob store required")
	}
	if key == "" {
		key = DefaultKey
	}
	s := &Store{Store: memory.NewStore(engine), blobs: blobs, key: key}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.SetCommitHook(s.persist)
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	_, rc, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", s.key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", s.key, err)
	}
	var snapshot memory.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.key, err)
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist(ctx context.Context, snapshot memory.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.blobs.Put(ctx, s.key, bytes.NewReader(data), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"format": "holma-snapshot-v1"},
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}
	return nil
}

// Key returns the object key holding the snapshot.
func (s *Store) Key() string { return s.key }
