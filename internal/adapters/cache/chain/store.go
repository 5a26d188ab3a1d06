package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/usahome-cli/internal/adapters/cache/file"
	sqlitestore "github.com/bnema/usahome-cli/internal/adapters/cache/sqlite"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/ports"
)

// Store reads and writes the primary cache and only touches the fallback
// when the primary fails. A key missing from the primary is looked up in
// the fallback so entries written by an older file-only setup stay visible.
type Store struct {
	primary  ports.CacheStore
	fallback ports.CacheStore
}

var _ ports.CacheStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary cache store is nil")
	errNilFallbackStore = errors.New("fallback cache store is nil")
)

func NewStore(primary ports.CacheStore, fallback ports.CacheStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.CacheStore, fallback ports.CacheStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewSQLiteFirstWithFileFallback degrades to the file store alone when the
// database cannot be opened. The returned close function is never nil.
func NewSQLiteFirstWithFileFallback(ctx context.Context, dbPath string, fileRoot string) (ports.CacheStore, func() error, error) {
	files := filestore.NewStore(fileRoot)

	db, err := sqlitestore.Open(ctx, dbPath)
	if err != nil {
		return files, func() error { return nil }, fmt.Errorf("sqlite cache unavailable, using file cache: %w", err)
	}

	store, err := NewStoreChecked(db, files)
	if err != nil {
		_ = db.Close()
		return nil, func() error { return nil }, err
	}
	return store, db.Close, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr != nil {
		return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
	}

	// Get reads the primary first, so its older copy must go.
	if deleteErr := s.primary.Delete(ctx, key); deleteErr != nil {
		return fmt.Errorf("primary backend put failed: %w; stale primary entry not cleared: %w", err, deleteErr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	if errors.Is(err, domain.ErrKeyNotFound) && errors.Is(fallbackErr, domain.ErrKeyNotFound) {
		return "", err
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete clears both backends so a stale fallback copy cannot resurface.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case err == nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	case fallbackErr == nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	default:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
