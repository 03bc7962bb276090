// Package credentials persists the bearer token that proves an
// authenticated session, and holds the copy armed for outgoing requests.
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/zerobalance/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zerobalance/internal/common"
	"github.com/dmitrijs2005/zerobalance/internal/dbx"
)

// Store persists a single opaque bearer token. The token format is never
// inspected.
type Store interface {
	Save(ctx context.Context, token string) error
	// Read reports ok=false when no token is persisted.
	Read(ctx context.Context) (token string, ok bool, err error)
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the token in the metadata table of the local database,
// so it survives process restarts.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Save writes the token together with the time it was saved.
func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	savedAt := s.now().UTC().Format(time.RFC3339)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.CredentialKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.CredentialSavedAtKey, []byte(savedAt))
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context) (string, bool, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.CredentialKey)
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	if v == nil {
		return "", false, nil
	}
	return string(v), true, nil
}

// SavedAt returns when the current token was written; zero time if unknown.
func (s *SQLiteStore) SavedAt(ctx context.Context) (time.Time, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.CredentialSavedAtKey)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, string(v))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.CredentialKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.CredentialSavedAtKey)
	})
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store. It backs ephemeral runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	ok    bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.ok = token, true
	return nil
}

func (m *MemoryStore) Read(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.ok, nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.ok = "", false
	return nil
}
