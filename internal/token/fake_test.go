package token

import (
	"context"
	"sync"
	"time"

	"github.com/riadaman/sanctrum-rest-api/internal/token/entity"
	tokenrepo "github.com/riadaman/sanctrum-rest-api/internal/token/repo"
)

type memStore struct {
	mu      sync.Mutex
	rows    map[string]entity.AccessToken
	touched []string
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]entity.AccessToken{}}
}

func (m *memStore) Save(ctx context.Context, t *entity.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	m.rows[t.ID] = *t
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (*entity.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	t, ok := m.rows[id]
	if !ok {
		return nil, tokenrepo.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) Touch(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}
