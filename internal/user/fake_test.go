package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riadaman/sanctrum-rest-api/internal/user/entity"
	userrepo "github.com/riadaman/sanctrum-rest-api/internal/user/repo"
)

// memStore enforces email uniqueness the way the users_email_unique constraint does.
type memStore struct {
	mu        sync.Mutex
	byID      map[int64]entity.User
	byEmail   map[string]int64
	createErr error
	getErr    error
}

func newMemStore() *memStore {
	return &memStore{byID: map[int64]entity.User{}, byEmail: map[string]int64{}}
}

func (m *memStore) Create(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return fmt.Errorf("%w: users_email_unique", userrepo.ErrConstraint)
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byID[u.ID] = *u
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	u := m.byID[id]
	return &u, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type fakeIssuer struct {
	mu       sync.Mutex
	issued   map[string]int64
	revoked  []string
	n        int
	issueErr error
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{issued: map[string]int64{}}
}

func (f *fakeIssuer) Issue(ctx context.Context, u *entity.User, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.n++
	tok := fmt.Sprintf("%s-%d-%d", name, u.ID, f.n)
	f.issued[tok] = u.ID
	return tok, nil
}

func (f *fakeIssuer) Revoke(ctx context.Context, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, tokenID)
	return nil
}

// countingHasher records which comparison path was taken.
type countingHasher struct {
	*BcryptHasher
	verify, dummy int
}

func (c *countingHasher) Verify(hash, pw string) bool {
	c.verify++
	return c.BcryptHasher.Verify(hash, pw)
}

func (c *countingHasher) VerifyDummy(pw string) bool {
	c.dummy++
	return c.BcryptHasher.VerifyDummy(pw)
}

func newSeqID() func() int64 {
	var mu sync.Mutex
	var n int64
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		n++
		return n
	}
}
