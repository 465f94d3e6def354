package handler

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/internal/utils"
)

// In-memory store fakes backing the handler tests. They mirror the
// repository contracts: sentinel errors, sql.ErrNoRows where the real
// queries surface it, and the same revocation semantics for tokens.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, password, name string, avatar *string, role string, cost int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	s.nextID++
	u := model.User{
		ID: s.nextID, Email: email, PasswordHash: hash, Name: name,
		Avatar: avatar, Role: role,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) UpdateRole(_ context.Context, id int64, role string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	u.Role = role
	s.users[id] = u
	return u, nil
}

type tokenRec struct {
	userID  int64
	exp     time.Time
	revoked bool
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*tokenRec

	// validateGate, when set, blocks Validate until closed. Used to pin
	// concurrent refresh calls inside the shared execution.
	validateGate  chan struct{}
	validateCalls int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*tokenRec{}}
}

func (s *fakeTokenStore) Replace(_ context.Context, userID int64, hash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.tokens {
		if r.userID == userID {
			r.revoked = true
		}
	}
	s.tokens[hash] = &tokenRec{userID: userID, exp: exp}
	return nil
}

func (s *fakeTokenStore) Validate(ctx context.Context, hash string) (int64, error) {
	s.mu.Lock()
	s.validateCalls++
	gate := s.validateGate
	r, ok := s.tokens[hash]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	// A real query fails once its context is done.
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !ok || r.revoked || time.Now().After(r.exp) {
		return 0, sql.ErrNoRows
	}
	return r.userID, nil
}

func (s *fakeTokenStore) RevokeByHash(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.tokens[hash]; ok {
		r.revoked = true
	}
	return nil
}

func (s *fakeTokenStore) RevokeAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.tokens {
		if r.userID == userID {
			r.revoked = true
		}
	}
	return nil
}

func (s *fakeTokenStore) activeCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.tokens {
		if r.userID == userID && !r.revoked {
			n++
		}
	}
	return n
}
