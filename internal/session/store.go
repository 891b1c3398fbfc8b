package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"course-portal/internal/model"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Authenticator checks credentials against the external API.
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

// Store is the authenticated identity plus bearer token, persisted in
// exactly one of two tiers: durable ("remember me") or ephemeral.
type Store struct {
	mu          sync.RWMutex
	durable     Storage
	ephemeral   Storage
	current     *model.Identity
	expirations int
}

// Restore rebuilds the in-memory identity from the tiers. A complete
// ephemeral session wins over the durable one, which is then cleared.
func Restore(durable Storage, ephemeral Storage) *Store {
	s := &Store{durable: durable, ephemeral: ephemeral}

	if identity, ok := readTier(ephemeral); ok {
		clearTier(durable)
		s.current = identity
		return s
	}

	if identity, ok := readTier(durable); ok {
		s.current = identity
	}

	return s
}

func readTier(tier Storage) (*model.Identity, bool) {
	token, ok := tier.Get(keyToken)
	if !ok || token == "" {
		return nil, false
	}

	raw, ok := tier.Get(keyUser)
	if !ok || raw == "" {
		return nil, false
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, false
	}

	return &identity, true
}

func clearTier(tier Storage) {
	tier.Remove(keyToken)
	tier.Remove(keyUser)
}

// Login clears both tiers, then writes the session to the tier selected by
// remember.
func (s *Store) Login(identity model.Identity, token string, remember bool) error {
	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clearTier(s.durable)
	clearTier(s.ephemeral)

	target := s.ephemeral
	if remember {
		target = s.durable
	}

	if err := target.Set(keyToken, token); err != nil {
		clearTier(target)
		s.current = nil
		return fmt.Errorf("store token: %w", err)
	}
	if err := target.Set(keyUser, string(encoded)); err != nil {
		clearTier(target)
		s.current = nil
		return fmt.Errorf("store identity: %w", err)
	}

	s.current = &identity
	return nil
}

// SignIn submits the credentials and stores the resulting session.
func (s *Store) SignIn(ctx context.Context, auth Authenticator, req model.LoginRequest) (*model.Identity, error) {
	resp, err := auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, model.ErrInvalidLogin
	}

	if err := s.Login(*resp.User, resp.Token, req.RememberMe); err != nil {
		return nil, err
	}

	identity := *resp.User
	return &identity, nil
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	clearTier(s.durable)
	clearTier(s.ephemeral)
}

// Expire logs out after the API rejected the held credential.
func (s *Store) Expire() {
	s.Logout()

	s.mu.Lock()
	s.expirations++
	s.mu.Unlock()
}

// Expired reports how many times the credential was rejected while this
// store was in use.
func (s *Store) Expired() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expirations
}

// IsAuthenticated requires both the in-memory identity and a token in one
// of the tiers.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return false
	}
	_, ok := s.tokenLocked()
	return ok
}

func (s *Store) CurrentUser() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	identity := *s.current
	return &identity
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current != nil && s.current.Role.IsAdmin()
}

// Token returns the bearer token from whichever tier holds one.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenLocked()
}

func (s *Store) tokenLocked() (string, bool) {
	if token, ok := s.durable.Get(keyToken); ok && token != "" {
		return token, true
	}
	if token, ok := s.ephemeral.Get(keyToken); ok && token != "" {
		return token, true
	}
	return "", false
}
