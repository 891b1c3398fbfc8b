package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"course-portal/internal/model"
)

var (
	admin  = model.Identity{ID: 1, Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	member = model.Identity{ID: 2, Name: "Ana", Email: "ana@example.com", Role: model.RoleUser}
)

func newMemoryStore() (*Store, *MemoryStorage, *MemoryStorage) {
	durable := NewMemoryStorage()
	ephemeral := NewMemoryStorage()
	return Restore(durable, ephemeral), durable, ephemeral
}

func seed(t *testing.T, tier Storage, identity model.Identity, token string) {
	t.Helper()
	raw, err := json.Marshal(identity)
	require.NoError(t, err)
	require.NoError(t, tier.Set(keyToken, token))
	require.NoError(t, tier.Set(keyUser, string(raw)))
}

func TestLoginWritesExactlyOneTier(t *testing.T) {
	t.Parallel()

	store, durable, ephemeral := newMemoryStore()

	require.NoError(t, store.Login(member, "t-remember", true))
	require.Equal(t, 2, durable.Len())
	require.Equal(t, 0, ephemeral.Len())

	require.NoError(t, store.Login(member, "t-session", false))
	require.Equal(t, 0, durable.Len())
	require.Equal(t, 2, ephemeral.Len())

	require.NoError(t, store.Login(admin, "t-again", true))
	require.Equal(t, 2, durable.Len())
	require.Equal(t, 0, ephemeral.Len())

	token, ok := store.Token()
	require.True(t, ok)
	require.Equal(t, "t-again", token)
	require.True(t, store.IsAdmin())
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	for _, remember := range []bool{true, false} {
		store, durable, ephemeral := newMemoryStore()
		require.NoError(t, store.Login(admin, "token", remember))
		require.True(t, store.IsAuthenticated())

		store.Logout()
		require.False(t, store.IsAuthenticated())
		require.Nil(t, store.CurrentUser())
		require.Equal(t, 0, durable.Len())
		require.Equal(t, 0, ephemeral.Len())
	}

	store, _, _ := newMemoryStore()
	store.Logout()
	require.False(t, store.IsAuthenticated())
}

func TestIsAuthenticatedNeedsToken(t *testing.T) {
	t.Parallel()

	store, durable, _ := newMemoryStore()
	require.NoError(t, store.Login(member, "token", true))

	durable.Remove(keyToken)
	require.NotNil(t, store.CurrentUser())
	require.False(t, store.IsAuthenticated())
}

func TestRestorePrefersEphemeral(t *testing.T) {
	t.Parallel()

	durable := NewMemoryStorage()
	ephemeral := NewMemoryStorage()
	seed(t, durable, admin, "durable-token")
	seed(t, ephemeral, member, "session-token")

	store := Restore(durable, ephemeral)
	require.Equal(t, member, *store.CurrentUser())
	require.Equal(t, 0, durable.Len())

	token, ok := store.Token()
	require.True(t, ok)
	require.Equal(t, "session-token", token)
}

func TestRestoreFallsBackToDurable(t *testing.T) {
	t.Parallel()

	durable := NewMemoryStorage()
	ephemeral := NewMemoryStorage()
	seed(t, durable, admin, "durable-token")
	require.NoError(t, ephemeral.Set(keyToken, "orphan"))

	store := Restore(durable, ephemeral)
	require.Equal(t, admin, *store.CurrentUser())
	require.True(t, store.IsAuthenticated())
	require.True(t, store.IsAdmin())
}

func TestRestoreIgnoresCorruptIdentity(t *testing.T) {
	t.Parallel()

	durable := NewMemoryStorage()
	require.NoError(t, durable.Set(keyToken, "token"))
	require.NoError(t, durable.Set(keyUser, "{not json"))

	store := Restore(durable, NewMemoryStorage())
	require.Nil(t, store.CurrentUser())
	require.False(t, store.IsAuthenticated())
}

func TestCurrentUserReturnsCopy(t *testing.T) {
	t.Parallel()

	store, _, _ := newMemoryStore()
	require.NoError(t, store.Login(member, "token", false))

	user := store.CurrentUser()
	user.Role = model.RoleAdmin
	require.False(t, store.IsAdmin())
}

func TestExpireCountsRejections(t *testing.T) {
	t.Parallel()

	store, durable, ephemeral := newMemoryStore()
	require.NoError(t, store.Login(member, "token", true))

	store.Expire()
	require.Equal(t, 1, store.Expired())
	require.False(t, store.IsAuthenticated())
	require.Equal(t, 0, durable.Len()+ephemeral.Len())

	store.Expire()
	require.Equal(t, 2, store.Expired())
}

type fakeAuthenticator struct {
	resp *model.LoginResponse
	err  error
	got  model.LoginRequest
}

func (f *fakeAuthenticator) Login(_ context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	t.Run("stores the returned session", func(t *testing.T) {
		store, durable, _ := newMemoryStore()
		auth := &fakeAuthenticator{resp: &model.LoginResponse{Token: "abc", User: &admin}}

		identity, err := store.SignIn(context.Background(), auth, model.LoginRequest{
			Email: "admin@example.com", Password: "secret1", RememberMe: true,
		})
		require.NoError(t, err)
		require.Equal(t, admin, *identity)
		require.Equal(t, "admin@example.com", auth.got.Email)
		require.Equal(t, 2, durable.Len())
		require.True(t, store.IsAuthenticated())
	})

	t.Run("incomplete response stores nothing", func(t *testing.T) {
		store, durable, ephemeral := newMemoryStore()
		auth := &fakeAuthenticator{resp: &model.LoginResponse{Message: "ok"}}

		_, err := store.SignIn(context.Background(), auth, model.LoginRequest{})
		require.ErrorIs(t, err, model.ErrInvalidLogin)
		require.Equal(t, 0, durable.Len()+ephemeral.Len())
	})

	t.Run("api failure is returned as is", func(t *testing.T) {
		store, _, _ := newMemoryStore()
		boom := errors.New("boom")

		_, err := store.SignIn(context.Background(), &fakeAuthenticator{err: boom}, model.LoginRequest{})
		require.ErrorIs(t, err, boom)
		require.False(t, store.IsAuthenticated())
	})
}
