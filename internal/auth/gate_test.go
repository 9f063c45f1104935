package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voicelab-pro/internal/store"
	"voicelab-pro/internal/token"
	"voicelab-pro/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeResolver реализует UserResolver поверх карты в памяти
type fakeResolver struct {
	users map[string]*models.User
	err   error

	getOrCreateCalls int
}

func (f *fakeResolver) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeResolver) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	f.getOrCreateCalls++
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[username]
	if !ok {
		user = &models.User{ID: uuid.New(), Username: username}
		f.users[username] = user
	}
	return user, nil
}

func newTestGate(t *testing.T) (*Gate, *token.Service, *fakeResolver) {
	t.Helper()
	tokens := token.NewService("test_secret", time.Hour)
	resolver := &fakeResolver{users: map[string]*models.User{}}
	return NewGate(tokens, resolver, zap.NewNop()), tokens, resolver
}

func TestResolveFromCookie(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	tokenString, err := tokens.Issue("alice", uuid.New())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: tokenString})

	user, err := gate.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestResolveFromBearerHeader(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	tokenString, err := tokens.Issue("bob", uuid.New())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+tokenString)

	user, err := gate.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

func TestResolveCookieWinsOverHeader(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	cookieToken, err := tokens.Issue("alice", uuid.New())
	require.NoError(t, err)
	headerToken, err := tokens.Issue("bob", uuid.New())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: cookieToken})
	r.Header.Set("Authorization", "Bearer "+headerToken)

	// При наличии обоих токенов побеждает cookie
	user, err := gate.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestResolveUnauthenticated(t *testing.T) {
	gate, _, _ := newTestGate(t)

	expired := token.NewService("test_secret", -time.Hour)
	expiredToken, err := expired.Issue("alice", uuid.New())
	require.NoError(t, err)

	wrongSecret := token.NewService("other_secret", time.Hour)
	forgedToken, err := wrongSecret.Issue("alice", uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
	}{
		{name: "нет токена", prepare: func(r *http.Request) {}},
		{name: "мусор в cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
		}},
		{name: "истекший токен", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: expiredToken})
		}},
		{name: "токен с чужой подписью", prepare: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+forgedToken)
		}},
		{name: "заголовок без Bearer", prepare: func(r *http.Request) {
			r.Header.Set("Authorization", "Token abc")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.prepare(r)

			user, err := gate.Resolve(r)
			assert.Nil(t, user)
			// Любой отказ сводится к единому исходу
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestResolveByIDWithoutWrite(t *testing.T) {
	gate, tokens, resolver := newTestGate(t)

	existing := &models.User{ID: uuid.New(), Username: "alice"}
	resolver.users["alice"] = existing

	tokenString, err := tokens.Issue("alice", existing.ID)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: tokenString})

	user, err := gate.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	// Известный user_id разрешается чтением, без get-or-create
	assert.Equal(t, 0, resolver.getOrCreateCalls)
}

func TestResolveUnknownIDFallsBackToUsername(t *testing.T) {
	gate, tokens, resolver := newTestGate(t)

	// Токен валиден, но пользователя с таким ID в базе нет
	tokenString, err := tokens.Issue("alice", uuid.New())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: tokenString})

	user, err := gate.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 1, resolver.getOrCreateCalls)
}

func TestResolveUserLookupFailure(t *testing.T) {
	tokens := token.NewService("test_secret", time.Hour)
	resolver := &fakeResolver{err: errors.New("база недоступна")}
	gate := NewGate(tokens, resolver, zap.NewNop())

	tokenString, err := tokens.Issue("alice", uuid.New())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: tokenString})

	user, err := gate.Resolve(r)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokenCookieHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	SetTokenCookie(w, "token-value", 7*24*time.Hour, true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	w = httptest.NewRecorder()
	ClearTokenCookie(w, false)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
