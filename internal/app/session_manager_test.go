package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/pkg/session"
)

func TestSessionManager_CreateAndLoad(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := app.NewSessionManager(store)

	sess, err := sm.CreateSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.False(t, sess.IsDirty(), "freshly persisted session is clean")
	assert.Equal(t, 1, store.Len())

	// Round-trip through the cookie.
	rec := httptest.NewRecorder()
	sm.SaveSession(rec, sess)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	loaded, err := sm.LoadSession(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess.ID, loaded.ID)
}

func TestSessionManager_LoadWithoutCookie(t *testing.T) {
	t.Parallel()

	sm := app.NewSessionManager(session.NewMemoryStore())
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	sess, err := sm.LoadSession(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionManager_LoadUnknownToken(t *testing.T) {
	t.Parallel()

	sm := app.NewSessionManager(session.NewMemoryStore())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__sid", Value: "stale-token"})

	_, err := sm.LoadSession(context.Background(), req)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionManager_RotateToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := app.NewSessionManager(store)

	sess, err := sm.CreateSession(context.Background())
	require.NoError(t, err)
	oldToken := sess.Token

	require.NoError(t, sm.RotateToken(context.Background(), sess))
	assert.NotEqual(t, oldToken, sess.Token)

	_, err = store.Get(context.Background(), oldToken)
	assert.ErrorIs(t, err, session.ErrNotFound, "old token must be unusable after rotation")

	got, err := store.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestSessionManager_CookieAttributes(t *testing.T) {
	t.Parallel()

	sm := app.NewSessionManager(session.NewMemoryStore(),
		app.WithSessionCookieName("quill_sid"),
		app.WithSessionMaxAge(3600),
		app.WithSessionSecure(true),
	)

	sess, err := sm.CreateSession(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	sm.SaveSession(rec, sess)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "quill_sid", cookie.Name)
	assert.Equal(t, sess.Token, cookie.Value)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestSessionManager_ClearCookie(t *testing.T) {
	t.Parallel()

	sm := app.NewSessionManager(session.NewMemoryStore())

	rec := httptest.NewRecorder()
	sm.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
