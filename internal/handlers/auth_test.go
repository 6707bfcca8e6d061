package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("success logs the user in", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		cookies := env.register(t, "alice", "alice@x.com", "pw1")
		assert.Equal(t, 1, env.users.count())

		// The session cookie authenticates the next request.
		rec := env.get("/profile", cookies)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice")
	})

	t.Run("stores a hash, not the password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		env.register(t, "alice", "alice@x.com", "pw1")
		u, err := env.users.ByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "pw1", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw1")))
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			form    url.Values
			message string
		}{
			{
				name:    "missing field",
				form:    url.Values{"username": {"alice"}, "email": {"alice@x.com"}, "password": {"pw1"}},
				message: "fill out all fields",
			},
			{
				name:    "mismatched passwords",
				form:    url.Values{"username": {"alice"}, "email": {"alice@x.com"}, "password": {"pw1"}, "confirm": {"pw2"}},
				message: "passwords do not match",
			},
			{
				name:    "bad username charset",
				form:    url.Values{"username": {"alice!"}, "email": {"alice@x.com"}, "password": {"pw1"}, "confirm": {"pw1"}},
				message: "username may only contain letters, numbers, spaces, and underscores",
			},
			{
				name:    "username too long",
				form:    url.Values{"username": {strings.Repeat("a", 21)}, "email": {"alice@x.com"}, "password": {"pw1"}, "confirm": {"pw1"}},
				message: "username may only contain letters, numbers, spaces, and underscores",
			},
			{
				name:    "invalid email",
				form:    url.Values{"username": {"alice"}, "email": {"not-an-email"}, "password": {"pw1"}, "confirm": {"pw1"}},
				message: "invalid email",
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				env := newTestEnv(t)

				rec := env.postForm("/register", tt.form, nil)
				require.Equal(t, http.StatusSeeOther, rec.Code)

				loc := location(t, rec)
				assert.Equal(t, "/register", loc.Path)
				assert.Equal(t, tt.message, loc.Query().Get("message"))
				assert.Zero(t, env.users.count(), "no row may be created")
			})
		}
	})

	t.Run("taken username", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.postForm("/register", url.Values{
			"username": {"alice"},
			"email":    {"other@x.com"},
			"password": {"pw1"},
			"confirm":  {"pw1"},
		}, nil)

		loc := location(t, rec)
		assert.Equal(t, "username is already taken", loc.Query().Get("message"))
		assert.Equal(t, 1, env.users.count())
	})

	t.Run("taken email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.postForm("/register", url.Values{
			"username": {"bob"},
			"email":    {"alice@x.com"},
			"password": {"pw1"},
			"confirm":  {"pw1"},
		}, nil)

		loc := location(t, rec)
		assert.Equal(t, "email is already taken", loc.Query().Get("message"))
		assert.Equal(t, 1, env.users.count())
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.postForm("/login", url.Values{
			"email":    {"alice@x.com"},
			"password": {"pw1"},
		}, nil)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/profile", rec.Header().Get("Location"))
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("wrong password and unknown email give the same message", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "alice", "alice@x.com", "pw1")

		for _, form := range []url.Values{
			{"email": {"alice@x.com"}, "password": {"wrong"}},
			{"email": {"nobody@x.com"}, "password": {"pw1"}},
		} {
			rec := env.postForm("/login", form, nil)
			loc := location(t, rec)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, "invalid email or password", loc.Query().Get("message"))
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.postForm("/login", url.Values{"email": {"alice@x.com"}}, nil)
		loc := location(t, rec)
		assert.Equal(t, "fill out all fields", loc.Query().Get("message"))
	})

	t.Run("login form redirects authenticated users to profile", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		cookies := env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.get("/login", cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/profile", rec.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("ends the session", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		cookies := env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.get("/logout", cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc := location(t, rec)
		assert.Equal(t, "/login", loc.Path)

		// The old cookie no longer authenticates.
		rec2 := env.get("/profile", cookies)
		require.Equal(t, http.StatusSeeOther, rec2.Code)
		assert.Equal(t, "/login", location(t, rec2).Path)
	})

	t.Run("anonymous logout redirects gracefully", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.get("/logout", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc := location(t, rec)
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, "you are not logged in", loc.Query().Get("message"))
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		cookies := env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.postForm("/password", url.Values{
			"old":     {"pw1"},
			"new":     {"pw2"},
			"confirm": {"pw2"},
		}, cookies)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc := location(t, rec)
		assert.Equal(t, "/profile", loc.Path)
		assert.Equal(t, "password changed", loc.Query().Get("message"))

		// The new password works for login.
		rec2 := env.postForm("/login", url.Values{
			"email":    {"alice@x.com"},
			"password": {"pw2"},
		}, nil)
		assert.Equal(t, "/profile", rec2.Header().Get("Location"))
	})

	t.Run("ends other sessions", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		first := env.register(t, "alice", "alice@x.com", "pw1")

		// A second browser logs in.
		rec := env.postForm("/login", url.Values{
			"email":    {"alice@x.com"},
			"password": {"pw1"},
		}, nil)
		second := rec.Result().Cookies()
		require.NotEmpty(t, second)

		changeRec := env.postForm("/password", url.Values{
			"old":     {"pw1"},
			"new":     {"pw2"},
			"confirm": {"pw2"},
		}, first)
		require.Equal(t, http.StatusSeeOther, changeRec.Code)

		// The second browser's session is gone.
		rec2 := env.get("/profile", second)
		require.Equal(t, http.StatusSeeOther, rec2.Code)
		assert.Equal(t, "/login", location(t, rec2).Path)

		// The changing browser got a fresh session.
		fresh := changeRec.Result().Cookies()
		require.NotEmpty(t, fresh)
		valid := fresh[len(fresh)-1]
		rec3 := env.get("/profile", []*http.Cookie{valid})
		assert.Equal(t, http.StatusOK, rec3.Code)
	})

	t.Run("wrong old password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		cookies := env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.postForm("/password", url.Values{
			"old":     {"nope"},
			"new":     {"pw2"},
			"confirm": {"pw2"},
		}, cookies)

		loc := location(t, rec)
		assert.Equal(t, "/password", loc.Path)
		assert.Equal(t, "incorrect password", loc.Query().Get("message"))
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		cookies := env.register(t, "alice", "alice@x.com", "pw1")

		rec := env.postForm("/password", url.Values{
			"old":     {"pw1"},
			"new":     {"pw2"},
			"confirm": {"pw3"},
		}, cookies)

		assert.Equal(t, "passwords do not match", location(t, rec).Query().Get("message"))
	})

	t.Run("requires a session", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.postForm("/password", url.Values{
			"old":     {"pw1"},
			"new":     {"pw2"},
			"confirm": {"pw2"},
		}, nil)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", location(t, rec).Path)
	})
}
