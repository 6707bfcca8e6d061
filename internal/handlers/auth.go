package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/internal/validate"
	"github.com/quillhq/quill/internal/views"
)

// Auth serves registration, login, logout, and password changes.
type Auth struct {
	users    UserStore
	sessions *app.SessionManager
}

func NewAuth(users UserStore, sessions *app.SessionManager) *Auth {
	return &Auth{users: users, sessions: sessions}
}

func (h *Auth) Routes(r app.Router) {
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/register", h.registerForm)
	r.POST("/register", h.register)
	r.GET("/logout", h.logout)
	r.GET("/password", h.passwordForm)
	r.POST("/password", h.changePassword)
}

func (h *Auth) loginForm(c app.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/profile")
	}
	return c.Render(http.StatusOK, views.Login{Message: c.Query("message")})
}

func (h *Auth) login(c app.Context) error {
	email := c.Form("email")
	password := c.Form("password")

	if !validate.AllPresent(email, password) {
		return app.Validation("fill out all fields", "/login")
	}

	user, err := h.users.ByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message as a wrong password so accounts cannot be
			// enumerated through the login form.
			return app.Validation("invalid email or password", "/login")
		}
		return app.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return app.Validation("invalid email or password", "/login")
	}

	if err := c.AuthenticateSession(user.ID); err != nil {
		return app.Internal(err)
	}

	c.LogInfo("user logged in", "user_id", user.ID)
	return c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *Auth) registerForm(c app.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/profile")
	}
	return c.Render(http.StatusOK, views.Register{Message: c.Query("message")})
}

func (h *Auth) register(c app.Context) error {
	username := c.Form("username")
	email := c.Form("email")
	password := c.Form("password")
	confirm := c.Form("confirm")

	// Checks run in order and stop at the first failure.
	switch {
	case !validate.AllPresent(username, email, password, confirm):
		return app.Validation("fill out all fields", "/register")
	case password != confirm:
		return app.Validation("passwords do not match", "/register")
	case !validate.Username(username):
		return app.Validation("username may only contain letters, numbers, spaces, and underscores", "/register")
	case !validate.Email(email):
		return app.Validation("invalid email", "/register")
	}

	if taken, err := h.users.UsernameTaken(c.Context(), username); err != nil {
		return app.Internal(err)
	} else if taken {
		return app.Validation("username is already taken", "/register")
	}
	if taken, err := h.users.EmailTaken(c.Context(), email); err != nil {
		return app.Internal(err)
	} else if taken {
		return app.Validation("email is already taken", "/register")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return app.Internal(err)
	}

	user, err := h.users.Create(c.Context(), username, email, string(hash))
	if err != nil {
		// A concurrent registration can win the race between the taken
		// checks and the insert; the unique constraints are authoritative.
		if errors.Is(err, repository.ErrDuplicate) {
			return app.Validation("username or email is already taken", "/register")
		}
		return app.Internal(err)
	}

	if err := c.AuthenticateSession(user.ID); err != nil {
		return app.Internal(err)
	}

	c.LogInfo("user registered", "user_id", user.ID, "username", user.Username)
	return c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *Auth) logout(c app.Context) error {
	if !c.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, withQuery("/login", "message", "you are not logged in"))
	}
	if err := c.DestroySession(); err != nil {
		return app.Internal(err)
	}
	return c.Redirect(http.StatusSeeOther, withQuery("/login", "message", "you have been logged out"))
}

func (h *Auth) passwordForm(c app.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.Password{Message: c.Query("message")})
}

func (h *Auth) changePassword(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	oldPassword := c.Form("old")
	newPassword := c.Form("new")
	confirm := c.Form("confirm")

	switch {
	case !validate.AllPresent(oldPassword, newPassword, confirm):
		return app.Validation("fill out all fields", "/password")
	case newPassword != confirm:
		return app.Validation("passwords do not match", "/password")
	}

	user, err := h.users.ByID(c.Context(), userID)
	if err != nil {
		return app.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return app.Validation("incorrect password", "/password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return app.Internal(err)
	}

	if err := h.users.UpdatePassword(c.Context(), userID, string(hash)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("user not found")
		}
		return app.Internal(err)
	}

	// End every session for this user so a stolen cookie stops working,
	// then start a fresh one for the browser that changed the password.
	if err := h.sessions.Store().DeleteByUserID(c.Context(), userID); err != nil {
		return app.Internal(err)
	}
	if err := c.DestroySession(); err != nil {
		return app.Internal(err)
	}
	if err := c.AuthenticateSession(userID); err != nil {
		return app.Internal(err)
	}

	c.LogInfo("password changed", "user_id", userID)
	return c.Redirect(http.StatusSeeOther, withQuery("/profile", "message", "password changed"))
}
