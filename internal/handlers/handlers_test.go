package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/handlers"
	"github.com/quillhq/quill/internal/models"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/pkg/session"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]models.User)}
}

func (f *fakeUsers) Create(_ context.Context, username, email, passwordHash string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return models.User{}, repository.ErrDuplicate
		}
	}

	f.seq++
	u := models.User{
		ID:           f.seq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) ByID(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUsers) ByUsername(_ context.Context, username string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUsers) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, err := f.ByUsername(context.Background(), username)
	return err == nil, nil
}

func (f *fakeUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := f.ByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUsers) UpdateAbout(_ context.Context, id int64, about string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.About = about
	f.users[id] = u
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	f.users[id] = u
	return nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// fakePosts is an in-memory PostStore joined against fakeUsers.
type fakePosts struct {
	mu    sync.Mutex
	seq   int64
	posts map[int64]models.Post
	users *fakeUsers
}

func newFakePosts(users *fakeUsers) *fakePosts {
	return &fakePosts{posts: make(map[int64]models.Post), users: users}
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fakePosts) Create(_ context.Context, authorID int64, title, content string) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	p := models.Post{
		ID:          f.seq,
		Title:       title,
		Content:     content,
		DateCreated: today(),
		AuthorID:    authorID,
	}
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePosts) ByID(_ context.Context, id int64) (models.PostWithAuthor, error) {
	f.mu.Lock()
	p, ok := f.posts[id]
	f.mu.Unlock()
	if !ok {
		return models.PostWithAuthor{}, repository.ErrNotFound
	}

	author, err := f.users.ByID(context.Background(), p.AuthorID)
	if err != nil {
		return models.PostWithAuthor{}, err
	}
	return models.PostWithAuthor{Post: p, AuthorName: author.Username}, nil
}

func (f *fakePosts) ByAuthor(_ context.Context, authorID int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	sortPosts(out)
	return out, nil
}

func (f *fakePosts) Recent(_ context.Context, limit int) ([]models.PostWithAuthor, error) {
	f.mu.Lock()
	plain := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		plain = append(plain, p)
	}
	f.mu.Unlock()

	sortPosts(plain)
	if limit > 0 && len(plain) > limit {
		plain = plain[:limit]
	}

	out := make([]models.PostWithAuthor, 0, len(plain))
	for _, p := range plain {
		author, err := f.users.ByID(context.Background(), p.AuthorID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.PostWithAuthor{Post: p, AuthorName: author.Username})
	}
	return out, nil
}

func (f *fakePosts) Update(_ context.Context, id int64, title, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Title = title
	p.Content = content
	p.DateCreated = today()
	f.posts[id] = p
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

// sortPosts orders newest first, ties broken by id descending.
func sortPosts(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].DateCreated.Equal(posts[j].DateCreated) {
			return posts[i].DateCreated.After(posts[j].DateCreated)
		}
		return posts[i].ID > posts[j].ID
	})
}

// testEnv bundles the app and its fake dependencies.
type testEnv struct {
	router http.Handler
	users  *fakeUsers
	posts  *fakePosts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUsers()
	posts := newFakePosts(users)
	sessions := app.NewSessionManager(session.NewMemoryStore())

	a := app.New(
		app.WithSessionManager(sessions),
		app.WithErrorHandler(handlers.ErrorHandler),
		app.WithNotFoundHandler(handlers.NotFoundHandler),
		app.WithHandlers(
			handlers.NewPages(posts),
			handlers.NewAuth(users, sessions),
			handlers.NewProfile(users, posts),
			handlers.NewPosts(posts),
		),
	)

	return &testEnv{router: a.Router(), users: users, posts: posts}
}

// get performs a GET with the given session cookies.
func (e *testEnv) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST with the given session cookies.
func (e *testEnv) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns the logged-in session cookies.
func (e *testEnv) register(t *testing.T, username, email, password string) []*http.Cookie {
	t.Helper()

	rec := e.postForm("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
		"confirm":  {password},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/profile", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// location returns the redirect target of the response.
func location(t *testing.T, rec *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	loc := rec.Header().Get("Location")
	require.NotEmpty(t, loc)
	u, err := url.Parse(loc)
	require.NoError(t, err)
	return u
}
