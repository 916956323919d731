package site

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pressroom/database"
)

func TestMain(m *testing.M) {
	// tests run from inside the package directory
	templatesDir = "../templates/"
	m.Run()
}

func setupTestDB(t *testing.T) {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(testDB))
	database.SetDB(testDB)
}

// newTestRouter wires the same routes and middleware the server uses.
func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TryPutUserInContextMiddleware)

	r.Get("/", ListPosts)
	r.HandleFunc("/register", UserRegister)
	r.HandleFunc("/login", UserLogin)
	r.Get("/logout", UserLogout)
	r.HandleFunc("/post/{postID}", ViewPost)
	r.Get("/about", AboutPage)
	r.Get("/contact", ContactPage)

	r.Group(func(r chi.Router) {
		r.Use(AdminOnlyMiddleware)
		r.HandleFunc("/new-post", CreatePost)
		r.HandleFunc("/edit-post/{postID}", UpdatePost)
		r.Get("/delete/{postID}", DeletePost)
		r.Post("/import-news", ImportNews)
	})

	return r
}

func postForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// registerAccount signs up a user through the handler and returns its session cookie.
func registerAccount(t *testing.T, router http.Handler, email, name string) *http.Cookie {
	t.Helper()

	rec := postForm(router, "/register", url.Values{
		"email":    {email},
		"password": {"hunter22"},
		"name":     {name},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == string(SessionTokenCookieName) && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("no session cookie set for %s", email)
	return nil
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == string(SessionTokenCookieName) && cookie.Value != "" {
			return cookie
		}
	}
	return nil
}
