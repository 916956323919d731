package site

import (
	"context"
	"net/http"
	"strings"

	"pressroom/database"
)

type SessionCookieName string

const CurrentUserContextKey = SessionCookieName("current_user")
const SessionTokenCookieName = SessionCookieName("session_token")

func getSignedInUserOrNil(r *http.Request) *database.User {
	user, _ := r.Context().Value(CurrentUserContextKey).(*database.User)
	return user
}

// IsAdmin is the single authorization predicate: only an authenticated user
// carrying the admin flag passes.
func IsAdmin(user *database.User) bool {
	return user != nil && user.IsAdmin
}

func RealIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			r.RemoteAddr = ip
		} else if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			r.RemoteAddr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		next.ServeHTTP(w, r)
	})
}

// TryPutUserInContextMiddleware resolves the session cookie to a user and
// stores it on the request context. Handlers never consult a global for the
// current identity.
func TryPutUserInContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(string(SessionTokenCookieName))
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Validate the token and retrieve the corresponding user
		var user database.User
		result := database.GetDB().Where("session_token = ?", cookie.Value).First(&user)
		if result.Error != nil {
			// Clear the invalid cookie
			http.SetCookie(w, &http.Cookie{
				Name:   string(SessionTokenCookieName),
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnlyMiddleware refuses non-admin requests with 403 before the wrapped
// handler can run. There is no redirect and no side effect.
func AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(getSignedInUserOrNil(r)) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
