package middleware

import (
	"net/http"

	"twofa-portal/backend/api"
)

// UserSource reads the authenticated user for a request. Satisfied by
// *session.Manager; an interface so guard tests can stub it.
type UserSource interface {
	AuthUser(r *http.Request) *api.User
}

// RequireUser guards pages that need an authenticated user in the
// session (profile, OTP validation). The check runs on every request
// to the guarded path, so a session cleared between navigations is
// caught at the next one. Absence redirects to the login page.
func RequireUser(users UserSource, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if users.AuthUser(r) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
