package handlers

import (
	"log/slog"
	"net/http"

	"twofa-portal/backend/api"
	"twofa-portal/backend/forms"
	"twofa-portal/frontend/templates"
)

func (a *App) ValidateOTPPage(w http.ResponseWriter, r *http.Request) {
	templates.ValidateOTP(w, templates.FormData{PageData: a.pageData(w, r, "Verify Code")})
}

// ValidateOTP checks the login-time authentication code upstream. A
// valid code completes the login; a rejected code bounces back to the
// login page rather than re-prompting.
func (a *App) ValidateOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	user := a.Sessions.AuthUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if errs := forms.Token().Validate(r.PostForm); errs != nil {
		templates.ValidateOTP(w, templates.FormData{
			PageData: a.pageData(w, r, "Verify Code"),
			Errors:   errs,
		})
		return
	}

	op := a.Sessions.Begin("otp-validate")
	defer a.Sessions.End(op)

	resp, cookies, err := a.API.ValidateOTP(r.Context(), api.TokenRequest{
		Token:  r.PostForm.Get("token"),
		UserID: user.ID,
	}, a.Sessions.UpstreamCookies(r))
	if err != nil {
		slog.Warn("otp validation failed", "source", "otp", "user_id", user.ID, "error", err.Error())
		templates.ValidateOTP(w, templates.FormData{
			PageData: errorFlash(a.pageData(w, r, "Verify Code"), api.UserMessage(err)),
		})
		return
	}

	a.Sessions.SetUpstreamCookies(w, r, cookies)

	if !resp.OTPValid {
		// Rejected code drops the pending login entirely
		slog.Warn("otp rejected", "source", "otp", "user_id", user.ID)
		a.Sessions.ClearAuthUser(w, r)
		a.Sessions.AddFlash(w, r, "error", "Two-factor authentication failed. Please log in again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	slog.Info("otp validated", "source", "otp", "user_id", user.ID)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
