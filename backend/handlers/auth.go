package handlers

import (
	"log/slog"
	"net/http"

	"twofa-portal/backend/api"
	"twofa-portal/backend/forms"
	"twofa-portal/frontend/templates"
)

func (a *App) LoginPage(w http.ResponseWriter, r *http.Request) {
	templates.Login(w, templates.FormData{PageData: a.pageData(w, r, "Login")})
}

func (a *App) RegisterPage(w http.ResponseWriter, r *http.Request) {
	templates.Register(w, templates.FormData{PageData: a.pageData(w, r, "Register")})
}

// Login posts credentials upstream. On success the returned user is
// stored wholesale; 2FA-enabled accounts continue to the OTP
// validation page, others go straight to the profile.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	values := map[string]string{"email": r.PostForm.Get("email")}

	if errs := forms.Login().Validate(r.PostForm); errs != nil {
		templates.Login(w, templates.FormData{
			PageData: a.pageData(w, r, "Login"),
			Values:   values,
			Errors:   errs,
		})
		return
	}

	op := a.Sessions.Begin("login")
	defer a.Sessions.End(op)

	resp, cookies, err := a.API.Login(r.Context(), api.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}, a.Sessions.UpstreamCookies(r))
	if err != nil {
		slog.Warn("login failed", "source", "auth", "email", values["email"], "error", err.Error())
		templates.Login(w, templates.FormData{
			PageData: errorFlash(a.pageData(w, r, "Login"), api.UserMessage(err)),
			Values:   values,
		})
		return
	}

	a.Sessions.SetUpstreamCookies(w, r, cookies)
	if err := a.Sessions.SetAuthUser(w, r, &resp.User); err != nil {
		slog.Error("login failed: session save", "source", "auth", "error", err.Error())
		templates.Login(w, templates.FormData{
			PageData: errorFlash(a.pageData(w, r, "Login"), "Something went wrong"),
			Values:   values,
		})
		return
	}

	slog.Info("user logged in", "source", "auth", "user_id", resp.User.ID, "email", resp.User.Email)

	if resp.User.OTPEnabled {
		http.Redirect(w, r, "/login/validateOtp", http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	}
}

// Register posts the signup form upstream. Success flashes the
// server's message and returns to login; the account stays logged out
// until the user signs in.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	values := map[string]string{
		"name":  r.PostForm.Get("name"),
		"email": r.PostForm.Get("email"),
	}

	if errs := forms.Register().Validate(r.PostForm); errs != nil {
		templates.Register(w, templates.FormData{
			PageData: a.pageData(w, r, "Register"),
			Values:   values,
			Errors:   errs,
		})
		return
	}

	op := a.Sessions.Begin("register")
	defer a.Sessions.End(op)

	resp, _, err := a.API.Register(r.Context(), api.RegisterRequest{
		Name:            r.PostForm.Get("name"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		PasswordConfirm: r.PostForm.Get("passwordConfirm"),
	}, a.Sessions.UpstreamCookies(r))
	if err != nil {
		slog.Warn("registration failed", "source", "auth", "email", values["email"], "error", err.Error())
		templates.Register(w, templates.FormData{
			PageData: errorFlash(a.pageData(w, r, "Register"), api.UserMessage(err)),
			Values:   values,
		})
		return
	}

	slog.Info("user registered", "source", "auth", "email", values["email"])

	a.Sessions.AddFlash(w, r, "success", resp.Message)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	if user := a.Sessions.AuthUser(r); user != nil {
		slog.Info("user logged out", "source", "auth", "user_id", user.ID)
	}
	a.Sessions.Destroy(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
