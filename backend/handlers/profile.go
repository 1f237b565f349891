package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pquerna/otp"

	"twofa-portal/backend/api"
	"twofa-portal/backend/forms"
	"twofa-portal/frontend/templates"
)

func (a *App) ProfilePage(w http.ResponseWriter, r *http.Request) {
	templates.Profile(w, templates.ProfileData{PageData: a.pageData(w, r, "Profile")})
}

// GenerateOTP requests a provisioning secret for the current user and
// re-renders the profile with the enrollment dialog open. Enrollment
// is not committed until a code is verified; closing the dialog
// discards the secret.
func (a *App) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	user := a.Sessions.AuthUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	op := a.Sessions.Begin("otp-generate")
	defer a.Sessions.End(op)

	resp, cookies, err := a.API.GenerateOTP(r.Context(), api.GenerateRequest{
		UserID: user.ID,
		Email:  user.Email,
	}, a.Sessions.UpstreamCookies(r))
	if err != nil {
		slog.Warn("otp generate failed", "source", "otp", "user_id", user.ID, "error", err.Error())
		templates.Profile(w, templates.ProfileData{
			PageData: errorFlash(a.pageData(w, r, "Profile"), api.UserMessage(err)),
		})
		return
	}
	a.Sessions.SetUpstreamCookies(w, r, cookies)

	dialog, err := a.enrollmentDialog(resp.OTPAuthURL, resp.Base32, "")
	if err != nil {
		slog.Error("qr encode failed", "source", "otp", "user_id", user.ID, "error", err.Error())
		templates.Profile(w, templates.ProfileData{
			PageData: errorFlash(a.pageData(w, r, "Profile"), "Failed to render the QR code"),
		})
		return
	}

	slog.Info("otp secret issued", "source", "otp", "user_id", user.ID)
	templates.Profile(w, templates.ProfileData{
		PageData: a.pageData(w, r, "Profile"),
		Dialog:   dialog,
	})
}

// VerifyOTP submits the enrollment code. Success stores the updated
// user (now 2FA-enabled) and closes the dialog; rejection keeps the
// dialog open with the same secret for retry.
func (a *App) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	user := a.Sessions.AuthUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	otpauthURL := r.PostForm.Get("otpauth_url")
	base32 := r.PostForm.Get("base32")

	reopen := func(pd templates.PageData, tokenError string) {
		dialog, err := a.enrollmentDialog(otpauthURL, base32, tokenError)
		if err != nil {
			// Secret didn't round-trip; drop the dialog
			templates.Profile(w, templates.ProfileData{PageData: pd})
			return
		}
		templates.Profile(w, templates.ProfileData{PageData: pd, Dialog: dialog})
	}

	if errs := forms.Token().Validate(r.PostForm); errs != nil {
		reopen(a.pageData(w, r, "Profile"), errs["token"])
		return
	}

	op := a.Sessions.Begin("otp-verify")
	defer a.Sessions.End(op)

	resp, cookies, err := a.API.VerifyOTP(r.Context(), api.TokenRequest{
		Token:  r.PostForm.Get("token"),
		UserID: user.ID,
	}, a.Sessions.UpstreamCookies(r))
	if err != nil {
		slog.Warn("otp verify failed", "source", "otp", "user_id", user.ID, "error", err.Error())
		reopen(a.pageData(w, r, "Profile"), api.UserMessage(err))
		return
	}

	a.Sessions.SetUpstreamCookies(w, r, cookies)
	a.Sessions.SetAuthUser(w, r, &resp.User)

	slog.Info("otp enabled", "source", "otp", "user_id", resp.User.ID)
	a.Sessions.AddFlash(w, r, "success", "Two-Factor Auth Enabled Successfully")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// DisableOTP turns 2FA off on upstream acknowledgement; no extra
// confirmation step.
func (a *App) DisableOTP(w http.ResponseWriter, r *http.Request) {
	user := a.Sessions.AuthUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	op := a.Sessions.Begin("otp-disable")
	defer a.Sessions.End(op)

	resp, cookies, err := a.API.DisableOTP(r.Context(), api.DisableRequest{
		UserID: user.ID,
	}, a.Sessions.UpstreamCookies(r))
	if err != nil {
		slog.Warn("otp disable failed", "source", "otp", "user_id", user.ID, "error", err.Error())
		templates.Profile(w, templates.ProfileData{
			PageData: errorFlash(a.pageData(w, r, "Profile"), api.UserMessage(err)),
		})
		return
	}

	a.Sessions.SetUpstreamCookies(w, r, cookies)
	a.Sessions.SetAuthUser(w, r, &resp.User)

	slog.Info("otp disabled", "source", "otp", "user_id", resp.User.ID)
	a.Sessions.AddFlash(w, r, "warning", "Two Factor Authentication Disabled")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// enrollmentDialog renders the provisioning URI as a scannable PNG
// data URI alongside the base32 manual-entry secret.
func (a *App) enrollmentDialog(otpauthURL, base32, tokenError string) (*templates.TwoFactorData, error) {
	dataURL, err := qrDataURL(otpauthURL)
	if err != nil {
		return nil, err
	}
	return &templates.TwoFactorData{
		QRCodeDataURL: dataURL,
		OTPAuthURL:    otpauthURL,
		Base32:        base32,
		TokenError:    tokenError,
	}, nil
}

// qrDataURL encodes an otpauth provisioning URI as a PNG data URI
func qrDataURL(otpauthURL string) (string, error) {
	u, err := url.Parse(otpauthURL)
	if err != nil || u.Scheme != "otpauth" {
		return "", fmt.Errorf("invalid provisioning URI %q", otpauthURL)
	}

	key, err := otp.NewKeyFromURL(otpauthURL)
	if err != nil {
		return "", fmt.Errorf("invalid provisioning URI: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
