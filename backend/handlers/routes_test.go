package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"twofa-portal/backend/api"
	"twofa-portal/backend/middleware"
)

// newPortal assembles the handlers behind the real middleware chain,
// the way main wires it: CSRF over the whole mux, the user guard on
// the profile routes.
func newPortal(t *testing.T, upstreamURL string) (http.Handler, *App) {
	t.Helper()
	app := newTestApp(t, upstreamURL)
	csrf := middleware.NewCSRFProtection(testSecret, false)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", app.LoginPage)
	mux.HandleFunc("POST /login", app.Login)
	mux.HandleFunc("GET /profile", middleware.RequireUser(app.Sessions, app.ProfilePage))
	mux.HandleFunc("POST /profile/otp/generate", middleware.RequireUser(app.Sessions, app.GenerateOTP))
	mux.HandleFunc("POST /profile/otp/verify", middleware.RequireUser(app.Sessions, app.VerifyOTP))

	return middleware.SecurityHeaders(csrf.Protect(mux)), app
}

// browser drives a handler while keeping cookies across requests.
type browser struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(handler http.Handler) *browser {
	return &browser{handler: handler, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return rr
}

var csrfInputRE = regexp.MustCompile(`name="_csrf" value="([^"]*)"`)

// pageToken pulls the embedded CSRF token out of a rendered form.
func pageToken(t *testing.T, body string) string {
	t.Helper()
	m := csrfInputRE.FindStringSubmatch(body)
	if m == nil {
		t.Fatal("Rendered page carries no _csrf input")
	}
	if m[1] == "" {
		t.Fatal("Rendered page carries an empty _csrf token")
	}
	return m[1]
}

// Test the full retry loop through the middleware chain: a rejected
// submission re-renders with a usable token and the corrected resubmit
// goes through
func TestRouter_LoginRetryAfterValidationFailure(t *testing.T) {
	up := newUpstream(t)
	up.respond("/auth/login", 200, api.LoginResponse{
		Status: "success",
		User:   api.User{ID: "42", Email: "ann@x.com"},
	})
	ts := up.serve()
	defer ts.Close()

	handler, _ := newPortal(t, ts.URL)
	b := newBrowser(handler)

	rr := b.do(httptest.NewRequest("GET", "/login", nil))
	token := pageToken(t, rr.Body.String())

	// Too-short password: blocked, re-rendered with a usable token
	form := url.Values{}
	form.Set("_csrf", token)
	form.Set("email", "ann@x.com")
	form.Set("password", "short")
	rr = b.do(postForm("/login", form, nil))
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), "Password must be more than 8 characters") {
		t.Fatalf("Expected validation re-render, got %d", rr.Code)
	}
	retryToken := pageToken(t, rr.Body.String())

	// Corrected resubmit with the re-rendered token succeeds
	form.Set("_csrf", retryToken)
	form.Set("password", "longenough1")
	rr = b.do(postForm("/login", form, nil))
	assertRedirect(t, rr, "/profile")
}

// Test the enrollment round trip through the middleware chain: the
// dialog rendered by the generate POST carries a token the verify POST
// can use
func TestRouter_EnrollmentDialogRoundTrip(t *testing.T) {
	up := newUpstream(t)
	up.respond("/auth/otp/generate", 200, api.GenerateResponse{
		OTPAuthURL: testOTPAuthURL,
		Base32:     "ABC123",
	})
	up.respond("/auth/otp/verify", 200, api.VerifyResponse{
		OTPVerified: true,
		User:        api.User{ID: "42", Email: "ann@x.com", OTPEnabled: true},
	})
	ts := up.serve()
	defer ts.Close()

	handler, app := newPortal(t, ts.URL)
	b := newBrowser(handler)
	for _, cookie := range loginAs(t, app, &api.User{ID: "42", Email: "ann@x.com"}) {
		b.cookies[cookie.Name] = cookie
	}

	rr := b.do(httptest.NewRequest("GET", "/profile", nil))
	token := pageToken(t, rr.Body.String())

	form := url.Values{}
	form.Set("_csrf", token)
	rr = b.do(postForm("/profile/otp/generate", form, nil))
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), "Scan QR Code") {
		t.Fatalf("Expected the enrollment dialog, got %d", rr.Code)
	}
	dialogToken := pageToken(t, rr.Body.String())

	verify := url.Values{}
	verify.Set("_csrf", dialogToken)
	verify.Set("token", "123456")
	verify.Set("otpauth_url", testOTPAuthURL)
	verify.Set("base32", "ABC123")
	rr = b.do(postForm("/profile/otp/verify", verify, nil))
	assertRedirect(t, rr, "/profile")
}
