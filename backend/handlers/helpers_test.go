package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"twofa-portal/backend/api"
	"twofa-portal/backend/session"
)

const testSecret = "test-secret-key-32-chars-long!!!"

// upstream is a scripted stand-in for the authentication API.
type upstream struct {
	t *testing.T

	// per-path JSON responses; status defaults to 200
	responses map[string]upstreamResponse

	// last decoded request body per path
	requests map[string]map[string]any
	calls    map[string]int
}

type upstreamResponse struct {
	status int
	body   any
}

func newUpstream(t *testing.T) *upstream {
	return &upstream{
		t:         t,
		responses: make(map[string]upstreamResponse),
		requests:  make(map[string]map[string]any),
		calls:     make(map[string]int),
	}
}

func (u *upstream) respond(path string, status int, body any) {
	u.responses[path] = upstreamResponse{status: status, body: body}
}

func (u *upstream) serve() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		u.requests[r.URL.Path] = body
		u.calls[r.URL.Path]++

		resp, ok := u.responses[r.URL.Path]
		if !ok {
			u.t.Errorf("Unexpected upstream call: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if resp.status != 0 {
			w.WriteHeader(resp.status)
		}
		json.NewEncoder(w).Encode(resp.body)
	}))
}

func newTestApp(t *testing.T, upstreamURL string) *App {
	t.Helper()
	sessions, err := session.New(testSecret, time.Hour, false)
	if err != nil {
		t.Fatal(err)
	}
	client, err := api.New(upstreamURL)
	if err != nil {
		t.Fatal(err)
	}
	return New(sessions, client)
}

// loginAs stores a user in a fresh session and returns the cookies a
// browser would carry on the next request.
func loginAs(t *testing.T, app *App, user *api.User) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", nil)
	rr := httptest.NewRecorder()
	if err := app.Sessions.SetAuthUser(rr, req, user); err != nil {
		t.Fatal(err)
	}
	return browserCookies(rr)
}

// browserCookies returns the cookies a browser would carry after the
// response, keeping only the last Set-Cookie value per name.
func browserCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	last := make(map[string]*http.Cookie)
	var order []string
	for _, cookie := range rr.Result().Cookies() {
		if _, seen := last[cookie.Name]; !seen {
			order = append(order, cookie.Name)
		}
		last[cookie.Name] = cookie
	}
	cookies := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		cookies = append(cookies, last[name])
	}
	return cookies
}

// carry copies a response's cookies onto the next request.
func carry(rr *httptest.ResponseRecorder, req *http.Request) {
	for _, cookie := range browserCookies(rr) {
		req.AddCookie(cookie)
	}
}

func postForm(path string, form url.Values, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303 redirect, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != location {
		t.Errorf("Expected redirect to %s, got %s", location, loc)
	}
}

func assertNotLoading(t *testing.T, app *App) {
	t.Helper()
	if app.Sessions.Loading() {
		t.Error("No operation should remain in flight after the handler returns")
	}
}
