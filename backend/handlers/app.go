package handlers

import (
	"net/http"

	"twofa-portal/backend/api"
	"twofa-portal/backend/middleware"
	"twofa-portal/backend/session"
	"twofa-portal/frontend/templates"
)

// App holds the portal's shared state and is injected into every
// handler: the session manager and the upstream API client. No
// package-level singletons.
type App struct {
	Sessions *session.Manager
	API      *api.Client
}

func New(sessions *session.Manager, client *api.Client) *App {
	return &App{Sessions: sessions, API: client}
}

// pageData assembles the shared page state. Reading flashes clears
// them, so call it once per rendered page, before writing the body.
func (a *App) pageData(w http.ResponseWriter, r *http.Request, title string) templates.PageData {
	return templates.PageData{
		Title:   title,
		User:    a.Sessions.AuthUser(r),
		Flashes: a.Sessions.Flashes(w, r),
		CSRF:    middleware.CSRFToken(r),
	}
}

// errorFlash appends a transient error to an already-assembled page,
// for failures surfaced on the same render rather than after a
// redirect.
func errorFlash(pd templates.PageData, message string) templates.PageData {
	pd.Flashes = append(pd.Flashes, session.Flash{Level: "error", Message: message})
	return pd
}

func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	templates.Home(w, a.pageData(w, r, "Home"))
}
