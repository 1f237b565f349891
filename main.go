package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"twofa-portal/backend/api"
	"twofa-portal/backend/config"
	"twofa-portal/backend/database"
	"twofa-portal/backend/handlers"
	"twofa-portal/backend/logger"
	"twofa-portal/backend/middleware"
	"twofa-portal/backend/session"
)

// Rate limiter for auth endpoints (10 requests per minute)
var authRateLimiter = middleware.NewRateLimiter(10, time.Minute)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := database.Init(config.C.DatabasePath); err != nil {
		log.Fatal("Failed to init database:", err)
	}

	// Initialize structured logging
	slog.SetDefault(slog.New(logger.NewDBHandler(database.DB)))
	go logger.CleanupOldLogs(database.DB, config.C.Logs.Retention)

	// Session manager with configured secret and timeout
	sessions, err := session.New(config.C.Session.Secret, config.C.Session.Timeout, config.C.TLS.Enabled)
	if err != nil {
		log.Fatal("Failed to init sessions:", err)
	}

	// Upstream authentication API client
	client, err := api.New(config.C.Upstream.APIURL)
	if err != nil {
		log.Fatal("Failed to init API client:", err)
	}

	app := handlers.New(sessions, client)
	csrf := middleware.NewCSRFProtection(config.C.Session.Secret, config.C.TLS.Enabled)

	slog.Info("server starting", "source", "main",
		"listen", config.C.Listen, "public_url", config.C.PublicURL,
		"upstream", config.C.Upstream.APIURL)

	mux := http.NewServeMux()

	// Health check (unauthenticated, for load balancers)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("GET /static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir("frontend/static"))))

	// Pages
	mux.HandleFunc("GET /{$}", app.Home)
	mux.HandleFunc("GET /login", app.LoginPage)
	mux.HandleFunc("GET /register", app.RegisterPage)

	// Auth actions (rate limited)
	mux.HandleFunc("POST /login", authRateLimiter.LimitFunc(app.Login))
	mux.HandleFunc("POST /register", authRateLimiter.LimitFunc(app.Register))
	mux.HandleFunc("POST /logout", app.Logout)

	// Guarded pages: the user check runs on every navigation
	mux.HandleFunc("GET /login/validateOtp", middleware.RequireUser(sessions, app.ValidateOTPPage))
	mux.HandleFunc("POST /login/validateOtp", authRateLimiter.LimitFunc(middleware.RequireUser(sessions, app.ValidateOTP)))
	mux.HandleFunc("GET /profile", middleware.RequireUser(sessions, app.ProfilePage))
	mux.HandleFunc("POST /profile/otp/generate", middleware.RequireUser(sessions, app.GenerateOTP))
	mux.HandleFunc("POST /profile/otp/verify", middleware.RequireUser(sessions, app.VerifyOTP))
	mux.HandleFunc("POST /profile/otp/disable", middleware.RequireUser(sessions, app.DisableOTP))

	// Activity log (JSON)
	mux.HandleFunc("GET /activity", middleware.RequireUser(sessions, app.GetActivity))

	// CSRF wraps the mux so every form post is validated; security
	// headers wrap everything
	handler := middleware.SecurityHeaders(csrf.Protect(mux))

	fmt.Printf("Server running at %s (public: %s)\n", config.C.Listen, config.C.PublicURL)
	if config.C.TLS.Enabled {
		slog.Info("starting server with TLS", "source", "main")
		log.Fatal(http.ListenAndServeTLS(config.C.Listen, config.C.TLS.Cert, config.C.TLS.Key, handler))
	} else {
		log.Fatal(http.ListenAndServe(config.C.Listen, handler))
	}
}
