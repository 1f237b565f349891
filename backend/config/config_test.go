package config

import (
	"os"
	"testing"
	"time"
)

// Test that session timeout can be configured
func TestConfig_SessionTimeout(t *testing.T) {
	// Reset config
	C = Config{}

	// Set env var for session timeout
	os.Setenv("SESSION_TIMEOUT", "1h")
	defer os.Unsetenv("SESSION_TIMEOUT")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	expected := 1 * time.Hour
	if C.Session.Timeout != expected {
		t.Errorf("Expected session timeout %v, got %v", expected, C.Session.Timeout)
	}
}

// Test session timeout default value
func TestConfig_SessionTimeoutDefault(t *testing.T) {
	// Reset config
	C = Config{}

	// Clear any env var
	os.Unsetenv("SESSION_TIMEOUT")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	// Default should be 24 hours
	expected := 24 * time.Hour
	if C.Session.Timeout != expected {
		t.Errorf("Expected default session timeout %v, got %v", expected, C.Session.Timeout)
	}
}

// Test the upstream API URL default and override
func TestConfig_UpstreamAPIURL(t *testing.T) {
	C = Config{}
	os.Unsetenv("UPSTREAM_API_URL")

	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if C.Upstream.APIURL != "http://localhost:8000/api" {
		t.Errorf("Expected default upstream URL, got %q", C.Upstream.APIURL)
	}

	os.Setenv("UPSTREAM_API_URL", "https://auth.example.com/api")
	defer os.Unsetenv("UPSTREAM_API_URL")

	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if C.Upstream.APIURL != "https://auth.example.com/api" {
		t.Errorf("Expected override upstream URL, got %q", C.Upstream.APIURL)
	}
}
