package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"twofa-portal/backend/database"
	"twofa-portal/backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupActivityTestDB(t *testing.T) {
	var err error
	database.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	database.DB.AutoMigrate(&models.LogEntry{})
}

// Test pagination and level filtering on the activity endpoint
func TestGetActivity_FiltersAndPaginates(t *testing.T) {
	setupActivityTestDB(t)

	up := newUpstream(t)
	ts := up.serve()
	defer ts.Close()
	app := newTestApp(t, ts.URL)

	for i := 0; i < 3; i++ {
		database.DB.Create(&models.LogEntry{
			CreatedAt: time.Now(),
			Level:     "INFO",
			Message:   "user logged in",
			Source:    "auth",
			UserID:    "42",
		})
	}
	database.DB.Create(&models.LogEntry{
		CreatedAt: time.Now(),
		Level:     "WARN",
		Message:   "otp rejected",
		Source:    "otp",
		UserID:    "42",
	})

	req := httptest.NewRequest("GET", "/activity?level=INFO&per_page=2", nil)
	rr := httptest.NewRecorder()
	app.GetActivity(rr, req)

	var resp ActivityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("Expected 3 INFO rows total, got %d", resp.Total)
	}
	if len(resp.Logs) != 2 {
		t.Errorf("Expected 2 rows on the page, got %d", len(resp.Logs))
	}
	for _, entry := range resp.Logs {
		if entry.Level != "INFO" {
			t.Errorf("Filter leaked a %s row", entry.Level)
		}
	}
}

// Test free-text search over message and data
func TestGetActivity_Search(t *testing.T) {
	setupActivityTestDB(t)

	up := newUpstream(t)
	ts := up.serve()
	defer ts.Close()
	app := newTestApp(t, ts.URL)

	database.DB.Create(&models.LogEntry{CreatedAt: time.Now(), Level: "INFO", Message: "otp enabled", Source: "otp"})
	database.DB.Create(&models.LogEntry{CreatedAt: time.Now(), Level: "INFO", Message: "user registered", Source: "auth"})

	req := httptest.NewRequest("GET", "/activity?search=otp", nil)
	rr := httptest.NewRecorder()
	app.GetActivity(rr, req)

	var resp ActivityResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Logs) != 1 || resp.Logs[0].Message != "otp enabled" {
		t.Errorf("Unexpected search result: %+v", resp)
	}
}
