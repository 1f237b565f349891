package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"twofa-portal/backend/models"

	"gorm.io/gorm"
)

// DBHandler writes every record to stdout as JSON and persists it as
// an activity row. "source" and "user_id" attrs become columns, the
// rest land in the Data blob.
type DBHandler struct {
	db          *gorm.DB
	jsonHandler slog.Handler
	attrs       []slog.Attr
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	return &DBHandler{
		db:          db,
		jsonHandler: slog.NewJSONHandler(os.Stdout, nil),
		attrs:       []slog.Attr{},
	}
}

func (h *DBHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *DBHandler) Handle(ctx context.Context, r slog.Record) error {
	// Write to stdout
	_ = h.jsonHandler.Handle(ctx, r)

	// Extract attrs
	attrs := make(map[string]any)
	var source, userID string

	collect := func(a slog.Attr) {
		switch a.Key {
		case "source":
			source = a.Value.String()
		case "user_id":
			userID = a.Value.String()
		default:
			attrs[a.Key] = a.Value.Any()
		}
	}

	// Include handler-level attrs
	for _, a := range h.attrs {
		collect(a)
	}

	// Include record attrs
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	var data string
	if len(attrs) > 0 {
		b, _ := json.Marshal(attrs)
		data = string(b)
	}

	entry := models.LogEntry{
		CreatedAt: time.Now(),
		Level:     r.Level.String(),
		Message:   r.Message,
		Source:    source,
		UserID:    userID,
		Data:      data,
	}

	return h.db.Create(&entry).Error
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &DBHandler{
		db:          h.db,
		jsonHandler: h.jsonHandler,
		attrs:       newAttrs,
	}
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	return h
}

// CleanupOldLogs removes activity rows older than maxAge
func CleanupOldLogs(db *gorm.DB, maxAge time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		cutoff := time.Now().Add(-maxAge)
		db.Where("created_at < ?", cutoff).Delete(&models.LogEntry{})
	}
}
