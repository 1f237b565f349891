package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"twofa-portal/backend/database"
	"twofa-portal/backend/models"
)

type ActivityResponse struct {
	Logs    []models.LogEntry `json:"logs"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// GetActivity returns the portal's own activity log, paginated and
// filterable by level, source and free text.
func (a *App) GetActivity(w http.ResponseWriter, r *http.Request) {
	var logs []models.LogEntry
	q := database.DB.Order("created_at DESC")

	// Pagination
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	// Filters
	if level := r.URL.Query().Get("level"); level != "" {
		q = q.Where("level = ?", level)
	}
	if source := r.URL.Query().Get("source"); source != "" {
		q = q.Where("source = ?", source)
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		q = q.Where("message LIKE ? OR data LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	// Count total
	var total int64
	q.Model(&models.LogEntry{}).Count(&total)

	// Apply pagination
	offset := (page - 1) * perPage
	q.Offset(offset).Limit(perPage).Find(&logs)

	resp := ActivityResponse{
		Logs:    logs,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
