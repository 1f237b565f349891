package models

import "time"

// LogEntry is one activity record. UserID is the upstream account
// identifier (the portal keeps no user table of its own).
type LogEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Level     string    `json:"level" gorm:"index"`
	Message   string    `json:"message"`
	Source    string    `json:"source" gorm:"index"`
	UserID    string    `json:"user_id" gorm:"index"`
	Data      string    `json:"data"`
}
