// Package models contains shared data models used across the cancerscan codebase.
package models

import "time"

// CreatedAtLayout is the textual form of Prediction.CreatedAt: UTC ISO-8601
// with millisecond precision. Values in this layout sort chronologically.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// Prediction is the persisted outcome of one classification request.
// Records are created once and never mutated.
type Prediction struct {
	ID         string `db:"id"          json:"id"         firestore:"id"         gorm:"column:id;primaryKey"`
	Result     string `db:"result"      json:"result"     firestore:"result"     gorm:"column:result;not null"`
	Suggestion string `db:"suggestion"  json:"suggestion" firestore:"suggestion" gorm:"column:suggestion;not null"`
	CreatedAt  string `db:"created_at"  json:"createdAt"  firestore:"createdAt"  gorm:"column:created_at;not null;index"`
}

// TableName returns the table name for GORM.
func (Prediction) TableName() string {
	return "predictions"
}

// FormatCreatedAt renders t in CreatedAtLayout.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}
