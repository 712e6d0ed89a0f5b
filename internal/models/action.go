package models

import "time"

// Action is the stored row of a remediation action item. Nested structures
// are kept as JSON text.
type Action struct {
	AnalysisID    string `gorm:"primaryKey;size:64;index:idx_actions_analysis_status_priority,priority:1"`
	ID            string `gorm:"primaryKey;size:64"`
	CreatedAt     time.Time
	CreatedBy     string `gorm:"size:128;not null"`
	Summary       string `gorm:"not null"`
	Detail        string `gorm:"type:text"`
	Owner         string `gorm:"size:128"`
	Role          string `gorm:"size:128"`
	Status        string `gorm:"size:16;default:Planned;index:idx_actions_analysis_status_priority,priority:2"`
	Priority      string `gorm:"size:4;default:P2;index:idx_actions_analysis_status_priority,priority:3"`
	DueAt         string `gorm:"size:40"`
	StartedAt     string `gorm:"size:40"`
	CompletedAt   string `gorm:"size:40"`
	Dependencies  string `gorm:"type:text"`
	Risk          string `gorm:"size:8"`
	ChangeControl string `gorm:"type:text;not null"`
	Verification  string `gorm:"type:text;not null"`
	Links         string `gorm:"type:text"`
	Notes         string `gorm:"type:text"`
	UpdatedAt     time.Time
}
