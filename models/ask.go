package models

import "time"

// AskSubmission is an append-only record of the ask-a-question form.
type AskSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Subject   string    `gorm:"size:200;not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Ref       string    `gorm:"size:255" json:"ref"`
	CreatedAt time.Time `json:"created_at"`
}
