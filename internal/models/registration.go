package models

import (
	"time"
)

// RegistrationFields are the mutable columns of a registration. An update
// overwrites all of them at once.
type RegistrationFields struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	College      string `json:"college"`
	Course       string `json:"course"`
	Branch       string `json:"branch"`
	Year         string `json:"year"`
	Events       string `json:"events"`
	Message      string `json:"message"`
	ReferrerCode string `json:"referrer_code"`
}

type Registration struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Usn                string    `json:"usn" gorm:"index"`
	RegistrationFields `gorm:"embedded"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
