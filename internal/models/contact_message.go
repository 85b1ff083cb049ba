package models

import "time"

type ContactMessage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:120;not null"`
	Email     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	CreatedAt time.Time
}
