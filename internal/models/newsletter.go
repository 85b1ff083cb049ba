package models

import "time"

type Newsletter struct {
	BaseModel
	Title   string `gorm:"size:300;not null"`
	Content string `gorm:"not null"`

	AuthorID string `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	PublisherID *string
	Publisher   *Publisher `gorm:"foreignKey:PublisherID"`

	IsIndependent bool `gorm:"default:false"`
	SentAt        *time.Time
}
