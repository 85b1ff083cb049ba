package models

import "time"

type Publisher struct {
	BaseModel
	Name        string `gorm:"not null;index"`
	Description string
	Website     string
	FoundedDate *time.Time
	Logo        string

	// Editors and journalists working for this publisher.
	StaffMembers []User `gorm:"many2many:publisher_staff"`

	// Readers subscribed to this publisher (reverse side of
	// User.SubscribedPublishers).
	Subscribers []User `gorm:"many2many:publisher_subscriptions"`
}
