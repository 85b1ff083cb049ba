package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is one durable fan-out record per recipient per article.
// ReadToken is the sole credential for the tracking-pixel endpoint, so it
// is generated once at creation and never regenerated. The numeric primary
// key is part of the public mark-read URL contract.
type Notification struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	RecipientID string `gorm:"not null;index"`
	Recipient   User   `gorm:"foreignKey:RecipientID"`

	ArticleID *string
	Article   *Article `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`

	Title            string           `gorm:"size:300;not null"`
	Message          string
	NotificationType NotificationType `gorm:"type:varchar(20);not null;default:'general'"`
	Data             datatypes.JSON   `gorm:"type:jsonb"`

	IsRead        bool `gorm:"default:false;index"`
	EmailOpenedAt *time.Time

	ReadToken string `gorm:"size:64;uniqueIndex;not null"`

	CreatedAt time.Time `gorm:"default:now();index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ReadToken == "" {
		n.ReadToken = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return nil
}
