package models

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Article is the unit of the approval workflow. Status is the source of
// truth; IsApproved is a stored projection written only together with
// Status so the two can never drift apart.
type Article struct {
	BaseModel
	Title   string `gorm:"size:300;not null"`
	Slug    string `gorm:"size:250;uniqueIndex;not null"`
	Content string `gorm:"not null"`
	Summary string `gorm:"size:500"`

	AuthorID string `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	PublisherID *string
	Publisher   *Publisher `gorm:"foreignKey:PublisherID"`

	CategoryID *string
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`

	Status     ArticleStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	IsApproved bool          `gorm:"default:false;index"`

	ApprovedByID *string
	ApprovedBy   *User `gorm:"foreignKey:ApprovedByID"`
	ApprovedAt   *time.Time

	// Collected from the editor on rejection. The legacy system dropped
	// this value after reading it from the form; it is persisted here.
	RejectionReason string

	IsIndependent  bool `gorm:"default:false"`
	FeaturedImage  string
	Tags           string `gorm:"size:200"`
	SourceURL      string
	SourceImageURL string
	ViewsCount     int `gorm:"default:0"`

	PublishedAt *time.Time
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = slug.Make(a.Title)
		// Keep slugs unique without failing the insert on a title clash.
		var count int64
		if err := tx.Model(&Article{}).Where("slug = ?", a.Slug).Count(&count).Error; err == nil && count > 0 {
			a.Slug = fmt.Sprintf("%s-%d", a.Slug, time.Now().UnixMilli())
		}
	}
	return nil
}
