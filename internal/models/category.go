package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	Color       string `gorm:"type:varchar(7);default:'#007bff'"`
	Icon        string
	Order       int  `gorm:"default:0"`
	IsActive    bool `gorm:"default:true"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
