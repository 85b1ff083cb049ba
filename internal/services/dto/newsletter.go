package dto

import "time"

type CreateNewsletterRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=300"`
	Content       string `json:"content" validate:"required,min=10"`
	IsIndependent bool   `json:"is_independent"`
}

type NewsletterResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	AuthorID      string     `json:"author_id"`
	PublisherID   *string    `json:"publisher_id,omitempty"`
	IsIndependent bool       `json:"is_independent"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type SendNewsletterResult struct {
	Recipients int `json:"recipients"`
	Emailed    int `json:"emailed"`
	Failed     int `json:"failed"`
}
