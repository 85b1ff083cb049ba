package dto

import "time"

type SubscriptionListResponse struct {
	Publishers  []PublisherResponse  `json:"publishers"`
	Journalists []JournalistResponse `json:"journalists"`
}

type PublisherResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Website     string     `json:"website,omitempty"`
	FoundedDate *time.Time `json:"founded_date,omitempty"`
	Logo        string     `json:"logo,omitempty"`
}

// JournalistResponse is the public view of a journalist, used both in
// the follow directory and in subscription listings. It carries no
// contact details.
type JournalistResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	DisplayName    string  `json:"display_name"`
	Bio            string  `json:"bio,omitempty"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	PublisherID    *string `json:"publisher_id,omitempty"`
}

type CreatePublisherRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Website     string `json:"website" validate:"omitempty,url"`
	FoundedDate string `json:"founded_date"`
	Logo        string `json:"logo" validate:"omitempty,url"`
}
