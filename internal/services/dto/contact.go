package dto

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

type UpdateRoleRequest struct {
	Role        string  `json:"role" validate:"required,is-user-role"`
	PublisherID *string `json:"publisher_id"`
}
