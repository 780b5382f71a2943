package dto

type ContactRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
