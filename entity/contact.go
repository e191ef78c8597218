package entity

// ContactRequest is a general-enquiry submission from the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required"`
	Phone   string `json:"phone" validate:"omitempty,loose_phone"`
}

// ContactResponse acknowledges a relayed enquiry.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
