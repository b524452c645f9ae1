package dto

import "time"

// CreatePharmacyRequest entrada para registrar una farmacia.
type CreatePharmacyRequest struct {
	Name                 string `json:"name" validate:"required,min=1,max=200"`
	CNPJ                 string `json:"cnpj" validate:"required,len=14,numeric"`
	Address              string `json:"address"`
	Phone                string `json:"phone"`
	Email                string `json:"email" validate:"omitempty,email"`
	TechnicalResponsible string `json:"technical_responsible"`
	CRF                  string `json:"crf"`
}

// PharmacyResponse salida de una farmacia.
type PharmacyResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	CNPJ                 string    `json:"cnpj"`
	Address              string    `json:"address"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email"`
	TechnicalResponsible string    `json:"technical_responsible"`
	CRF                  string    `json:"crf"`
	CreatedAt            time.Time `json:"created_at"`
}
