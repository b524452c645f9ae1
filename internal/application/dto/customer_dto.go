package dto

import "time"

// CreateCustomerRequest body para POST /customers.
type CreateCustomerRequest struct {
	Name      string     `json:"name" validate:"required,min=1,max=200"`
	CPF       string     `json:"cpf" validate:"omitempty,len=11,numeric"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Address   string     `json:"address"`
	BirthDate *time.Time `json:"birth_date"`
}

// UpdateCustomerRequest body para PUT /customers/:id.
type UpdateCustomerRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Phone     *string    `json:"phone"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	Address   *string    `json:"address"`
	BirthDate *time.Time `json:"birth_date"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID         string     `json:"id"`
	PharmacyID string     `json:"pharmacy_id"`
	Name       string     `json:"name"`
	CPF        string     `json:"cpf,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Address    string     `json:"address,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
