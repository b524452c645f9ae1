package entity

import "time"

// Customer representa un cliente de la farmacia. Opcional en una venta.
type Customer struct {
	ID         string
	PharmacyID string
	Name       string
	CPF        string // 11 dígitos, sin máscara; único por farmacia cuando se informa
	Phone      string
	Email      string
	Address    string
	BirthDate  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
