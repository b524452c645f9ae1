package entity

import "time"

// Pharmacy representa una farmacia (tenant). Todos los demás registros cuelgan de ella.
type Pharmacy struct {
	ID                   string
	Name                 string
	CNPJ                 string // 14 dígitos, sin máscara
	Address              string
	Phone                string
	Email                string
	TechnicalResponsible string // farmacéutico responsable técnico
	CRF                  string // registro en el Conselho Regional de Farmácia
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
