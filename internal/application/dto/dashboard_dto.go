package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /dashboard/summary (DashboardData).
type DashboardSummaryDTO struct {
	Sales     SalesCountBlock `json:"vendas"`
	Products  ProductsBlock   `json:"produtos"`
	Customers CustomersBlock  `json:"clientes"`
	Revenue   RevenueBlock    `json:"receita"`
	DateLabel string          `json:"date_label"` // ej: "Outubro 2026"
}

// SalesCountBlock cantidad de ventas finalizadas.
type SalesCountBlock struct {
	Today     int             `json:"hoje"`
	Month     int             `json:"mes"`
	Variation decimal.Decimal `json:"variacao"` // % vs mismo tramo del mes anterior
}

// ProductsBlock estado del catálogo.
type ProductsBlock struct {
	Total        int `json:"total"`
	ExpiringSoon int `json:"vencendoEm30Dias"`
	LowStock     int `json:"estoqueBaixo"`
}

// CustomersBlock clientes.
type CustomersBlock struct {
	Total        int `json:"total"`
	NewThisMonth int `json:"novosNoMes"`
}

// RevenueBlock ingresos de ventas finalizadas (total con descuentos).
type RevenueBlock struct {
	Today     decimal.Decimal `json:"hoje"`
	Month     decimal.Decimal `json:"mes"`
	Variation decimal.Decimal `json:"variacao"`
}
