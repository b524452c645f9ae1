package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// Querier operaciones comunes a *pgxpool.Pool y pgx.Tx; los repos se construyen con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isNumericOverflow el monto no entra en la columna NUMERIC (22003).
func isNumericOverflow(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22003"
}

// cents convierte un NUMERIC(12,2) leído con pgx-shopspring-decimal a centavos.
func cents(d decimal.Decimal) entity.Cents {
	return entity.Cents(d.Shift(2).Round(0).IntPart())
}

// nullIfEmpty guarda NULL en columnas opcionales con UNIQUE (EAN, CPF, cliente).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
