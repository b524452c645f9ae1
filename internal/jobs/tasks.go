// Package jobs tareas en segundo plano sobre asynq (Redis).
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

const (
	// QueueDefault cola por defecto.
	QueueDefault = "default"
	// TaskExpiryScan barre todas las farmacias buscando lotes por vencer.
	TaskExpiryScan = "inventory:expiry-scan"
)

// ExpiryScanPayload datos de la tarea de barrido.
type ExpiryScanPayload struct {
	Days         int       `json:"days"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewExpiryScanTask construye la tarea asynq.
func NewExpiryScanTask(days int, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ExpiryScanPayload{Days: days, ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpiryScan, body, asynq.Queue(QueueDefault)), nil
}

// ExpiryScanner lo que la tarea necesita del caso de uso de alertas.
type ExpiryScanner interface {
	ScanAll(ctx context.Context, days int) ([]dto.ExpiryAlertDTO, error)
}

// ExpiryScanJob registra en el log cada lote que vence dentro del umbral.
type ExpiryScanJob struct {
	scanner     ExpiryScanner
	log         *logger.Logger
	defaultDays int
}

// NewExpiryScanJob construye el job. log puede ser nil.
func NewExpiryScanJob(scanner ExpiryScanner, log *logger.Logger, defaultDays int) *ExpiryScanJob {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpiryScanJob{scanner: scanner, log: log, defaultDays: defaultDays}
}

// Handle procesa TaskExpiryScan. Un payload ilegible no se reintenta.
func (j *ExpiryScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ExpiryScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			j.log.Error().Err(err).Str("task", t.Type()).Msg("payload inválido")
			return fmt.Errorf("expiry scan: %v: %w", err, asynq.SkipRetry)
		}
	}
	days := payload.Days
	if days <= 0 {
		days = j.defaultDays
	}
	alerts, err := j.scanner.ScanAll(ctx, days)
	if err != nil {
		return fmt.Errorf("expiry scan: %w", err)
	}
	for _, a := range alerts {
		j.log.Warn().
			Str("pharmacy_id", a.PharmacyID).
			Str("lot_id", a.LotID).
			Str("product", a.ProductName).
			Str("batch", a.Batch).
			Int("quantity", a.Quantity).
			Str("expiry_date", a.ExpiryDate).
			Int("days_left", a.DaysLeft).
			Msg("lote por vencer")
	}
	j.log.Info().Int("alerts", len(alerts)).Int("days", days).Msg("barrido de vencimientos terminado")
	return nil
}
