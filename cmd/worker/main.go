package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-farmaceutico/internal/jobs"
	"github.com/jhoicas/crm-farmaceutico/pkg/config"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	// El barrido lee el mismo inventario que la API: sin base compartida no hay nada que revisar.
	if cfg.App.Storage != "postgres" {
		log.Fatal().Str("storage", cfg.App.Storage).Msg("el worker requiere STORAGE_DRIVER=postgres")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	alerts := inventory.NewAlertUseCase(
		postgres.NewStockLotRepository(pool),
		postgres.NewProductRepository(pool),
		postgres.NewPharmacyRepository(pool),
		inventory.SystemClock,
		cfg.Sales.ExpiryAlertDays,
	)
	scanJob := jobs.NewExpiryScanJob(alerts, log, cfg.Sales.ExpiryAlertDays)

	scanTask, err := jobs.NewExpiryScanTask(cfg.Sales.ExpiryAlertDays, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("armar tarea de vencimientos")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Concurrency: cfg.Worker.Concurrency,
		Logger:      log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExpiryScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.ExpiryScanCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	log.Info().Str("cron", cfg.Worker.ExpiryScanCron).Int("days", cfg.Sales.ExpiryAlertDays).Msg("worker de vencimientos")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker detenido con error")
	}
	log.Info().Msg("worker detenido")
}
