package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/metrics"
	"github.com/hance08/bankd/internal/store"
)

type Config struct {
	WebhookURL   string
	Secret       string
	PollInterval time.Duration
	MaxAttempts  int
}

// Dispatcher delivers transaction-completed events over a webhook, driven
// by a durable outbox table. Events survive process restarts and are
// retried with backoff; delivery is at-least-once.
type Dispatcher struct {
	repo    store.Repository
	cfg     Config
	client  *http.Client
	metrics *metrics.Collector
	logger  *slog.Logger
}

func NewDispatcher(repo store.Repository, cfg Config, collector *metrics.Collector, logger *slog.Logger) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		repo:    repo,
		cfg:     cfg,
		client:  &http.Client{Timeout: webhookTimeout},
		metrics: collector,
		logger:  logger,
	}
}

// Enqueue records an event in the outbox. It runs after the financial
// commit and never inside it.
func (d *Dispatcher) Enqueue(event ledger.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return d.repo.EnqueueNotification(uuid.NewString(), payload, time.Now().Unix())
}

// Start runs the delivery worker until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		d.logger.Info("notification dispatcher started",
			slog.String("webhook_url", d.cfg.WebhookURL),
			slog.Duration("poll_interval", d.cfg.PollInterval))

		ticker := time.NewTicker(d.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				d.logger.Info("notification dispatcher stopped")
				return
			case <-ticker.C:
				for d.processNext() {
				}
			}
		}
	}()
}

// processNext delivers one due job. It reports whether a job was found so
// the caller can drain the backlog within a single tick.
func (d *Dispatcher) processNext() bool {
	job, err := d.repo.NextDueNotification(time.Now().Unix())
	if err != nil {
		if !errors.Is(err, store.ErrJobNotFound) {
			d.logger.Error("failed to poll outbox", slog.String("error", err.Error()))
		}
		return false
	}

	if err := sendWebhook(d.client, d.cfg.WebhookURL, job.Payload, d.cfg.Secret); err != nil {
		d.handleFailure(job, err)
		return true
	}

	if err := d.repo.MarkNotificationCompleted(job.ID); err != nil {
		d.logger.Error("failed to mark notification completed",
			slog.String("job_id", job.ID), slog.String("error", err.Error()))
		return true
	}

	d.metrics.ObserveNotification(true)
	d.logger.Info("notification delivered", slog.String("job_id", job.ID))
	return true
}

func (d *Dispatcher) handleFailure(job *store.NotificationJob, cause error) {
	d.logger.Warn("webhook delivery failed",
		slog.String("job_id", job.ID),
		slog.Int("attempts", job.Attempts),
		slog.String("error", cause.Error()))

	if job.Attempts >= d.cfg.MaxAttempts {
		if err := d.repo.MarkNotificationFailed(job.ID); err != nil {
			d.logger.Error("failed to mark notification failed",
				slog.String("job_id", job.ID), slog.String("error", err.Error()))
		}
		d.metrics.ObserveNotification(false)
		d.logger.Error("notification gave up after max attempts", slog.String("job_id", job.ID))
		return
	}

	// Linear backoff, ten seconds per attempt already made.
	nextRun := time.Now().Add(time.Duration(job.Attempts*10) * time.Second).Unix()
	if err := d.repo.RescheduleNotification(job.ID, nextRun); err != nil {
		d.logger.Error("failed to reschedule notification",
			slog.String("job_id", job.ID), slog.String("error", err.Error()))
	}
}
