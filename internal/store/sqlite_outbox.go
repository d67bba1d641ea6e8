package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// EnqueueNotification adds a delivery job to the outbox. This happens after
// a financial commit, never inside one.
func (s *Store) EnqueueNotification(id string, payload []byte, nextRunAt int64) error {
	_, err := s.db.Exec(`
		INSERT INTO notification_jobs (id, payload, status, attempts, next_run_at, created_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, id, string(payload), JobPending, nextRunAt, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// NextDueNotification claims the oldest due PENDING job by bumping its
// attempt counter, so a crash mid-delivery surfaces as a retried attempt.
func (s *Store) NextDueNotification(now int64) (*NotificationJob, error) {
	job := &NotificationJob{}
	var payload string

	err := s.db.QueryRow(`
		SELECT id, payload, status, attempts, next_run_at, created_at
		FROM notification_jobs
		WHERE status = ? AND next_run_at <= ?
		ORDER BY created_at ASC
		LIMIT 1
	`, JobPending, now).Scan(&job.ID, &payload, &job.Status, &job.Attempts, &job.NextRunAt, &job.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to query notification jobs: %w", err)
	}

	job.Payload = []byte(payload)

	if _, err := s.db.Exec(`
		UPDATE notification_jobs SET attempts = attempts + 1 WHERE id = ?
	`, job.ID); err != nil {
		return nil, fmt.Errorf("failed to claim notification job: %w", err)
	}
	job.Attempts++

	return job, nil
}

func (s *Store) MarkNotificationCompleted(id string) error {
	return s.setNotificationStatus(id, JobCompleted)
}

func (s *Store) MarkNotificationFailed(id string) error {
	return s.setNotificationStatus(id, JobFailed)
}

func (s *Store) RescheduleNotification(id string, nextRunAt int64) error {
	result, err := s.db.Exec(`
		UPDATE notification_jobs SET next_run_at = ? WHERE id = ?
	`, nextRunAt, id)
	if err != nil {
		return fmt.Errorf("failed to reschedule notification: %w", err)
	}
	return requireJob(result, id)
}

func (s *Store) setNotificationStatus(id, status string) error {
	result, err := s.db.Exec(`
		UPDATE notification_jobs SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	return requireJob(result, id)
}

func requireJob(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification job '%s': %w", id, ErrJobNotFound)
	}
	return nil
}
