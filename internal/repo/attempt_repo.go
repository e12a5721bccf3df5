package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Notifyd/internal/domain"
)

// AttemptRepo пишет попытки доставки в notification_logs.
type AttemptRepo struct {
	pool *pgxpool.Pool
}

// NewAttemptRepo создаёт новый AttemptRepo.
func NewAttemptRepo(pool *pgxpool.Pool) *AttemptRepo {
	return &AttemptRepo{pool: pool}
}

// WriteAttempt сохраняет запись. created_at проставляет база (DEFAULT now()).
func (r *AttemptRepo) WriteAttempt(ctx context.Context, attempt domain.DispatchAttempt) error {
	query := `
		INSERT INTO notification_logs (user_id, status, message)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query,
		attempt.RecipientID,
		attempt.StatusCode,
		attempt.Message,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}
