package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Notifyd/internal/domain"
)

// RecipientRepo читает notification_settings напрямую из Postgres.
type RecipientRepo struct {
	pool *pgxpool.Pool
}

// NewRecipientRepo создаёт новый RecipientRepo.
func NewRecipientRepo(pool *pgxpool.Pool) *RecipientRepo {
	return &RecipientRepo{pool: pool}
}

// FetchEligible возвращает включённых получателей с токеном и расписанием.
//
// times отдаётся как jsonb, чтобы элементы любого типа (text[], int[], jsonb)
// приходили в одинаковом виде и нормализовались при сопоставлении.
func (r *RecipientRepo) FetchEligible(ctx context.Context) ([]domain.Recipient, error) {
	query := `
		SELECT user_id::text, fcm_token, to_jsonb(times), enabled
		FROM notification_settings
		WHERE fcm_token IS NOT NULL
		  AND times IS NOT NULL
		  AND enabled = true
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query recipients: %v", domain.ErrTransientFetch, err)
	}
	defer rows.Close()

	recipients, err := pgx.CollectRows(rows, scanRecipient)
	if err != nil {
		return nil, fmt.Errorf("%w: scan recipients: %v", domain.ErrTransientFetch, err)
	}
	return recipients, nil
}

func scanRecipient(row pgx.CollectableRow) (domain.Recipient, error) {
	var (
		rec       domain.Recipient
		timesJSON []byte
	)
	if err := row.Scan(&rec.ID, &rec.DeliveryToken, &timesJSON, &rec.Enabled); err != nil {
		return rec, err
	}

	times, err := decodeTimes(timesJSON)
	if err != nil {
		return rec, fmt.Errorf("decode times for %s: %w", rec.ID, err)
	}
	rec.Times = times
	return rec, nil
}
