package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailabilityRepository is the persistence boundary for per-listing
// blocked dates. Writes are idempotent: blocking a blocked date or
// unblocking a free one is harmless.
type AvailabilityRepository interface {
	BlockedDates(ctx context.Context, listingID int64) ([]string, error)
	BlockDates(ctx context.Context, listingID int64, dates []string) error
	UnblockDates(ctx context.Context, listingID int64, dates []string) error
}

type PGAvailabilityRepository struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepository(db *pgxpool.Pool) AvailabilityRepository {
	return &PGAvailabilityRepository{db: db}
}

func (r *PGAvailabilityRepository) BlockedDates(ctx context.Context, listingID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT to_char(date, 'YYYY-MM-DD') FROM blocked_dates WHERE listing_id=$1 ORDER BY date`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *PGAvailabilityRepository) BlockDates(ctx context.Context, listingID int64, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range dates {
		if _, err := tx.Exec(ctx, `INSERT INTO blocked_dates (listing_id, date) VALUES ($1, $2::date)
			ON CONFLICT (listing_id, date) DO NOTHING`, listingID, d); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGAvailabilityRepository) UnblockDates(ctx context.Context, listingID int64, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM blocked_dates WHERE listing_id=$1 AND date = ANY($2::date[])`, listingID, dates)
	return err
}

var _ AvailabilityRepository = (*PGAvailabilityRepository)(nil)
