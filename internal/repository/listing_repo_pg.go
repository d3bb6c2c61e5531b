package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/morozova-art/lagunare/internal/domain"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingRepository interface {
	List(ctx context.Context, city string, kind domain.ListingKind) ([]domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type PGListingRepository struct {
	db *pgxpool.Pool
}

func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &PGListingRepository{db: db}
}

const listingColumns = `id, kind, name, city, price_cents, currency, read_only_calendar, sync_status, last_synced_at, created_at, updated_at`

func (r *PGListingRepository) List(ctx context.Context, city string, kind domain.ListingKind) ([]domain.Listing, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE ($1 = '' OR city = $1) AND ($2 = '' OR kind = $2)
		ORDER BY city, name`, city, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func (r *PGListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id=$1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	if err := row.Scan(&l.ID, &l.Kind, &l.Name, &l.City, &l.PriceCents, &l.Currency,
		&l.ReadOnlyCalendar, &l.SyncStatus, &l.LastSyncedAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

var _ ListingRepository = (*PGListingRepository)(nil)
