package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// PostgresRepository stores archived orders in PostgreSQL.
type PostgresRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresRepository creates a SQL-backed archive repository.
func NewPostgresRepository(db *sql.DB, log *slog.Logger) *PostgresRepository {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresRepository{
		db:  db,
		log: log,
	}
}

// Save upserts the archived order record.
func (r *PostgresRepository) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return nil
	}

	const query = `
		INSERT INTO archived_orders (
			order_id, game_name, steam_name, raw_price, payment_method,
			requester_id, requester_name, status, thread_ref, created_at, archived_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (order_id) DO UPDATE
		SET status = EXCLUDED.status, thread_ref = EXCLUDED.thread_ref, archived_at = EXCLUDED.archived_at
	`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.GameName,
		rec.SteamName,
		rec.RawPrice,
		rec.PaymentMethod,
		rec.RequesterID,
		rec.RequesterName,
		rec.Status,
		rec.ThreadRef,
		rec.CreatedAt,
		rec.ArchivedAt,
	); err != nil {
		r.log.Error("failed to archive order", slog.String("order_id", rec.ID), slog.Any("error", err))
		return fmt.Errorf("insert archived order: %w", err)
	}

	return nil
}

// Find retrieves an archived order by its original id.
func (r *PostgresRepository) Find(ctx context.Context, id string) (*Record, error) {
	const query = `
		SELECT order_id, game_name, steam_name, raw_price, payment_method,
		       requester_id, requester_name, status, thread_ref, created_at, archived_at
		FROM archived_orders
		WHERE order_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	var rec Record
	if err := row.Scan(
		&rec.ID,
		&rec.GameName,
		&rec.SteamName,
		&rec.RawPrice,
		&rec.PaymentMethod,
		&rec.RequesterID,
		&rec.RequesterName,
		&rec.Status,
		&rec.ThreadRef,
		&rec.CreatedAt,
		&rec.ArchivedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		r.log.Error("failed to fetch archived order", slog.String("order_id", id), slog.Any("error", err))
		return nil, fmt.Errorf("select archived order: %w", err)
	}

	return &rec, nil
}
