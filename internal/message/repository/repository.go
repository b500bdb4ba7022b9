package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/message/domain"
)

type Repository interface {
	Create(ctx context.Context, msg domain.Message) error
	FindByID(ctx context.Context, id string) (domain.Detail, error)
	MarkRead(ctx context.Context, id string, at time.Time) (domain.ReadReceipt, error)
	ListSentBy(ctx context.Context, username string) ([]domain.Outgoing, error)
	ListReceivedBy(ctx context.Context, username string) ([]domain.Incoming, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, msg domain.Message) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO messages (id, from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID,
		msg.FromUsername,
		msg.ToUsername,
		msg.Body,
		msg.SentAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return commonerrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Detail, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		        f.first_name, f.last_name, f.phone,
		        t.first_name, t.last_name, t.phone
		 FROM messages m
		 JOIN users f ON m.from_username = f.username
		 JOIN users t ON m.to_username = t.username
		 WHERE m.id = $1`,
		id,
	)

	var d domain.Detail
	err := row.Scan(
		&d.ID,
		&d.FromUsername,
		&d.ToUsername,
		&d.Body,
		&d.SentAt,
		&d.ReadAt,
		&d.From.FirstName,
		&d.From.LastName,
		&d.From.Phone,
		&d.To.FirstName,
		&d.To.LastName,
		&d.To.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Detail{}, commonerrors.ErrMessageNotFound
		}
		return domain.Detail{}, fmt.Errorf("failed to find message by id: %w", err)
	}

	d.From.Username = d.FromUsername
	d.To.Username = d.ToUsername

	return d, nil
}

func (r *PgRepository) MarkRead(ctx context.Context, id string, at time.Time) (domain.ReadReceipt, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE messages SET read_at = $2 WHERE id = $1 RETURNING id, read_at`,
		id,
		at,
	)

	var receipt domain.ReadReceipt
	if err := row.Scan(&receipt.ID, &receipt.ReadAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReadReceipt{}, commonerrors.ErrMessageNotFound
		}
		return domain.ReadReceipt{}, fmt.Errorf("failed to mark message read: %w", err)
	}

	return receipt, nil
}

func (r *PgRepository) ListSentBy(ctx context.Context, username string) ([]domain.Outgoing, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT m.id, m.to_username, u.first_name, u.last_name, u.phone,
		        m.body, m.sent_at, m.read_at
		 FROM messages m
		 JOIN users u ON m.to_username = u.username
		 WHERE m.from_username = $1
		 ORDER BY m.sent_at ASC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	defer rows.Close()

	var result []domain.Outgoing
	for rows.Next() {
		var m domain.Outgoing
		err := rows.Scan(
			&m.ID,
			&m.To.Username,
			&m.To.FirstName,
			&m.To.LastName,
			&m.To.Phone,
			&m.Body,
			&m.SentAt,
			&m.ReadAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sent message: %w", err)
		}
		result = append(result, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return result, nil
}

func (r *PgRepository) ListReceivedBy(ctx context.Context, username string) ([]domain.Incoming, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT m.id, m.from_username, u.first_name, u.last_name, u.phone,
		        m.body, m.sent_at, m.read_at
		 FROM messages m
		 JOIN users u ON m.from_username = u.username
		 WHERE m.to_username = $1
		 ORDER BY m.sent_at ASC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list received messages: %w", err)
	}
	defer rows.Close()

	var result []domain.Incoming
	for rows.Next() {
		var m domain.Incoming
		err := rows.Scan(
			&m.ID,
			&m.From.Username,
			&m.From.FirstName,
			&m.From.LastName,
			&m.From.Phone,
			&m.Body,
			&m.SentAt,
			&m.ReadAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan received message: %w", err)
		}
		result = append(result, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return result, nil
}
