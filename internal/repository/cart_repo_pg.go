package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlreadyInCart = domain.ConflictError{Resource: "cart item", Msg: "this booking is already in the cart"}

type CartRepository interface {
	CreateHeld(ctx context.Context, item *domain.CartItem) error
	GetByToken(ctx context.Context, token string) (*domain.CartItem, error)
	ExpireHeldBefore(ctx context.Context, deadline time.Time) ([]domain.CartItem, error)
}

type PGCartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) CartRepository {
	return &PGCartRepository{db: db}
}

const cartItemColumns = `id, token, session_id, product_type, payload, total_price, currency, contact_name, phone, status, expires_at, created_at, updated_at`

// uniqueViolation is raised by the one-held-item-per-session index when two submits race past the check.
const uniqueViolation = "23505"

// CreateHeld inserts the item as HELD. A session can hold at most one item at a time.
func (r *PGCartRepository) CreateHeld(ctx context.Context, item *domain.CartItem) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var held bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cart_items WHERE session_id=$1 AND status=$2)`,
		item.SessionID, domain.CartItemStatusHeld).Scan(&held); err != nil {
		return err
	}
	if held {
		return ErrAlreadyInCart
	}

	item.Status = domain.CartItemStatusHeld
	if err := tx.QueryRow(ctx, `INSERT INTO cart_items (token, session_id, product_type, payload, total_price, currency, contact_name, phone, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		item.Token, item.SessionID, item.ProductType, item.Payload, item.TotalPrice, item.Currency,
		item.ContactName, item.Phone, item.Status, item.ExpiresAt).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyInCart
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGCartRepository) GetByToken(ctx context.Context, token string) (*domain.CartItem, error) {
	item, err := scanCartItem(r.db.QueryRow(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE token=$1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "cart item", Err: err}
	}
	return item, err
}

func (r *PGCartRepository) ExpireHeldBefore(ctx context.Context, deadline time.Time) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx, `UPDATE cart_items SET status=$1, updated_at=now() WHERE status=$2 AND expires_at <= $3 RETURNING `+cartItemColumns,
		domain.CartItemStatusExpired, domain.CartItemStatusHeld, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *item)
	}
	return expired, rows.Err()
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var it domain.CartItem
	if err := row.Scan(&it.ID, &it.Token, &it.SessionID, &it.ProductType, &it.Payload, &it.TotalPrice, &it.Currency,
		&it.ContactName, &it.Phone, &it.Status, &it.ExpiresAt, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

var _ CartRepository = (*PGCartRepository)(nil)
