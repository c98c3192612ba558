package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OptionRepository interface {
	// List returns the global options plus, when routeID is set, the ones scoped to that route.
	List(ctx context.Context, routeID *int64) ([]domain.Option, error)
	GetByID(ctx context.Context, id int64) (*domain.Option, error)
}

type PGOptionRepository struct {
	db *pgxpool.Pool
}

func NewOptionRepository(db *pgxpool.Pool) OptionRepository {
	return &PGOptionRepository{db: db}
}

func (r *PGOptionRepository) List(ctx context.Context, routeID *int64) ([]domain.Option, error) {
	rows, err := r.db.Query(ctx, `SELECT id, route_id, name, description, price, max_quantity
		FROM transfer_options
		WHERE active AND (route_id IS NULL OR route_id = $1::bigint)
		ORDER BY route_id NULLS FIRST, id`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make([]domain.Option, 0)
	for rows.Next() {
		var o domain.Option
		var maxQuantity *int
		if err := rows.Scan(&o.ID, &o.RouteID, &o.Name, &o.Description, &o.Price, &maxQuantity); err != nil {
			return nil, err
		}
		if maxQuantity != nil {
			o.MaxQuantity = *maxQuantity
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *PGOptionRepository) GetByID(ctx context.Context, id int64) (*domain.Option, error) {
	var o domain.Option
	var maxQuantity *int
	err := r.db.QueryRow(ctx, `SELECT id, route_id, name, description, price, max_quantity FROM transfer_options WHERE id=$1 AND active`, id).
		Scan(&o.ID, &o.RouteID, &o.Name, &o.Description, &o.Price, &maxQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: fmt.Sprintf("option %d", id), Err: err}
	}
	if err != nil {
		return nil, err
	}
	if maxQuantity != nil {
		o.MaxQuantity = *maxQuantity
	}
	return &o, nil
}

var _ OptionRepository = (*PGOptionRepository)(nil)
