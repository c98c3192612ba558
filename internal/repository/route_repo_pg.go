package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RouteRepository interface {
	List(ctx context.Context) ([]domain.Route, error)
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
}

type PGRouteRepository struct {
	db *pgxpool.Pool
}

func NewRouteRepository(db *pgxpool.Pool) RouteRepository {
	return &PGRouteRepository{db: db}
}

const routeColumns = `id, origin, destination, currency, pricing, peak_hour_surcharge_percent, midnight_surcharge_percent,
	round_trip_discount_enabled, round_trip_discount_percent, business_hours_start, business_hours_end,
	cancellation_policies, created_at, updated_at`

func (r *PGRouteRepository) List(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Query(ctx, `SELECT `+routeColumns+` FROM transfer_routes WHERE active ORDER BY origin, destination`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}
	return routes, rows.Err()
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	route, err := scanRoute(r.db.QueryRow(ctx, `SELECT `+routeColumns+` FROM transfer_routes WHERE id=$1 AND active`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: fmt.Sprintf("route %d", id), Err: err}
	}
	return route, err
}

// pricing and cancellation_policies are jsonb and decode straight into the domain types.
func scanRoute(row pgx.Row) (*domain.Route, error) {
	var rt domain.Route
	var currency *string
	if err := row.Scan(
		&rt.ID, &rt.Origin, &rt.Destination, &currency, &rt.Pricing,
		&rt.PeakHourSurchargePercent, &rt.MidnightSurchargePercent,
		&rt.RoundTripDiscountEnabled, &rt.RoundTripDiscountPercent,
		&rt.BusinessHoursStart, &rt.BusinessHoursEnd,
		&rt.CancellationPolicies, &rt.CreatedAt, &rt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if currency != nil {
		rt.Currency = *currency
	}
	return &rt, nil
}

var _ RouteRepository = (*PGRouteRepository)(nil)
