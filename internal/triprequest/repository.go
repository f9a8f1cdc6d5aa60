package triprequest

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates an unknown trip request id.
var ErrNotFound = errors.New("trip request not found")

// Repository reads trip requests. The quotation engine never writes them.
type Repository interface {
	Get(ctx context.Context, id int64) (*TripRequest, error)
	List(ctx context.Context, limit, offset int) ([]TripRequest, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, client_name, sector, trip_type, target_nights, adults, children, arrival_point, first_drive_to, distance_km, drive_duration, travel_date, created_at`

func (r *repository) Get(ctx context.Context, id int64) (*TripRequest, error) {
	var t TripRequest
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM trip_requests WHERE id = $1`, id).Scan(
		&t.ID, &t.ClientName, &t.Sector, &t.TripType, &t.TargetNights, &t.Adults, &t.Children,
		&t.ArrivalPoint, &t.FirstDriveTo, &t.DistanceKM, &t.DriveDuration, &t.TravelDate, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]TripRequest, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trip_requests`).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM trip_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []TripRequest
	for rows.Next() {
		var t TripRequest
		if err := rows.Scan(
			&t.ID, &t.ClientName, &t.Sector, &t.TripType, &t.TargetNights, &t.Adults, &t.Children,
			&t.ArrivalPoint, &t.FirstDriveTo, &t.DistanceKM, &t.DriveDuration, &t.TravelDate, &t.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}
