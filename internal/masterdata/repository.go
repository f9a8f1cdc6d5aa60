package masterdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates an unknown hotel or vendor id.
var ErrNotFound = errors.New("master data record not found")

// Repository persists hotels and vendors.
type Repository interface {
	CreateHotel(ctx context.Context, h *Hotel) error
	UpdateHotel(ctx context.Context, h *Hotel) error
	GetHotel(ctx context.Context, id int64) (*Hotel, error)
	ListHotels(ctx context.Context, req ListHotelsRequest) ([]Hotel, int, error)

	CreateVendor(ctx context.Context, v *Vendor) error
	UpdateVendor(ctx context.Context, v *Vendor) error
	GetVendor(ctx context.Context, id int64) (*Vendor, error)
	ListVendors(ctx context.Context, req ListVendorsRequest) ([]Vendor, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const hotelColumns = `id, name, city, category, meal_plans, phone, is_active, created_at, updated_at`

func (r *repository) CreateHotel(ctx context.Context, h *Hotel) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO hotels (name, city, category, meal_plans, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, is_active, created_at, updated_at`,
		h.Name, h.City, h.Category, h.MealPlans, h.Phone,
	).Scan(&h.ID, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
}

func (r *repository) UpdateHotel(ctx context.Context, h *Hotel) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE hotels
		SET name = $2, city = $3, category = $4, meal_plans = $5, phone = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.City, h.Category, h.MealPlans, h.Phone, h.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GetHotel(ctx context.Context, id int64) (*Hotel, error) {
	var h Hotel
	err := r.pool.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id).Scan(
		&h.ID, &h.Name, &h.City, &h.Category, &h.MealPlans, &h.Phone, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *repository) ListHotels(ctx context.Context, req ListHotelsRequest) ([]Hotel, int, error) {
	where, args := hotelFilter(req)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hotels`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(req.Page, req.PageSize)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM hotels%s ORDER BY city, name LIMIT $%d OFFSET $%d`,
		hotelColumns, where, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Hotel
	for rows.Next() {
		var h Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Category, &h.MealPlans, &h.Phone, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}

func hotelFilter(req ListHotelsRequest) (string, []any) {
	var conds []string
	var args []any
	if req.City != "" {
		args = append(args, req.City)
		conds = append(conds, fmt.Sprintf("city = $%d", len(args)))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if req.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const vendorColumns = `id, name, kind, city, phone, bank_ref, is_active, created_at, updated_at`

func (r *repository) CreateVendor(ctx context.Context, v *Vendor) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO vendors (name, kind, city, phone, bank_ref, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, is_active, created_at, updated_at`,
		v.Name, v.Kind, v.City, v.Phone, v.BankRef,
	).Scan(&v.ID, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
}

func (r *repository) UpdateVendor(ctx context.Context, v *Vendor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendors
		SET name = $2, city = $3, phone = $4, bank_ref = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1`,
		v.ID, v.Name, v.City, v.Phone, v.BankRef, v.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	var v Vendor
	err := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id).Scan(
		&v.ID, &v.Name, &v.Kind, &v.City, &v.Phone, &v.BankRef, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListVendors(ctx context.Context, req ListVendorsRequest) ([]Vendor, int, error) {
	var conds []string
	var args []any
	if req.Kind != "" {
		args = append(args, req.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if req.City != "" {
		args = append(args, req.City)
		conds = append(conds, fmt.Sprintf("city = $%d", len(args)))
	}
	if req.ActiveOnly {
		conds = append(conds, "is_active")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vendors`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(req.Page, req.PageSize)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM vendors%s ORDER BY kind, name LIMIT $%d OFFSET $%d`,
		vendorColumns, where, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Kind, &v.City, &v.Phone, &v.BankRef, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func limitOffset(page, pageSize int) (int, int) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
