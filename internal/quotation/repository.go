package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripdesk/tripdesk/internal/platform/db"
)

// Repository persists quotation drafts.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	GetByCode(ctx context.Context, code string) (*Draft, error)
	Create(ctx context.Context, draft Draft) (int64, error)
	Save(ctx context.Context, draft *Draft) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	GenerateCode(ctx context.Context, date time.Time) (string, error)
	List(ctx context.Context, req ListDraftsRequest) ([]Draft, int, error)
	ListStale(ctx context.Context, olderThan time.Duration) ([]Draft, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const draftColumns = `id, code, status, current_step, trip_request_id, client, total_nights, total_days, stays, days, transport, pricing, finalization, created_by, created_at, updated_at`

func (r *repository) GetByCode(ctx context.Context, code string) (*Draft, error) {
	row := r.db.QueryRow(ctx, `SELECT `+draftColumns+` FROM quotation_drafts WHERE code = $1`, code)
	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return draft, nil
}

func (r *repository) Create(ctx context.Context, draft Draft) (int64, error) {
	client, stays, days, transport, pricing, finalization, err := marshalDraft(&draft)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO quotation_drafts
			(code, status, current_step, trip_request_id, client, total_nights, total_days, stays, days, transport, pricing, finalization, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id
	`, draft.Code, draft.Status, draft.CurrentStep, draft.TripRequestID, client, draft.TotalNights, draft.TotalDays, stays, days, transport, pricing, finalization, draft.CreatedBy).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Save writes the full draft document. Step merges are computed in memory
// first, so a single statement keeps the write all-or-nothing.
func (r *repository) Save(ctx context.Context, draft *Draft) error {
	client, stays, days, transport, pricing, finalization, err := marshalDraft(draft)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE quotation_drafts SET
			status = $2, current_step = $3, trip_request_id = $4, client = $5,
			total_nights = $6, total_days = $7, stays = $8, days = $9,
			transport = $10, pricing = $11, finalization = $12, updated_at = NOW()
		WHERE id = $1
	`, draft.ID, draft.Status, draft.CurrentStep, draft.TripRequestID, client, draft.TotalNights, draft.TotalDays, stays, days, transport, pricing, finalization)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE quotation_drafts SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateCode(ctx context.Context, date time.Time) (string, error) {
	// QT-{YYYYMM}-{SEQ}
	var seq int64
	period := date.Format("200601")
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, "QT", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%s-%04d", period, seq), nil
}

func (r *repository) List(ctx context.Context, req ListDraftsRequest) ([]Draft, int, error) {
	where := ""
	args := []interface{}{}
	if req.Status != nil {
		where = " WHERE status = $1"
		args = append(args, *req.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotation_drafts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + draftColumns + ` FROM quotation_drafts` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, 0, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, total, rows.Err()
}

func (r *repository) ListStale(ctx context.Context, olderThan time.Duration) ([]Draft, error) {
	cutoff := time.Now().Add(-olderThan)
	rows, err := r.db.Query(ctx, `SELECT `+draftColumns+` FROM quotation_drafts WHERE status IN ($1, $2) AND updated_at < $3 ORDER BY updated_at`, StatusDraft, StatusInProgress, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, rows.Err()
}

func marshalDraft(d *Draft) (client, stays, days, transport, pricing, finalization []byte, err error) {
	if client, err = json.Marshal(d.Client); err != nil {
		return
	}
	if stays, err = json.Marshal(d.Stays); err != nil {
		return
	}
	if days, err = json.Marshal(d.Days); err != nil {
		return
	}
	if transport, err = marshalOptional(d.Transport); err != nil {
		return
	}
	if pricing, err = marshalOptional(d.Pricing); err != nil {
		return
	}
	finalization, err = marshalOptional(d.Finalization)
	return
}

func marshalOptional(v any) ([]byte, error) {
	switch t := v.(type) {
	case *TransportPlan:
		if t == nil {
			return nil, nil
		}
	case *PricingSummary:
		if t == nil {
			return nil, nil
		}
	case *Finalization:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func scanDraft(row pgx.Row) (*Draft, error) {
	var (
		d            Draft
		client       []byte
		stays        []byte
		days         []byte
		transport    []byte
		pricing      []byte
		finalization []byte
	)
	err := row.Scan(&d.ID, &d.Code, &d.Status, &d.CurrentStep, &d.TripRequestID, &client, &d.TotalNights, &d.TotalDays, &stays, &days, &transport, &pricing, &finalization, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(client, &d.Client); err != nil {
		return nil, fmt.Errorf("decode client: %w", err)
	}
	if len(stays) > 0 {
		if err := json.Unmarshal(stays, &d.Stays); err != nil {
			return nil, fmt.Errorf("decode stays: %w", err)
		}
	}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &d.Days); err != nil {
			return nil, fmt.Errorf("decode days: %w", err)
		}
	}
	if len(transport) > 0 {
		d.Transport = &TransportPlan{}
		if err := json.Unmarshal(transport, d.Transport); err != nil {
			return nil, fmt.Errorf("decode transport: %w", err)
		}
	}
	if len(pricing) > 0 {
		d.Pricing = &PricingSummary{}
		if err := json.Unmarshal(pricing, d.Pricing); err != nil {
			return nil, fmt.Errorf("decode pricing: %w", err)
		}
	}
	if len(finalization) > 0 {
		d.Finalization = &Finalization{}
		if err := json.Unmarshal(finalization, d.Finalization); err != nil {
			return nil, fmt.Errorf("decode finalization: %w", err)
		}
	}
	return &d, nil
}
