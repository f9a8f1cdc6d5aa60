package invoicing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
	"github.com/tripdesk/tripdesk/internal/pricing"
)

type memRepo struct {
	mu       sync.Mutex
	seq      int64
	invoices map[int64]Invoice
}

func newMemRepo() *memRepo {
	return &memRepo{invoices: make(map[int64]Invoice)}
}

func (r *memRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memRepo) Get(_ context.Context, id int64) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (r *memRepo) Create(_ context.Context, invoice Invoice) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	invoice.ID = r.seq
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt
	r.invoices[invoice.ID] = invoice
	return invoice.ID, nil
}

func (r *memRepo) List(_ context.Context, _ ListInvoicesRequest) ([]Invoice, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, len(out), nil
}

func (r *memRepo) GenerateCode(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("INV-%s-%04d", time.Now().Format("200601"), len(r.invoices)+1), nil
}

type markerStub struct {
	marked []string
	err    error
}

func (m *markerStub) MarkInvoiced(_ context.Context, code string) error {
	if m.err != nil {
		return m.err
	}
	m.marked = append(m.marked, code)
	return nil
}

func TestComputeLinesMixedModes(t *testing.T) {
	lines, subtotal, taxTotal, grandTotal, err := ComputeLines([]LineItemReq{
		{Particulars: "Package", Price: 1000, DiscountPercent: 10, TaxPercent: 18, TaxMode: pricing.TaxExclusive},
		{Particulars: "Permit fee", Price: 1050, TaxPercent: 5, TaxMode: pricing.TaxInclusive},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, 900.0, lines[0].Base)
	assert.Equal(t, 162.0, lines[0].TaxAmount)
	assert.Equal(t, 1062.0, lines[0].Amount)

	assert.Equal(t, 1000.0, lines[1].Base)
	assert.Equal(t, 50.0, lines[1].TaxAmount)
	assert.Equal(t, 1050.0, lines[1].Amount)

	assert.Equal(t, 1900.0, subtotal)
	assert.Equal(t, 212.0, taxTotal)
	assert.Equal(t, 2112.0, grandTotal)
}

func TestComputeLinesNamesFailingLine(t *testing.T) {
	_, _, _, _, err := ComputeLines([]LineItemReq{
		{Particulars: "ok", Price: 100, TaxMode: pricing.TaxExclusive},
		{Particulars: "bad", Price: -5, TaxMode: pricing.TaxExclusive},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.ErrorIs(t, err, httpx.ErrComputation)
}

func TestCreateInvoice(t *testing.T) {
	repo := newMemRepo()
	marker := &markerStub{}
	svc := NewService(repo, marker, nil)

	code := "QT-202608-0001"
	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		QuotationCode: &code,
		ClientName:    "Ravi Sharma",
		Lines: []LineItemReq{
			{Particulars: "Sikkim package", Price: 62540, TaxPercent: 0, TaxMode: pricing.TaxExclusive},
		},
	}, "", 1)
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{6}-\d{4}$`, inv.Code)
	assert.Equal(t, 62540.0, inv.GrandTotal)
	assert.Equal(t, []string{code}, marker.marked)
}

func TestCreateInvoiceWithoutQuotation(t *testing.T) {
	repo := newMemRepo()
	marker := &markerStub{}
	svc := NewService(repo, marker, nil)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientName: "Walk-in",
		Lines:      []LineItemReq{{Particulars: "Day tour", Price: 4500, TaxMode: pricing.TaxInclusive, TaxPercent: 5}},
	}, "", 1)
	require.NoError(t, err)
	assert.Empty(t, marker.marked)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{ClientName: "X"}, "", 1)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), CreateInvoiceRequest{
		ClientName: "X",
		Lines:      []LineItemReq{{Particulars: "bad mode", Price: 10, TaxMode: "exempt"}},
	}, "", 1)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateInvoiceComputationErrorWritesNothing(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientName: "X",
		Lines:      []LineItemReq{{Particulars: "bad", Price: 10, DiscountPercent: 120, TaxMode: pricing.TaxExclusive}},
	}, "", 1)
	require.Error(t, err)
	assert.Empty(t, repo.invoices)
}

func TestCreateInvoiceMarkerFailureSurfaces(t *testing.T) {
	repo := newMemRepo()
	marker := &markerStub{err: errors.New("not confirmed")}
	svc := NewService(repo, marker, nil)

	code := "QT-202608-0009"
	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		QuotationCode: &code,
		ClientName:    "Ravi Sharma",
		Lines:         []LineItemReq{{Particulars: "Package", Price: 100, TaxMode: pricing.TaxExclusive}},
	}, "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark quotation invoiced")
}

func TestPreviewDoesNotPersist(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)

	lines, err := svc.Preview(context.Background(), PreviewRequest{
		Lines: []LineItemReq{{Particulars: "Package", Price: 1000, TaxPercent: 18, TaxMode: pricing.TaxExclusive}},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1180.0, lines[0].Amount)
	assert.Empty(t, repo.invoices)
}
