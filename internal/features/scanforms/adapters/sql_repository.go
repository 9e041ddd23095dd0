package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shipdesk/internal/core/database"
	"shipdesk/internal/features/scanforms/domain"
)

const scanFormColumns = "id, provider_id, status, form_url, tracking_codes, shipment_count, created_at"

// SQLScanFormRepository implements ports.ScanFormRepository. Tracking codes
// are stored as a JSON array.
type SQLScanFormRepository struct {
	db *database.DB
}

// NewSQLScanFormRepository creates a new SQLScanFormRepository.
func NewSQLScanFormRepository(db *database.DB) *SQLScanFormRepository {
	return &SQLScanFormRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScanForm(row rowScanner) (*domain.ScanForm, error) {
	var (
		sf      domain.ScanForm
		codes   []byte
		created database.NullTime
	)
	if err := row.Scan(&sf.ID, &sf.ProviderID, &sf.Status, &sf.FormURL, &codes, &sf.ShipmentCount, &created); err != nil {
		return nil, err
	}

	sf.TrackingCodes = []string{}
	if len(codes) > 0 {
		if err := json.Unmarshal(codes, &sf.TrackingCodes); err != nil {
			return nil, fmt.Errorf("invalid tracking codes for scan form %s: %w", sf.ProviderID, err)
		}
	}
	sf.CreatedAt = created.Time
	return &sf, nil
}

func (r *SQLScanFormRepository) queryOne(ctx context.Context, where string, arg any) (*domain.ScanForm, error) {
	q := r.db.Dialect().Rebind("SELECT " + scanFormColumns + " FROM scanforms WHERE " + where)
	sf, err := scanScanForm(r.db.Conn(ctx).QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScanFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scan form: %w", err)
	}
	return sf, nil
}

// Get looks a scan form up by local id.
func (r *SQLScanFormRepository) Get(ctx context.Context, id int64) (*domain.ScanForm, error) {
	return r.queryOne(ctx, "id = ?", id)
}

// FindByProviderID looks a scan form up by its EasyPost id.
func (r *SQLScanFormRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.ScanForm, error) {
	return r.queryOne(ctx, "provider_id = ?", providerID)
}

// Insert stores sf and returns the new id.
func (r *SQLScanFormRepository) Insert(ctx context.Context, sf *domain.ScanForm) (int64, error) {
	codes := sf.TrackingCodes
	if codes == nil {
		codes = []string{}
	}
	payload, err := json.Marshal(codes)
	if err != nil {
		return 0, fmt.Errorf("failed to encode tracking codes: %w", err)
	}

	d := r.db.Dialect()
	q := d.Rebind(`INSERT INTO scanforms (provider_id, status, form_url, tracking_codes, shipment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	var id int64
	err = r.db.Conn(ctx).QueryRowContext(ctx, q,
		sf.ProviderID, sf.Status, sf.FormURL, string(payload), sf.ShipmentCount, d.Time(sf.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan form %s: %w", sf.ProviderID, err)
	}
	return id, nil
}

// List returns every scan form, newest first.
func (r *SQLScanFormRepository) List(ctx context.Context) ([]domain.ScanForm, error) {
	rows, err := r.db.Conn(ctx).QueryContext(ctx,
		"SELECT "+scanFormColumns+" FROM scanforms ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query scan forms: %w", err)
	}
	defer rows.Close()

	out := []domain.ScanForm{}
	for rows.Next() {
		sf, err := scanScanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scan form: %w", err)
		}
		out = append(out, *sf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan forms: %w", err)
	}
	return out, nil
}

// UpdateStatus overwrites the provider status and form URL.
func (r *SQLScanFormRepository) UpdateStatus(ctx context.Context, id int64, status, formURL string) error {
	q := r.db.Dialect().Rebind("UPDATE scanforms SET status = ?, form_url = ? WHERE id = ?")
	res, err := r.db.Conn(ctx).ExecContext(ctx, q, status, formURL, id)
	if err != nil {
		return fmt.Errorf("failed to update scan form: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrScanFormNotFound
	}
	return nil
}
