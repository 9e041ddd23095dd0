package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipdesk/internal/core/database"
	"shipdesk/internal/features/shipments/domain"
)

var insertColumns = []string{
	"provider_id", "tracking_code", "label_url",
	"from_name", "from_street1", "from_street2", "from_city", "from_state", "from_zip", "from_country", "from_phone",
	"to_name", "to_street1", "to_street2", "to_city", "to_state", "to_zip", "to_country", "to_phone",
	"carrier", "service", "cost", "method",
	"parcel_length", "parcel_width", "parcel_height", "parcel_weight", "parcel_predefined",
	"status", "manifested", "provider_created_at", "created_at",
}

var (
	selectColumns = "id, " + strings.Join(insertColumns, ", ") + ", updated_at"
	insertQuery   = fmt.Sprintf("INSERT INTO shipments (%s) VALUES (%s) RETURNING id",
		strings.Join(insertColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(insertColumns)), ", "))
)

// SQLShipmentRepository implements ports.ShipmentRepository on Postgres or SQLite.
// Every query runs on the transaction carried by ctx when there is one.
type SQLShipmentRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewSQLShipmentRepository creates a new SQLShipmentRepository.
func NewSQLShipmentRepository(db *database.DB) *SQLShipmentRepository {
	return &SQLShipmentRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	var (
		s                                   domain.Shipment
		method                              string
		length, width, height               sql.NullFloat64
		predefined, manifested              sql.NullString
		providerCreatedAt, created, updated database.NullTime
	)

	err := row.Scan(
		&s.ID, &s.ProviderID, &s.TrackingCode, &s.LabelURL,
		&s.From.Name, &s.From.Street1, &s.From.Street2, &s.From.City, &s.From.State, &s.From.Zip, &s.From.Country, &s.From.Phone,
		&s.To.Name, &s.To.Street1, &s.To.Street2, &s.To.City, &s.To.State, &s.To.Zip, &s.To.Country, &s.To.Phone,
		&s.Carrier, &s.Service, &s.Cost, &method,
		&length, &width, &height, &s.Parcel.Weight, &predefined,
		&s.Status, &manifested, &providerCreatedAt, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	s.Method = domain.Method(method)
	s.Parcel.Length = floatPtr(length)
	s.Parcel.Width = floatPtr(width)
	s.Parcel.Height = floatPtr(height)
	s.Parcel.PredefinedPackage = predefined.String
	s.Manifest = domain.ParseManifestRef(manifested.String)
	s.ProviderCreatedAt = providerCreatedAt.Ptr()
	s.CreatedAt = created.Time
	s.UpdatedAt = updated.Ptr()
	return &s, nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func (r *SQLShipmentRepository) queryOne(ctx context.Context, where string, args ...any) (*domain.Shipment, error) {
	q := r.db.Dialect().Rebind("SELECT " + selectColumns + " FROM shipments WHERE " + where)
	s, err := scanShipment(r.db.Conn(ctx).QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shipment: %w", err)
	}
	return s, nil
}

func (r *SQLShipmentRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Shipment, error) {
	rows, err := r.db.Conn(ctx).QueryContext(ctx, r.db.Dialect().Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	defer rows.Close()

	out := []domain.Shipment{}
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shipments: %w", err)
	}
	return out, nil
}

// FindByProviderID looks a shipment up by its EasyPost id.
func (r *SQLShipmentRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.Shipment, error) {
	return r.queryOne(ctx, "provider_id = ?", providerID)
}

// Get looks a shipment up by local id.
func (r *SQLShipmentRepository) Get(ctx context.Context, id int64) (*domain.Shipment, error) {
	return r.queryOne(ctx, "id = ?", id)
}

// FindByIDs returns the shipments among ids that exist, in id order.
func (r *SQLShipmentRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Shipment, error) {
	if len(ids) == 0 {
		return []domain.Shipment{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	return r.queryMany(ctx,
		"SELECT "+selectColumns+" FROM shipments WHERE id IN ("+placeholders+") ORDER BY id", args...)
}

// Insert stores s and returns the new id. CreatedAt defaults to now.
func (r *SQLShipmentRepository) Insert(ctx context.Context, s *domain.Shipment) (int64, error) {
	d := r.db.Dialect()

	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	status := s.Status
	if status == "" {
		status = domain.StatusCreated
	}

	args := []any{
		s.ProviderID, s.TrackingCode, s.LabelURL,
		s.From.Name, s.From.Street1, s.From.Street2, s.From.City, s.From.State, s.From.Zip, s.From.Country, s.From.Phone,
		s.To.Name, s.To.Street1, s.To.Street2, s.To.City, s.To.State, s.To.Zip, s.To.Country, s.To.Phone,
		s.Carrier, s.Service, s.Cost, string(s.Method),
		s.Parcel.Length, s.Parcel.Width, s.Parcel.Height, s.Parcel.Weight,
		sql.NullString{String: s.Parcel.PredefinedPackage, Valid: s.Parcel.PredefinedPackage != ""},
		status, s.Manifest, d.NullableTime(s.ProviderCreatedAt), d.Time(createdAt),
	}

	var id int64
	if err := r.db.Conn(ctx).QueryRowContext(ctx, d.Rebind(insertQuery), args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert shipment %s: %w", s.ProviderID, err)
	}
	return id, nil
}

// SetManifest sets the manifest of an unmanifested shipment. Existing values
// are never overwritten.
func (r *SQLShipmentRepository) SetManifest(ctx context.Context, id int64, ref domain.ManifestRef) (bool, error) {
	if !ref.IsSet() {
		return false, nil
	}
	return r.exec(ctx,
		"UPDATE shipments SET manifested = ?, updated_at = ? WHERE id = ? AND manifested IS NULL",
		ref, r.db.Dialect().Time(r.now()), id)
}

// SetProviderCreatedAt backfills the provider creation time once.
func (r *SQLShipmentRepository) SetProviderCreatedAt(ctx context.Context, id int64, t time.Time) (bool, error) {
	d := r.db.Dialect()
	return r.exec(ctx,
		"UPDATE shipments SET provider_created_at = ?, updated_at = ? WHERE id = ? AND provider_created_at IS NULL",
		d.Time(t), d.Time(r.now()), id)
}

func (r *SQLShipmentRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.Conn(ctx).ExecContext(ctx, r.db.Dialect().Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("failed to update shipment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// ClearProvisionalManifests resets batch-derived manifests to NULL.
func (r *SQLShipmentRepository) ClearProvisionalManifests(ctx context.Context) (int, error) {
	// LIKE folds ASCII case on sqlite; compare the prefix bytes instead.
	q := r.db.Dialect().Rebind(fmt.Sprintf(
		"UPDATE shipments SET manifested = NULL, updated_at = ? WHERE substr(manifested, 1, %d) = ?",
		len(domain.BatchManifestPrefix)))
	res, err := r.db.Conn(ctx).ExecContext(ctx, q, r.db.Dialect().Time(r.now()), domain.BatchManifestPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to clear batch manifests: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}

// ListUnmanifestedTracked returns non-card shipments with no manifest.
func (r *SQLShipmentRepository) ListUnmanifestedTracked(ctx context.Context) ([]domain.Shipment, error) {
	return r.queryMany(ctx,
		"SELECT "+selectColumns+" FROM shipments WHERE method <> ? AND manifested IS NULL ORDER BY id",
		string(domain.MethodCard))
}

// List returns a filtered page, newest provider creation first.
func (r *SQLShipmentRepository) List(ctx context.Context, filter domain.ListFilter) (*domain.ShipmentPage, error) {
	filter.Normalize()
	d := r.db.Dialect()

	var (
		where []string
		args  []any
	)
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		where = append(where, "(LOWER(to_name) LIKE ? OR LOWER(tracking_code) LIKE ? OR LOWER(to_city) LIKE ?)")
		args = append(args, term, term, term)
	}
	if filter.Method != "" {
		where = append(where, "method = ?")
		args = append(args, string(filter.Method))
	}
	if filter.Carrier != "" {
		where = append(where, "carrier = ?")
		args = append(args, filter.Carrier)
	}
	if filter.Manifested != nil {
		if *filter.Manifested {
			where = append(where, "manifested IS NOT NULL")
		} else {
			where = append(where, "manifested IS NULL")
		}
	}
	if filter.StartDate != nil {
		where = append(where, "created_at >= ?")
		args = append(args, d.Time(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "created_at <= ?")
		args = append(args, d.Time(*filter.EndDate))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.Conn(ctx).QueryRowContext(ctx, d.Rebind("SELECT COUNT(*) FROM shipments"+clause), args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count shipments: %w", err)
	}

	shipments, err := r.queryMany(ctx,
		"SELECT "+selectColumns+" FROM shipments"+clause+
			" ORDER BY CASE WHEN provider_created_at IS NULL THEN 1 ELSE 0 END, provider_created_at DESC, created_at DESC, id DESC"+
			" LIMIT ? OFFSET ?",
		append(args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, err
	}

	return &domain.ShipmentPage{
		Shipments:  shipments,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
	}, nil
}

// Stats aggregates counts and costs. "Today" starts at midnight in now's
// location and the week window covers the seven days before that.
func (r *SQLShipmentRepository) Stats(ctx context.Context, now time.Time) (*domain.Stats, error) {
	d := r.db.Dialect()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -7)

	q := d.Rebind(`SELECT
		COUNT(*),
		COALESCE(SUM(cost), 0),
		COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN created_at >= ? THEN cost ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN created_at >= ? THEN cost ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN method = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN method = ? THEN 1 ELSE 0 END), 0)
		FROM shipments`)

	var st domain.Stats
	err := r.db.Conn(ctx).QueryRowContext(ctx, q,
		d.Time(todayStart), d.Time(todayStart),
		d.Time(weekStart), d.Time(weekStart),
		string(domain.MethodCard), string(domain.MethodTracked),
	).Scan(
		&st.TotalShipments, &st.TotalCost,
		&st.ShipmentsToday, &st.CostToday,
		&st.ShipmentsThisWeek, &st.CostThisWeek,
		&st.CardShipments, &st.TrackedShipments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &st, nil
}
