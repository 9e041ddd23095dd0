package domain

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// BatchManifestPrefix marks a stored manifest value derived from a batch.
const BatchManifestPrefix = "batch:"

// ManifestKind discriminates ManifestRef.
type ManifestKind int

const (
	// ManifestNone means the shipment is not manifested.
	ManifestNone ManifestKind = iota
	// ManifestExplicit is a real ScanForm id.
	ManifestExplicit
	// ManifestFromBatch is a provisional value inferred from a batch linkage.
	ManifestFromBatch
)

// ManifestRef is the manifest status of a shipment. The prefixed string form
// exists only at the persistence and JSON boundaries.
type ManifestRef struct {
	kind ManifestKind
	id   string
}

// NoManifest returns the empty reference.
func NoManifest() ManifestRef {
	return ManifestRef{}
}

// ExplicitManifest references a ScanForm.
func ExplicitManifest(scanFormID string) ManifestRef {
	if scanFormID == "" {
		return ManifestRef{}
	}
	return ManifestRef{kind: ManifestExplicit, id: scanFormID}
}

// BatchManifest references the batch a shipment was bought in.
func BatchManifest(batchID string) ManifestRef {
	if batchID == "" {
		return ManifestRef{}
	}
	return ManifestRef{kind: ManifestFromBatch, id: batchID}
}

// ParseManifestRef decodes the stored string form. Empty means none.
func ParseManifestRef(s string) ManifestRef {
	if batchID, ok := strings.CutPrefix(s, BatchManifestPrefix); ok {
		return BatchManifest(batchID)
	}
	return ExplicitManifest(s)
}

// Kind returns the variant.
func (m ManifestRef) Kind() ManifestKind { return m.kind }

// ID returns the ScanForm or batch id, empty for none.
func (m ManifestRef) ID() string { return m.id }

// IsSet reports whether the shipment counts as manifested.
func (m ManifestRef) IsSet() bool { return m.kind != ManifestNone }

// IsProvisional reports whether the value came from a batch linkage.
func (m ManifestRef) IsProvisional() bool { return m.kind == ManifestFromBatch }

// String returns the stored form: the ScanForm id, "batch:<id>" or "".
func (m ManifestRef) String() string {
	switch m.kind {
	case ManifestExplicit:
		return m.id
	case ManifestFromBatch:
		return BatchManifestPrefix + m.id
	default:
		return ""
	}
}

// Value implements driver.Valuer; none is stored as NULL.
func (m ManifestRef) Value() (driver.Value, error) {
	if !m.IsSet() {
		return nil, nil
	}
	return m.String(), nil
}

// MarshalJSON emits the stored form, or null.
func (m ManifestRef) MarshalJSON() ([]byte, error) {
	if !m.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts null or the stored form.
func (m *ManifestRef) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*m = NoManifest()
		return nil
	}
	*m = ParseManifestRef(*s)
	return nil
}
