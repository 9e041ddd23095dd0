package domain

// SyncResult counts the outcome of one reconciliation pass.
type SyncResult struct {
	Imported            int `json:"imported"`
	Skipped             int `json:"skipped"`
	ManifestBackfilled  int `json:"manifest_backfilled"`
	TimestampBackfilled int `json:"timestamp_backfilled"`
	TotalExamined       int `json:"total_examined"`
	// Failed counts records that could not be processed and were left out.
	Failed int `json:"failed"`
}

// CorrectionResult is the outcome of clearing batch-derived manifests.
type CorrectionResult struct {
	ClearedCount int `json:"cleared_count"`
}

// RefreshResult is the outcome of probing unmanifested tracked shipments.
type RefreshResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// ProbeResult is the debug view of a single shipment's manifest signals.
type ProbeResult struct {
	ShipmentID       int64       `json:"id"`
	ProviderID       string      `json:"easypost_id"`
	Method           Method      `json:"method"`
	StoredManifest   ManifestRef `json:"manifested"`
	ScanFormID       string      `json:"scan_form,omitempty"`
	BatchID          string      `json:"batch_id,omitempty"`
	InferredManifest ManifestRef `json:"inferred_manifest"`
}
