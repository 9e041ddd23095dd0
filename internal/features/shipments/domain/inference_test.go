package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferManifest(t *testing.T) {
	tests := []struct {
		name     string
		record   ProviderShipment
		wantKind ManifestKind
		want     string
	}{
		{
			name:     "scan form only",
			record:   ProviderShipment{ScanFormID: "sf_123"},
			wantKind: ManifestExplicit,
			want:     "sf_123",
		},
		{
			name:     "scan form wins over batch",
			record:   ProviderShipment{ScanFormID: "sf_123", BatchID: "batch_9"},
			wantKind: ManifestExplicit,
			want:     "sf_123",
		},
		{
			name:     "batch only",
			record:   ProviderShipment{BatchID: "batch_9"},
			wantKind: ManifestFromBatch,
			want:     "batch:batch_9",
		},
		{
			name:     "neither",
			record:   ProviderShipment{},
			wantKind: ManifestNone,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferManifest(tt.record)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestClassifyMethod(t *testing.T) {
	tests := []struct {
		name   string
		record ProviderShipment
		want   Method
	}{
		{"predefined card", ProviderShipment{Parcel: Parcel{PredefinedPackage: CardPackage}, SelectedRate: &ProviderRate{Price: "4.50"}}, MethodCard},
		{"cheap rate", ProviderShipment{SelectedRate: &ProviderRate{Price: "0.55"}}, MethodCard},
		{"exactly one dollar", ProviderShipment{SelectedRate: &ProviderRate{Price: "1.00"}}, MethodCard},
		{"expensive rate", ProviderShipment{SelectedRate: &ProviderRate{Price: "4.25"}}, MethodTracked},
		{"other predefined package", ProviderShipment{Parcel: Parcel{PredefinedPackage: "FlatRateEnvelope"}, SelectedRate: &ProviderRate{Price: "9.10"}}, MethodTracked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyMethod(tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ClassifyMethod(ProviderShipment{SelectedRate: &ProviderRate{Price: "free"}})
	assert.Error(t, err)
}

func TestParseProviderTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	for _, in := range []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T05:30:00-05:00",
		"2024-01-15T10:30:00",
		"2024-01-15 10:30:00",
		"2024-01-15T10:30:00+0000",
		"2024-01-15T05:30:00-0500",
		"2024-01-15T10:30",
		"2024-01-15 10:30",
		"2024-01-15T10:30Z",
	} {
		got, err := ParseProviderTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
		assert.Equal(t, time.UTC, got.Location())
	}

	day, err := ParseProviderTimestamp("2024-01-15")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(day))

	for _, in := range []string{"", "not-a-date", "15/01/2024", "2024-01-15T10"} {
		_, err := ParseProviderTimestamp(in)
		assert.Error(t, err, in)
	}
}
