package domain

import (
	"testing"

	shipments "shipdesk/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParcelType_Preset(t *testing.T) {
	card, err := ParcelCard.Preset()
	require.NoError(t, err)
	assert.Equal(t, "card", card.PredefinedPackage)
	assert.Equal(t, 3.0, card.Weight)
	assert.Nil(t, card.Length)

	def, err := ParcelType("").Preset()
	require.NoError(t, err)
	assert.Equal(t, card, def)

	std, err := ParcelStandard.Preset()
	require.NoError(t, err)
	assert.Empty(t, std.PredefinedPackage)
	assert.Equal(t, 6.0, *std.Length)
	assert.Equal(t, 4.5, *std.Width)
	assert.Equal(t, 0.016, *std.Height)
	assert.Equal(t, 5.0, std.Weight)

	_, err = ParcelType("pallet").Preset()
	assert.ErrorIs(t, err, ErrInvalidParcelType)
}

func TestMethodFor(t *testing.T) {
	assert.Equal(t, shipments.MethodCard, MethodFor(shipments.Parcel{PredefinedPackage: "card"}))
	assert.Equal(t, shipments.MethodTracked, MethodFor(shipments.Parcel{Weight: 5}))
	assert.Equal(t, shipments.MethodTracked, MethodFor(shipments.Parcel{PredefinedPackage: "FlatRateEnvelope"}))
}

func TestValidateRecipient(t *testing.T) {
	ok := shipments.Address{Name: "Ada", Street1: "1 Main", City: "Town", State: "PA", Zip: "18210"}
	assert.NoError(t, ValidateRecipient(ok))

	missing := ok
	missing.Zip = ""
	assert.ErrorIs(t, ValidateRecipient(missing), ErrInvalidAddress)
}
