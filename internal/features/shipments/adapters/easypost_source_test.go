package adapters

import (
	"context"
	"errors"
	"testing"

	"shipdesk/internal/core/easypost"
	"shipdesk/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShipmentAPI struct {
	mock.Mock
}

func (m *MockShipmentAPI) ListShipments(ctx context.Context, pageSize int) ([]easypost.Shipment, error) {
	args := m.Called(ctx, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]easypost.Shipment), args.Error(1)
}

func (m *MockShipmentAPI) GetShipment(ctx context.Context, id string) (*easypost.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*easypost.Shipment), args.Error(1)
}

func TestEasyPostShipmentSource_FetchPage(t *testing.T) {
	api := new(MockShipmentAPI)
	source := NewEasyPostShipmentSource(api)
	ctx := context.Background()

	length := 6.0
	api.On("ListShipments", ctx, 100).Return([]easypost.Shipment{
		{
			ID:           "shp_1",
			TrackingCode: "TRK1",
			PostageLabel: &easypost.PostageLabel{LabelURL: "https://labels.test/1.png"},
			SelectedRate: &easypost.Rate{Carrier: "USPS", Service: "First", Rate: "0.73"},
			Parcel:       &easypost.Parcel{Length: &length, Weight: 3, PredefinedPackage: "card"},
			FromAddress:  &easypost.Address{Company: "KeystonedTCG", City: "ALBRIGHTSVILLE"},
			ToAddress:    &easypost.Address{Name: "Ada", City: "London"},
			ScanForm:     &easypost.ScanFormRef{ID: "sf_1"},
			BatchID:      "batch_1",
			CreatedAt:    "2024-01-15T10:30:00Z",
		},
		{ID: "shp_2"},
	}, nil).Once()

	records, err := source.FetchPage(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.True(t, first.HasLabel())
	assert.Equal(t, "0.73", first.SelectedRate.Price)
	assert.Equal(t, "card", first.Parcel.PredefinedPackage)
	assert.Equal(t, 6.0, *first.Parcel.Length)
	assert.Equal(t, "KeystonedTCG", first.From.Name)
	assert.Equal(t, "sf_1", first.ScanFormID)
	assert.Equal(t, "batch_1", first.BatchID)

	second := records[1]
	assert.False(t, second.HasLabel())
	assert.Nil(t, second.SelectedRate)
	assert.Equal(t, domain.NoManifest(), domain.InferManifest(second))

	api.AssertExpectations(t)
}

func TestEasyPostShipmentSource_Errors(t *testing.T) {
	api := new(MockShipmentAPI)
	source := NewEasyPostShipmentSource(api)
	ctx := context.Background()

	api.On("ListShipments", ctx, 50).Return(nil, &easypost.APIError{StatusCode: 401, Code: "APIKEY.INACTIVE", Message: "This api key is no longer active."}).Once()
	api.On("GetShipment", ctx, "shp_x").Return(nil, errors.New("dial tcp: timeout")).Once()

	_, err := source.FetchPage(ctx, 50)
	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "APIKEY.INACTIVE", perr.Code)
	assert.Equal(t, "This api key is no longer active.", perr.Message)

	var apiErr *easypost.APIError
	assert.ErrorAs(t, err, &apiErr, "original error stays reachable")

	_, err = source.FetchByID(ctx, "shp_x")
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, perr.Code)
	assert.Contains(t, perr.Message, "timeout")

	assert.NoError(t, WrapProviderError(nil))
	api.AssertExpectations(t)
}

func TestEasyPostShipmentSource_FetchByIDUnknown(t *testing.T) {
	api := new(MockShipmentAPI)
	source := NewEasyPostShipmentSource(api)
	ctx := context.Background()

	api.On("GetShipment", ctx, "shp_gone").Return(nil, &easypost.APIError{StatusCode: 404, Code: "NOT_FOUND", Message: "The requested resource could not be found."}).Once()

	_, err := source.FetchByID(ctx, "shp_gone")
	require.ErrorIs(t, err, domain.ErrShipmentNotFound)
	assert.Contains(t, err.Error(), "shp_gone")

	var perr *domain.ProviderError
	assert.False(t, errors.As(err, &perr))
	api.AssertExpectations(t)
}
