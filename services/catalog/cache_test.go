package catalog

import (
	"context"
	"errors"
	"testing"

	"lokai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetApproved(ctx context.Context) ([]models.VendorRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VendorRecord), args.Error(1)
}

func TestCache_FetchApproved_FiltersToApproved(t *testing.T) {
	src := new(MockSource)
	src.On("GetApproved", mock.Anything).Return([]models.VendorRecord{
		{ID: "a", Status: models.VendorApproved},
		{ID: "b", Status: models.VendorPending},
		{ID: "c", Status: models.VendorApproved},
		{ID: "d", Status: models.VendorRejected},
	}, nil)

	c := NewCache(src, zap.NewNop())
	vendors, err := c.FetchApproved(context.Background())
	require.NoError(t, err)

	ids := []string{}
	for _, v := range vendors {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, uint64(1), c.Snapshot().Version)
}

func TestCache_FetchError_RetainsPreviousList(t *testing.T) {
	src := new(MockSource)
	src.On("GetApproved", mock.Anything).Return([]models.VendorRecord{{ID: "a", Status: models.VendorApproved}}, nil).Once()
	src.On("GetApproved", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	c := NewCache(src, zap.NewNop())
	_, err := c.FetchApproved(context.Background())
	require.NoError(t, err)

	vendors, err := c.FetchApproved(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	require.Len(t, vendors, 1)
	assert.Equal(t, "a", vendors[0].ID)
	assert.Equal(t, uint64(1), c.Snapshot().Version)
	src.AssertExpectations(t)
}

func TestCache_FirstFetchError_ReturnsEmptyList(t *testing.T) {
	src := new(MockSource)
	src.On("GetApproved", mock.Anything).Return(nil, errors.New("timeout"))

	c := NewCache(src, zap.NewNop())
	vendors, err := c.FetchApproved(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, vendors)
	assert.Empty(t, vendors)
}

func TestCache_SnapshotIsACopy(t *testing.T) {
	src := new(MockSource)
	src.On("GetApproved", mock.Anything).Return([]models.VendorRecord{
		{ID: "a", Status: models.VendorApproved, BusinessName: "Ravi Plumbing"},
	}, nil)

	c := NewCache(src, zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))

	snap := c.Snapshot()
	snap.Vendors[0].BusinessName = "changed"
	assert.Equal(t, "Ravi Plumbing", c.Snapshot().Vendors[0].BusinessName)
}
