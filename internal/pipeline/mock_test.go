package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/store"
	"github.com/parcelworks/feasibility-cli/pkg/geolocate"
	"github.com/parcelworks/feasibility-cli/pkg/parcel"
	"github.com/parcelworks/feasibility-cli/pkg/transitzone"
)

// --- Geolocate Mock ---

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, address string) (*model.ResolvedLocation, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResolvedLocation), args.Error(1)
}

func (m *mockResolver) Close() {}

// --- Parcel Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, parcelID string) (*model.ParcelRecord, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParcelRecord), args.Error(1)
}

func (m *mockFetcher) Close() {}

// --- Transit-Zone Mock ---

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, lat, lng float64) (transitzone.Classification, error) {
	args := m.Called(ctx, lat, lng)
	return args.Get(0).(transitzone.Classification), args.Error(1)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateReport(ctx context.Context, query model.AddressQuery) (*model.Report, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *mockStore) UpdateReportStatus(ctx context.Context, reportID string, status model.ReportStatus) error {
	args := m.Called(ctx, reportID, status)
	return args.Error(0)
}

func (m *mockStore) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *mockStore) ListReports(ctx context.Context, filter store.ReportFilter) ([]model.Report, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Report), args.Error(1)
}

func (m *mockStore) AddSourceRecord(ctx context.Context, rec *model.ReportSourceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockStore) ListSourceRecords(ctx context.Context, reportID string) ([]model.ReportSourceRecord, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReportSourceRecord), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Ensure interface compliance ---
var (
	_ geolocate.Resolver     = (*mockResolver)(nil)
	_ parcel.Fetcher         = (*mockFetcher)(nil)
	_ transitzone.Classifier = (*mockClassifier)(nil)
	_ store.Store            = (*mockStore)(nil)
)
