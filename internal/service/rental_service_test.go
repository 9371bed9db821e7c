package service

import (
	"context"
	"testing"
	"time"

	"prokat/internal/config"
	"prokat/internal/events"
	"prokat/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRentalConfig() config.RentalConfig {
	return config.RentalConfig{
		InventoryTypes:    []string{"Велосипед", "Самокат", "Лыжи"},
		InventoryStatuses: models.DefaultInventoryStatuses,
		NoSizeSentinel:    models.NoSizeSentinel,
	}
}

func newRentalService(repo *MockRepository, pub *recordingPublisher) *RentalService {
	logger := zerolog.Nop()
	if pub == nil {
		return NewRentalService(repo, nil, testRentalConfig(), &logger)
	}
	return NewRentalService(repo, pub, testRentalConfig(), &logger)
}

func TestRentalService_QuoteRental(t *testing.T) {
	ctx := context.Background()

	t.Run("HoursTimesPrice", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItemPrice", mock.Anything, int64(1)).Return(150.0, nil)
		s := newRentalService(repo, nil)

		for _, h := range []int{1, 3, 24, 100} {
			cost, err := s.QuoteRental(ctx, 1, h)
			require.NoError(t, err)
			assert.Equal(t, float64(h)*150.0, cost)
		}
	})

	t.Run("NonPositiveNeverTouchesStore", func(t *testing.T) {
		repo := new(MockRepository)
		s := newRentalService(repo, nil)

		for _, h := range []int{0, -1, -100, models.MaxRentalHours + 1, 3000000} {
			_, err := s.QuoteRental(ctx, 1, h)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		}
		repo.AssertNotCalled(t, "GetItemPrice", mock.Anything, mock.Anything)
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItemPrice", mock.Anything, int64(9)).Return(0.0, ErrItemNotFound)
		s := newRentalService(repo, nil)

		_, err := s.QuoteRental(ctx, 9, 2)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestRentalService_BookRental(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := new(MockRepository)
	pub := &recordingPublisher{}
	s := newRentalService(repo, pub)
	s.now = func() time.Time { return now }

	repo.On("GetItemPrice", mock.Anything, int64(1)).Return(150.0, nil)
	repo.On("BookRental", mock.Anything, mock.MatchedBy(func(req *models.BookingRequest) bool {
		return req.ItemID == 1 &&
			req.Phone == "+70000000000" &&
			req.TotalCost == 450.0 &&
			req.Start.Equal(now) &&
			req.End.Equal(now.Add(3*time.Hour)) &&
			!req.ReuseClient
	})).Return(&models.Rental{ID: 5, ClientID: 2, InventoryID: 1, StartTime: now, EndTime: now.Add(3 * time.Hour), TotalCost: 450.0}, nil)
	repo.On("GetItem", mock.Anything, int64(1)).Return(&models.InventoryItem{ID: 1, Type: "Велосипед", Brand: "Stels"}, nil)

	rental, err := s.BookRental(ctx, "Иван", " +70000000000 ", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), rental.ID)
	assert.Equal(t, 450.0, rental.TotalCost)
	repo.AssertExpectations(t)

	require.Equal(t, []string{events.EventRentalBooked}, pub.events)
	payload := pub.last.(events.RentalEventPayload)
	assert.Equal(t, "Stels", payload.ItemBrand)
	assert.Equal(t, int64(5), payload.RentalID)
}

func TestRentalService_BookRental_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidDuration", func(t *testing.T) {
		repo := new(MockRepository)
		s := newRentalService(repo, nil)

		for _, h := range []int{0, models.MaxRentalHours + 1, 3000000} {
			_, err := s.BookRental(ctx, "Иван", "+7", 1, h)
			assert.ErrorIs(t, err, ErrInvalidDuration, h)
		}
		repo.AssertNotCalled(t, "GetItemPrice", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "BookRental", mock.Anything, mock.Anything)
	})

	t.Run("LongestRentalEndsAfterStart", func(t *testing.T) {
		repo := new(MockRepository)
		s := newRentalService(repo, &recordingPublisher{})
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return now }

		var booked *models.BookingRequest
		repo.On("GetItemPrice", mock.Anything, int64(1)).Return(1.0, nil)
		repo.On("BookRental", mock.Anything, mock.MatchedBy(func(req *models.BookingRequest) bool {
			booked = req
			return true
		})).Return(&models.Rental{ID: 1, InventoryID: 1}, nil)
		repo.On("GetItem", mock.Anything, int64(1)).Return(&models.InventoryItem{ID: 1}, nil)

		_, err := s.BookRental(ctx, "Иван", "+7", 1, models.MaxRentalHours)
		require.NoError(t, err)
		require.NotNil(t, booked)
		assert.True(t, booked.End.After(booked.Start))

		r := models.Rental{StartTime: booked.Start, EndTime: booked.End}
		assert.Equal(t, models.MaxRentalHours, r.Hours())
	})

	t.Run("NotAvailable", func(t *testing.T) {
		repo := new(MockRepository)
		pub := &recordingPublisher{}
		s := newRentalService(repo, pub)
		repo.On("GetItemPrice", mock.Anything, int64(1)).Return(100.0, nil)
		repo.On("BookRental", mock.Anything, mock.Anything).Return(nil, ErrItemNotAvailable)

		_, err := s.BookRental(ctx, "Иван", "+7", 1, 2)
		assert.ErrorIs(t, err, ErrItemNotAvailable)
		assert.Empty(t, pub.events)
	})
}

func TestRentalService_ReuseClientsSwitch(t *testing.T) {
	repo := new(MockRepository)
	cfg := testRentalConfig()
	cfg.ReuseClients = true
	logger := zerolog.Nop()
	s := NewRentalService(repo, nil, cfg, &logger)

	repo.On("GetItemPrice", mock.Anything, int64(1)).Return(10.0, nil)
	repo.On("BookRental", mock.Anything, mock.MatchedBy(func(req *models.BookingRequest) bool {
		return req.ReuseClient
	})).Return(&models.Rental{ID: 1, InventoryID: 1}, nil)

	_, err := s.BookRental(context.Background(), "Иван", "+7", 1, 1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRentalService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		pub := &recordingPublisher{}
		s := newRentalService(repo, pub)
		repo.On("CreateItem", mock.Anything, mock.MatchedBy(func(item *models.InventoryItem) bool {
			return item.Type == "Велосипед" && item.Brand == "Stels" && item.Size == "M" &&
				item.PricePerHour == 150.0 && item.Status == models.StatusAvailable
		})).Return(nil)

		item, err := s.AddItem(ctx, "Велосипед", " Stels ", "M", 150.0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.ID)
		assert.Equal(t, []string{events.EventInventoryAdded}, pub.events)
	})

	t.Run("SentinelSize", func(t *testing.T) {
		repo := new(MockRepository)
		s := newRentalService(repo, nil)
		repo.On("CreateItem", mock.Anything, mock.MatchedBy(func(item *models.InventoryItem) bool {
			return item.Size == ""
		})).Return(nil)

		item, err := s.AddItem(ctx, "Самокат", "Xiaomi", "-", 200)
		require.NoError(t, err)
		assert.False(t, item.HasSize())
	})

	cases := []struct {
		name    string
		typ     string
		brand   string
		price   float64
		wantErr error
	}{
		{"UnknownType", "Лодка", "Yamaha", 10, ErrInvalidType},
		{"EmptyBrand", "Лыжи", "   ", 10, ErrEmptyBrand},
		{"NegativePrice", "Лыжи", "Atomic", -1, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			s := newRentalService(repo, nil)

			_, err := s.AddItem(ctx, tc.typ, tc.brand, "", tc.price)
			assert.ErrorIs(t, err, tc.wantErr)
			repo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
		})
	}
}

func TestRentalService_SetItemStatus(t *testing.T) {
	repo := new(MockRepository)
	s := newRentalService(repo, nil)
	repo.On("UpdateItemStatus", mock.Anything, int64(3), models.StatusMaintenance).Return(nil)

	assert.NoError(t, s.SetItemStatus(context.Background(), 3, models.StatusMaintenance))
	assert.ErrorIs(t, s.SetItemStatus(context.Background(), 3, "lost"), ErrInvalidStatus)
	repo.AssertNumberOfCalls(t, "UpdateItemStatus", 1)
}

func TestRentalService_Reports(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	s := newRentalService(repo, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	repo.On("GetRevenueReport", mock.Anything, start, end).Return(&models.RevenueReport{Start: start, End: end}, nil)
	repo.On("GetPopularItems", mock.Anything, models.PopularItemsLimit).Return([]models.PopularItem{}, nil)
	repo.On("GetInventoryReport", mock.Anything).Return([]models.InventoryCount{{Type: "Лыжи", Status: "available", Count: 2}}, nil)

	report, err := s.FinanceReport(ctx)
	require.NoError(t, err)
	assert.Nil(t, report.Total)

	_, err = s.ReportRevenue(ctx, end, start)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = s.ReportPopular(ctx)
	assert.NoError(t, err)

	rows, err := s.ReportInventoryByStatus(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	repo.AssertExpectations(t)
}
