package service

import (
	"context"
	"time"

	"prokat/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = 1
	}
	return args.Error(0)
}

func (m *MockRepository) GetItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockRepository) GetItemPrice(ctx context.Context, id int64) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) GetAvailableItems(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockRepository) GetAllItems(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockRepository) UpdateItemStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) BookRental(ctx context.Context, req *models.BookingRequest) (*models.Rental, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRepository) GetRevenueReport(ctx context.Context, start, end time.Time) (*models.RevenueReport, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RevenueReport), args.Error(1)
}

func (m *MockRepository) GetInventoryReport(ctx context.Context) ([]models.InventoryCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.InventoryCount), args.Error(1)
}

func (m *MockRepository) GetPopularItems(ctx context.Context, limit int) ([]models.PopularItem, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.PopularItem), args.Error(1)
}

func (m *MockRepository) RegisterUser(ctx context.Context, telegramID int64, role string) (*models.User, error) {
	args := m.Called(ctx, telegramID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserRole(ctx context.Context, telegramID int64) (string, error) {
	args := m.Called(ctx, telegramID)
	return args.String(0), args.Error(1)
}

type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockStateRepository) SetSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStateRepository) ClearSession(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

type recordingPublisher struct {
	events []string
	last   interface{}
}

func (p *recordingPublisher) PublishJSON(eventType string, payload interface{}) error {
	p.events = append(p.events, eventType)
	p.last = payload
	return nil
}
