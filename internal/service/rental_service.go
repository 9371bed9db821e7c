package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prokat/internal/config"
	"prokat/internal/domain"
	"prokat/internal/events"
	"prokat/internal/models"

	"github.com/rs/zerolog"
)

type RentalService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	rental   config.RentalConfig
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewRentalService(
	repo domain.Repository,
	eventBus domain.EventPublisher,
	rental config.RentalConfig,
	logger *zerolog.Logger,
) *RentalService {
	l := logger.With().Str("component", "rental_service").Logger()
	return &RentalService{
		repo:     repo,
		eventBus: eventBus,
		rental:   rental,
		now:      time.Now,
		logger:   &l,
	}
}

func (s *RentalService) ListAvailable(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.GetAvailableItems(ctx)
}

func (s *RentalService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.GetAllItems(ctx)
}

// QuoteRental = hours × price_per_hour. Срок вне 1..MaxRentalHours отклоняется
// до обращения к хранилищу.
func (s *RentalService) QuoteRental(ctx context.Context, itemID int64, hours int) (float64, error) {
	if !validHours(hours) {
		return 0, ErrInvalidDuration
	}
	price, err := s.repo.GetItemPrice(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return float64(hours) * price, nil
}

// BookRental starts the rental now and ends it hours later.
func (s *RentalService) BookRental(ctx context.Context, clientName, phone string, itemID int64, hours int) (*models.Rental, error) {
	cost, err := s.QuoteRental(ctx, itemID, hours)
	if err != nil {
		return nil, err
	}

	start := s.now().Truncate(time.Second)
	req := &models.BookingRequest{
		ClientName:  clientName,
		Phone:       strings.TrimSpace(phone),
		ItemID:      itemID,
		Start:       start,
		End:         start.Add(time.Duration(hours) * time.Hour),
		TotalCost:   cost,
		ReuseClient: s.rental.ReuseClients,
	}

	rental, err := s.repo.BookRental(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("book item %d: %w", itemID, err)
	}

	s.logger.Info().
		Int64("rental_id", rental.ID).
		Int64("item_id", itemID).
		Int("hours", hours).
		Float64("total_cost", cost).
		Msg("Rental booked")

	s.publishRental(ctx, req, rental)
	return rental, nil
}

func (s *RentalService) publishRental(ctx context.Context, req *models.BookingRequest, rental *models.Rental) {
	if s.eventBus == nil {
		return
	}

	payload := events.RentalEventPayload{
		RentalID:   rental.ID,
		ClientID:   rental.ClientID,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		ItemID:     rental.InventoryID,
		Start:      rental.StartTime,
		End:        rental.EndTime,
		TotalCost:  rental.TotalCost,
	}
	if item, err := s.repo.GetItem(ctx, rental.InventoryID); err == nil {
		payload.ItemType = item.Type
		payload.ItemBrand = item.Brand
	}

	if err := s.eventBus.PublishJSON(events.EventRentalBooked, payload); err != nil {
		s.logger.Error().Err(err).Int64("rental_id", rental.ID).Msg("publish rental_booked")
	}
}

// ReportRevenue: Total is nil when the period has no rentals.
func (s *RentalService) ReportRevenue(ctx context.Context, start, end time.Time) (*models.RevenueReport, error) {
	if end.Before(start) {
		return nil, ErrInvalidPeriod
	}
	return s.repo.GetRevenueReport(ctx, start, end)
}

// FinancePeriod is the configured report period, the current year by default.
func (s *RentalService) FinancePeriod() (time.Time, time.Time, error) {
	return s.rental.FinanceRange(s.now())
}

// FinanceReport отчет за настроенный финансовый период.
func (s *RentalService) FinanceReport(ctx context.Context) (*models.RevenueReport, error) {
	start, end, err := s.FinancePeriod()
	if err != nil {
		return nil, err
	}
	return s.ReportRevenue(ctx, start, end)
}

func (s *RentalService) ReportInventoryByStatus(ctx context.Context) ([]models.InventoryCount, error) {
	return s.repo.GetInventoryReport(ctx)
}

func (s *RentalService) ReportPopular(ctx context.Context) ([]models.PopularItem, error) {
	return s.repo.GetPopularItems(ctx, models.PopularItemsLimit)
}

// AddItem validates and stores a new item. The no-size sentinel is stored as no size.
func (s *RentalService) AddItem(ctx context.Context, itemType, brand, size string, price float64) (*models.InventoryItem, error) {
	if !s.rental.IsInventoryType(itemType) {
		return nil, ErrInvalidType
	}
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, ErrEmptyBrand
	}
	if !validPrice(price) {
		return nil, ErrInvalidPrice
	}

	size = strings.TrimSpace(size)
	if size == s.rental.NoSizeSentinel {
		size = ""
	}

	item := &models.InventoryItem{
		Type:         itemType,
		Brand:        brand,
		Size:         size,
		Status:       models.StatusAvailable,
		PricePerHour: price,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Str("type", item.Type).Msg("Inventory item added")

	if s.eventBus != nil {
		payload := events.InventoryEventPayload{
			ItemID:       item.ID,
			Type:         item.Type,
			Brand:        item.Brand,
			PricePerHour: item.PricePerHour,
		}
		if err := s.eventBus.PublishJSON(events.EventInventoryAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("publish inventory_added")
		}
	}
	return item, nil
}

// SetItemStatus меняет статус без проверки допустимости перехода.
func (s *RentalService) SetItemStatus(ctx context.Context, itemID int64, status string) error {
	known := false
	for _, st := range s.rental.InventoryStatuses {
		if st == status {
			known = true
			break
		}
	}
	if !known {
		return ErrInvalidStatus
	}
	return s.repo.UpdateItemStatus(ctx, itemID, status)
}
