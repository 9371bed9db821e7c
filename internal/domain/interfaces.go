package domain

import (
	"context"
	"time"

	"prokat/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Repository is the persisted store of inventory, clients, users and rentals.
type Repository interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	GetItem(ctx context.Context, id int64) (*models.InventoryItem, error)
	GetItemPrice(ctx context.Context, id int64) (float64, error)
	GetAvailableItems(ctx context.Context) ([]models.InventoryItem, error)
	GetAllItems(ctx context.Context) ([]models.InventoryItem, error)
	UpdateItemStatus(ctx context.Context, id int64, status string) error
	BookRental(ctx context.Context, req *models.BookingRequest) (*models.Rental, error)
	GetRevenueReport(ctx context.Context, start, end time.Time) (*models.RevenueReport, error)
	GetInventoryReport(ctx context.Context) ([]models.InventoryCount, error)
	GetPopularItems(ctx context.Context, limit int) ([]models.PopularItem, error)
	RegisterUser(ctx context.Context, telegramID int64, role string) (*models.User, error)
	GetUserRole(ctx context.Context, telegramID int64) (string, error)
}

type StateRepository interface {
	GetSession(ctx context.Context, userID int64) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context, userID int64) error
	Lock(userID int64) (unlock func())
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendRemoveKeyboard(chatID int64, text string) (tgbotapi.Message, error)
	SendDocument(chatID int64, path, caption string) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type RentalService interface {
	ListAvailable(ctx context.Context) ([]models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	QuoteRental(ctx context.Context, itemID int64, hours int) (float64, error)
	BookRental(ctx context.Context, clientName, phone string, itemID int64, hours int) (*models.Rental, error)
	ReportRevenue(ctx context.Context, start, end time.Time) (*models.RevenueReport, error)
	FinancePeriod() (time.Time, time.Time, error)
	FinanceReport(ctx context.Context) (*models.RevenueReport, error)
	ReportInventoryByStatus(ctx context.Context) ([]models.InventoryCount, error)
	ReportPopular(ctx context.Context) ([]models.PopularItem, error)
	AddItem(ctx context.Context, itemType, brand, size string, price float64) (*models.InventoryItem, error)
	SetItemStatus(ctx context.Context, itemID int64, status string) error
}

type UserService interface {
	GetRole(ctx context.Context, telegramID int64) (string, error)
	RegisterRole(ctx context.Context, telegramID int64, role string) error
}

type ExportService interface {
	ExportReports(ctx context.Context, start, end time.Time) (string, error)
}

// LedgerWriter дублирует оформленные аренды во внешнюю таблицу.
type LedgerWriter interface {
	AppendRental(ctx context.Context, record *models.LedgerRecord) error
}

type SyncWorker interface {
	Enqueue(ctx context.Context, record *models.LedgerRecord) error
}
