package models

const (
	StatusAvailable   = "available"
	StatusRented      = "rented"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

const (
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

const (
	RentalStatusActive    = "active"
	RentalStatusCompleted = "completed"
)

const (
	// TimestampLayout формат хранения времени в SQLite
	TimestampLayout = "2006-01-02 15:04:05"

	// DateLayout формат дат в отчетах и HTTP API
	DateLayout = "2006-01-02"

	// NoSizeSentinel ввод продавца, означающий "без размера"
	NoSizeSentinel = "-"
)

const (
	// DefaultRedisTTL время жизни сессии пользователя в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// PopularItemsLimit размер отчета по популярным позициям
	PopularItemsLimit = 5

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// MaxRentalHours верхняя граница срока аренды (год). Дальше end_time
	// перестает помещаться в time.Duration.
	MaxRentalHours = 24 * 365

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 128
)

// DefaultInventoryStatuses mirrors the CHECK constraint on inventory.status.
var DefaultInventoryStatuses = []string{StatusAvailable, StatusRented, StatusMaintenance, StatusRetired}

var DefaultRentalStatuses = []string{RentalStatusActive, RentalStatusCompleted}
