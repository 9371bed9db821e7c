package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"prokat/internal/api"
	"prokat/internal/bot"
	"prokat/internal/config"
	"prokat/internal/database"
	"prokat/internal/domain"
	"prokat/internal/events"
	"prokat/internal/flow"
	"prokat/internal/google"
	"prokat/internal/logging"
	"prokat/internal/metrics"
	"prokat/internal/models"
	"prokat/internal/repository"
	"prokat/internal/service"
	"prokat/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, stateService := initStateService(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventBus := events.NewEventBus()
	if ledgerWorker := initLedger(ctx, cfg, redisClient, logger); ledgerWorker != nil {
		eventBus.Subscribe(events.EventRentalBooked, ledgerWorker.HandleRentalBooked)
		go ledgerWorker.Start(ctx)
	}

	// Инициализация бизнес-сервисов
	rentalService := service.NewRentalService(db, eventBus, cfg.Rental, logger)
	userService := service.NewUserService(db, eventBus, logger)
	exportService := service.NewExportService(rentalService, cfg.Exports.Path, logger)
	engine := flow.NewEngine(rentalService, userService, stateService, exportService, cfg.Rental, logger)

	metrics.Register()
	botMetrics := bot.NewMetrics(prometheus.DefaultRegisterer)

	if cfg.API.Enabled {
		apiServer := api.NewHTTPServer(cfg.API, rentalService, db, logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = apiServer.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(db, cfg.Database.Path, cfg.Backup, logger)
		go func() {
			if err := backupService.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("Backup service error")
			}
		}()
	}

	return startBot(ctx, cfg, stateService, engine, botMetrics, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logging.Component(baseLogger, "bot-main"), closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

// loadInventory читает стартовый инвентарь. Отсутствующий файл не ошибка.
func loadInventory(path string, rental config.RentalConfig) ([]models.InventoryItem, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var inventory struct {
		Items []models.InventoryItem `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &inventory); err != nil {
		return nil, err
	}
	if err := rental.ValidateInventory(inventory.Items); err != nil {
		return nil, err
	}
	return inventory.Items, nil
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	inventoryPath := os.Getenv("INVENTORY_PATH")
	if inventoryPath == "" {
		inventoryPath = "configs/inventory.yaml"
	}
	items, err := loadInventory(inventoryPath, cfg.Rental)
	if err != nil {
		logger.Error().Err(err).Str("inventory_path", inventoryPath).Msg("Ошибка чтения инвентаря")
		return nil, err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return nil, err
	}

	seeded, err := db.SeedInventory(ctx, items)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка загрузки стартового инвентаря")
	} else if seeded > 0 {
		logger.Info().Int("items", seeded).Msg("Inventory seeded")
	}
	return db, nil
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	ttl := time.Duration(models.DefaultRedisTTL) * time.Second
	fallbackRepo := repository.NewMemoryStateRepository(ttl)

	if cfg.Redis.Address == "" {
		return nil, service.NewSessionService(fallbackRepo, logger)
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, sessions kept in memory until it recovers")
	}

	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewSessionService(stateRepo, logger)
}

// initLedger поднимает журнал аренд в Google Sheets. Ошибки не фатальны:
// бот работает и без журнала.
func initLedger(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) *worker.LedgerWorker {
	if !cfg.Google.Enabled {
		return nil
	}

	sheetsService, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID, cfg.Google.SheetName)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsService.TestConnection(ctx); err != nil {
		email, _ := google.ServiceAccountEmail(cfg.Google.CredentialsFile)
		logger.Error().Err(err).Str("service_account", email).
			Msg("Google Sheets connection test failed, share the spreadsheet with the service account")
		return nil
	}
	if err := sheetsService.EnsureHeader(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to write ledger header")
	}

	logger.Info().Str("sheet", cfg.Google.SheetName).Msg("Google Sheets ledger initialized")
	return worker.NewLedgerWorker(sheetsService, redisClient, worker.DefaultRetryPolicy(), logger)
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	stateService domain.StateManager,
	engine bot.Conversation,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := bot.Connect(cfg.Telegram)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}

	tgService := service.NewTelegramService(botAPI)

	telegramBot, err := bot.NewBot(tgService, cfg, stateService, engine, botMetrics, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)
	telegramBot.Stop()

	logger.Info().Msg("Shutdown complete.")
	return nil
}
